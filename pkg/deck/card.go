package deck

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind discriminates number cards from operation cards
type Kind string

// kind constants
const (
	KindNumber    Kind = "number"
	KindOperation Kind = "operation"
)

// Color is the color of a number card
// Colors are ordered, dark < bronze < silver < gold, and the order is only used for tie-breaks
type Color string

// color constants
const (
	Dark   Color = "dark"
	Bronze Color = "bronze"
	Silver Color = "silver"
	Gold   Color = "gold"
)

// Colors is every color in ascending rank
var Colors = []Color{Dark, Bronze, Silver, Gold}

// Rank returns the tie-break rank of the color, or -1 if the color is unknown
func (c Color) Rank() int {
	switch c {
	case Dark:
		return 0
	case Bronze:
		return 1
	case Silver:
		return 2
	case Gold:
		return 3
	}

	return -1
}

// Operation is an arithmetic operator printed on an operation card
type Operation string

// operation constants
const (
	Add        Operation = "add"
	Subtract   Operation = "subtract"
	Multiply   Operation = "multiply"
	Divide     Operation = "divide"
	SquareRoot Operation = "squareRoot"
)

// StartingOperations are the operators every player is handed at the start of a round
var StartingOperations = []Operation{Add, Subtract, Divide}

// OperationFromString returns the operation for its identifier
func OperationFromString(s string) (Operation, error) {
	switch op := Operation(s); op {
	case Add, Subtract, Multiply, Divide, SquareRoot:
		return op, nil
	}

	return "", fmt.Errorf("unknown operation: %s", s)
}

// Symbol returns the symbol used when writing an equation
func (o Operation) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case SquareRoot:
		return "sqrt"
	}

	panic(fmt.Sprintf("unknown operation: %s", string(o)))
}

// min and max values of a number card
const (
	MinValue = 0
	MaxValue = 10
)

// Card is either a number card (Value + Color) or an operation card (Operation)
type Card struct {
	Kind      Kind
	Value     int
	Color     Color
	Operation Operation
}

// NumberCard returns a new number card
func NumberCard(value int, color Color) *Card {
	return &Card{
		Kind:  KindNumber,
		Value: value,
		Color: color,
	}
}

// OperationCard returns a new operation card
func OperationCard(op Operation) *Card {
	return &Card{
		Kind:      KindOperation,
		Operation: op,
	}
}

// IsNumber returns true if the card is a number card
func (c *Card) IsNumber() bool {
	return c.Kind == KindNumber
}

// IsOperation returns true if the card is the specified operation card
func (c *Card) IsOperation(op Operation) bool {
	return c.Kind == KindOperation && c.Operation == op
}

// Equal returns true if the cards are equal
func (c *Card) Equal(card *Card) bool {
	return c.Kind == card.Kind && c.Value == card.Value && c.Color == card.Color && c.Operation == card.Operation
}

type numberCardJSON struct {
	Kind  Kind  `json:"kind"`
	Value int   `json:"value"`
	Color Color `json:"color"`
}

type operationCardJSON struct {
	Kind      Kind      `json:"kind"`
	Operation Operation `json:"operation"`
}

// MarshalJSON encodes only the fields that belong to the card's kind
func (c *Card) MarshalJSON() ([]byte, error) {
	if c.IsNumber() {
		return json.Marshal(numberCardJSON{Kind: c.Kind, Value: c.Value, Color: c.Color})
	}

	return json.Marshal(operationCardJSON{Kind: c.Kind, Operation: c.Operation})
}

func (c *Card) String() string {
	if c.IsNumber() {
		return fmt.Sprintf("%d%c", c.Value, c.Color[0])
	}

	return c.Operation.Symbol()
}

var cardRx = regexp.MustCompile(`(?i)^(10|[0-9])([dbsg])\z`)

// CardFromString returns a Card from the string.
// Number cards are in the format of <value><color> where color in [dbsg], e.g. 7g is a gold seven.
// Operation cards are their symbol: +, -, *, /, sqrt
func CardFromString(s string) *Card {
	if s == "" {
		return nil
	}

	switch s {
	case "+":
		return OperationCard(Add)
	case "-":
		return OperationCard(Subtract)
	case "*":
		return OperationCard(Multiply)
	case "/":
		return OperationCard(Divide)
	case "sqrt":
		return OperationCard(SquareRoot)
	}

	match := cardRx.FindStringSubmatch(s)
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		panic(fmt.Sprintf("could not parse card `%s`: %v", s, err))
	}

	var color Color
	switch strings.ToLower(match[2]) {
	case "d":
		color = Dark
	case "b":
		color = Bronze
	case "s":
		color = Silver
	case "g":
		color = Gold
	default:
		// should never be hit due to the regexp
		panic("unknown color")
	}

	return NumberCard(value, color)
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) []*Card {
	if s == "" {
		return []*Card{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make([]*Card, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardsToString will convert a slice of cards to a string in the format of 2d,sqrt,10g,...
func CardsToString(cards []*Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = card.String()
	}

	return strings.Join(c, ",")
}

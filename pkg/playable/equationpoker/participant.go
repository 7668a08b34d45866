package equationpoker

import (
	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/playable/equationpoker/action"
)

// Participant is a player seated in a game
type Participant struct {
	PlayerID string
	Name     string
	IsBot    bool

	chips int

	// hand holds number cards and any operation cards acquired while dealing
	hand deck.Hand
	// operations are the starting operators, multiply replaces one after a swap
	operations      []deck.Operation
	pendingMultiply *deck.Card
	sqrtContext     bool

	bet   int
	acted bool

	betType       action.BetType
	smallEquation string
	bigEquation   string
	submitted     bool
	// card usage errors found at submission, scored as no result
	smallUsage error
	bigUsage   error

	folded     bool
	active     bool
	eliminated bool
	spectator  bool
}

type participantJSON struct {
	PlayerID             string           `json:"playerId"`
	Name                 string           `json:"name"`
	IsBot                bool             `json:"isBot"`
	Chips                int              `json:"chips"`
	Bet                  int              `json:"currentBet"`
	NumberCards          deck.Hand        `json:"numberCards"`
	OperationCards       deck.Hand        `json:"operationCards"`
	StartingOperations   []deck.Operation `json:"startingOperations"`
	BetType              action.BetType   `json:"betType"`
	SmallSubmitted       bool             `json:"smallSubmitted"`
	BigSubmitted         bool             `json:"bigSubmitted"`
	Folded               bool             `json:"folded"`
	Active               bool             `json:"active"`
	Eliminated           bool             `json:"eliminated"`
	Spectator            bool             `json:"spectator"`
	PendingSwapChoice    bool             `json:"pendingSwapChoice"`
	HasSquareRootContext bool             `json:"hasSquareRootContext"`
}

func newParticipant(id, name string, chips int, isBot bool) *Participant {
	return &Participant{
		PlayerID:   id,
		Name:       name,
		IsBot:      isBot,
		chips:      chips,
		hand:       make(deck.Hand, 0),
		operations: startingOperations(),
		active:     true,
	}
}

func newSpectator(id, name string) *Participant {
	p := newParticipant(id, name, 0, false)
	p.folded = true
	p.active = false
	p.spectator = true
	return p
}

func startingOperations() []deck.Operation {
	ops := make([]deck.Operation, len(deck.StartingOperations))
	copy(ops, deck.StartingOperations)
	return ops
}

// Chips returns the player's balance
func (p *Participant) Chips() int {
	return p.chips
}

// Hand returns the cards dealt to the player
func (p *Participant) Hand() deck.Hand {
	return p.hand
}

// isContestant returns true if the participant is still playing the round
func (p *Participant) isContestant() bool {
	return p.active && !p.folded
}

// canPlay returns true if the participant can be dealt into a new round
func (p *Participant) canPlay() bool {
	return p.active && !p.eliminated && !p.spectator && p.chips > 0
}

func (p *Participant) newRound() {
	p.hand = make(deck.Hand, 0)
	p.operations = startingOperations()
	p.pendingMultiply = nil
	p.sqrtContext = false
	p.bet = 0
	p.acted = false
	p.betType = action.BetTypeNone
	p.smallEquation = ""
	p.bigEquation = ""
	p.submitted = false
	p.smallUsage = nil
	p.bigUsage = nil
	p.folded = !p.canPlay()
}

// hasMultiply returns true if the participant holds or is being offered a multiply card
func (p *Participant) hasMultiply() bool {
	if p.pendingMultiply != nil || p.hand.HasOperation(deck.Multiply) {
		return true
	}

	for _, op := range p.operations {
		if op == deck.Multiply {
			return true
		}
	}

	return false
}

// swapOperation replaces a starting operator with multiply
// Returns false if the participant does not hold the operator
func (p *Participant) swapOperation(op deck.Operation) bool {
	if op == deck.Multiply {
		return false
	}

	for i, held := range p.operations {
		if held == op {
			p.operations[i] = deck.Multiply
			return true
		}
	}

	return false
}

// swapChoices returns the operators that can be traded for multiply
func (p *Participant) swapChoices() []deck.Operation {
	choices := make([]deck.Operation, 0, len(p.operations))
	for _, op := range p.operations {
		if op != deck.Multiply {
			choices = append(choices, op)
		}
	}

	return choices
}

// squareRoots returns the number of square root cards held
func (p *Participant) squareRoots() int {
	n := 0
	for _, c := range p.hand {
		if c.IsOperation(deck.SquareRoot) {
			n++
		}
	}

	return n
}

func (p *Participant) eliminate() {
	p.folded = true
	p.active = false
	p.eliminated = true
}

func (p *Participant) participantJSON() *participantJSON {
	operationCards := make(deck.Hand, 0)
	for _, c := range p.hand {
		if !c.IsNumber() {
			operationCards = append(operationCards, c)
		}
	}

	ops := make([]deck.Operation, len(p.operations))
	copy(ops, p.operations)

	return &participantJSON{
		PlayerID:             p.PlayerID,
		Name:                 p.Name,
		IsBot:                p.IsBot,
		Chips:                p.chips,
		Bet:                  p.bet,
		NumberCards:          p.hand.NumberCards(),
		OperationCards:       operationCards,
		StartingOperations:   ops,
		BetType:              p.betType,
		SmallSubmitted:       p.submitted && p.betType.WantsSmall(),
		BigSubmitted:         p.submitted && p.betType.WantsBig(),
		Folded:               p.folded,
		Active:               p.active,
		Eliminated:           p.eliminated,
		Spectator:            p.spectator,
		PendingSwapChoice:    p.pendingMultiply != nil,
		HasSquareRootContext: p.sqrtContext,
	}
}

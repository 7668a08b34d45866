package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"

	"equationpoker-server/internal/rng"
)

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// composition of a deck
const (
	NumberCardCount     = 44
	MultiplyCardCount   = 4
	SquareRootCardCount = 4
	Size                = NumberCardCount + MultiplyCardCount + SquareRootCardCount
)

// Deck represents a playing deck
// Cards are drawn from the front of the slice
type Deck struct {
	Cards []*Card `json:"cards"`
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	d := &Deck{}
	d.buildDeck()
	return d
}

// Build returns a new, shuffled deck
// A deck must be built once per round and never reused
func Build(gen rng.Generator) *Deck {
	d := New()
	d.Shuffle(gen)
	return d
}

func (d *Deck) buildDeck() {
	cards := make([]*Card, 0, Size)
	for _, color := range Colors {
		for value := MinValue; value <= MaxValue; value++ {
			cards = append(cards, NumberCard(value, color))
		}
	}

	for i := 0; i < MultiplyCardCount; i++ {
		cards = append(cards, OperationCard(Multiply))
	}

	for i := 0; i < SquareRootCardCount; i++ {
		cards = append(cards, OperationCard(SquareRoot))
	}

	d.Cards = cards
}

// Shuffle performs a Fisher-Yates shuffle of the remaining cards
func (d *Deck) Shuffle(gen rng.Generator) {
	for j := len(d.Cards) - 1; j > 0; j-- {
		i := gen.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
		_, _ = hash.Write([]byte{','})
	}

	return hex.EncodeToString(hash.Sum(nil)[:])
}

// Draw will draw the next card
// If there are no more cards, an ErrEndOfDeck is returned along with a nil card.
func (d *Deck) Draw() (*Card, error) {
	if len(d.Cards) <= 0 {
		return nil, ErrEndOfDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// UndoDraw puts the cards back on the drawing end of the deck
// The first card passed in will be the next card drawn
func (d *Deck) UndoDraw(cards ...*Card) {
	if len(cards) == 0 {
		return
	}

	newCards := make([]*Card, 0, len(cards)+len(d.Cards))
	newCards = append(newCards, cards...)
	d.Cards = append(newCards, d.Cards...)
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}

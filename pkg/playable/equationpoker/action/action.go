// Package action defines the actions a player can send to an equation poker game.
// Every action kind is its own type carrying exactly the fields that kind requires.
package action

import (
	"fmt"

	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/playable"
)

// Kind identifies an action on the wire
type Kind string

// kind constants
const (
	KindBet            Kind = "bet"
	KindCall           Kind = "call"
	KindFold           Kind = "fold"
	KindSelectBetType  Kind = "selectBetType"
	KindSubmitEquation Kind = "submitEquation"
	KindSwapCard       Kind = "swapCard"
	KindDeclineSwap    Kind = "declineSwap"
)

// BetType is which target(s) a player is playing for
type BetType string

// bet type constants
const (
	BetTypeNone BetType = ""
	Small       BetType = "small"
	Big         BetType = "big"
	Both        BetType = "both"
)

// BetTypeFromString returns the bet type for the given identifier
func BetTypeFromString(s string) (BetType, error) {
	switch bt := BetType(s); bt {
	case Small, Big, Both:
		return bt, nil
	}

	return BetTypeNone, fmt.Errorf("%w: unknown bet type: %s", playable.ErrInvalidAction, s)
}

// WantsSmall returns true if the bet type plays for the small target
func (b BetType) WantsSmall() bool {
	return b == Small || b == Both
}

// WantsBig returns true if the bet type plays for the big target
func (b BetType) WantsBig() bool {
	return b == Big || b == Both
}

// Action is an action performed by a player
type Action interface {
	Kind() Kind
}

// Bet raises the current bet to Amount
type Bet struct {
	Amount int
}

// Call matches the current bet
type Call struct{}

// Fold withdraws from the round
type Fold struct{}

// SelectBetType picks the target(s) for the equation phase
type SelectBetType struct {
	BetType BetType
}

// SubmitEquation submits the equation(s) required by the bet type
// An empty string means the equation was not submitted
type SubmitEquation struct {
	Small string
	Big   string
}

// SwapCard trades a starting operator for the pending multiply card
type SwapCard struct {
	Operation deck.Operation
}

// DeclineSwap discards the pending multiply card
type DeclineSwap struct{}

// Kind returns KindBet
func (Bet) Kind() Kind { return KindBet }

// Kind returns KindCall
func (Call) Kind() Kind { return KindCall }

// Kind returns KindFold
func (Fold) Kind() Kind { return KindFold }

// Kind returns KindSelectBetType
func (SelectBetType) Kind() Kind { return KindSelectBetType }

// Kind returns KindSubmitEquation
func (SubmitEquation) Kind() Kind { return KindSubmitEquation }

// Kind returns KindSwapCard
func (SwapCard) Kind() Kind { return KindSwapCard }

// Kind returns KindDeclineSwap
func (DeclineSwap) Kind() Kind { return KindDeclineSwap }

// FromPayload decodes and validates an action sent by a client
// A payload whose fields don't match its action kind is rejected with playable.ErrInvalidAction
func FromPayload(msg *playable.PayloadIn) (Action, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: missing payload", playable.ErrInvalidAction)
	}

	switch Kind(msg.Action) {
	case KindBet:
		amount, ok := msg.AdditionalData.GetInt("amount")
		if !ok {
			return nil, fmt.Errorf("%w: bet requires an integer amount", playable.ErrInvalidAction)
		}

		if amount <= 0 {
			return nil, fmt.Errorf("%w: bet amount must be greater than zero", playable.ErrInvalidAction)
		}

		return Bet{Amount: amount}, nil
	case KindCall:
		return Call{}, nil
	case KindFold:
		return Fold{}, nil
	case KindSelectBetType:
		s, ok := msg.AdditionalData.GetString("betType")
		if !ok {
			return nil, fmt.Errorf("%w: selectBetType requires a betType", playable.ErrInvalidAction)
		}

		bt, err := BetTypeFromString(s)
		if err != nil {
			return nil, err
		}

		return SelectBetType{BetType: bt}, nil
	case KindSubmitEquation:
		small, _ := msg.AdditionalData.GetString("small")
		big, _ := msg.AdditionalData.GetString("big")
		if small == "" && big == "" {
			return nil, fmt.Errorf("%w: submitEquation requires a small or big equation", playable.ErrInvalidAction)
		}

		return SubmitEquation{Small: small, Big: big}, nil
	case KindSwapCard:
		s, ok := msg.AdditionalData.GetString("operation")
		if !ok {
			return nil, fmt.Errorf("%w: swapCard requires an operation", playable.ErrInvalidAction)
		}

		op, err := deck.OperationFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", playable.ErrInvalidAction, err)
		}

		return SwapCard{Operation: op}, nil
	case KindDeclineSwap:
		return DeclineSwap{}, nil
	}

	return nil, fmt.Errorf("%w: unknown action: %s", playable.ErrInvalidAction, msg.Action)
}

package equationpoker

import (
	"fmt"

	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/sirupsen/logrus"
)

// maxDealAttempts bounds how often a deal is retried after failing its card count check
const maxDealAttempts = 3

// deal deals every contestant up to the phase's number card target
// It is re-entrant: a human drawing a multiply card halts the deal for the whole table,
// and the deal picks up where it left off once the swap is decided.
func (g *Game) deal() error {
	if g.pendingSwap() != nil {
		return nil
	}

	target := g.phase.numberCardTarget()

	for attempt := 0; attempt < maxDealAttempts; attempt++ {
		halted, discarded, err := g.dealPass(target)
		if err != nil {
			return g.abort(err)
		}

		if halted {
			return nil
		}

		if g.everyContestantHolds(target) {
			return g.finishDeal()
		}

		g.logger.WithFields(logrus.Fields{
			"phase":   g.phase.String(),
			"attempt": attempt,
		}).Error("contestants do not hold the expected number of cards after the deal")
		g.deck.UndoDraw(discarded...)
	}

	return g.abort(fmt.Errorf("%w: could not complete the deal in the %s phase", playable.ErrDeckExhausted, g.phase))
}

// dealPass draws cards for each contestant in seat order
// halted is true when the deal is waiting on a swap decision.
// discarded holds the multiply cards thrown away during this pass.
func (g *Game) dealPass(target int) (halted bool, discarded []*deck.Card, err error) {
	for _, p := range g.participants {
		if !p.isContestant() {
			continue
		}

		for p.hand.CountNumbers() < target {
			card, err := g.deck.Draw()
			if err != nil {
				return false, discarded, fmt.Errorf("%w: %v", playable.ErrDeckExhausted, err)
			}

			// the square root lookahead only covers the next draw
			p.sqrtContext = false

			switch {
			case card.IsNumber():
				p.hand.AddCard(card)
			case card.IsOperation(deck.SquareRoot):
				p.hand.AddCard(card)
				p.sqrtContext = true
				g.log(p.PlayerID, "drew a square root card")
			case card.IsOperation(deck.Multiply):
				if p.hasMultiply() {
					discarded = append(discarded, card)
					continue
				}

				if p.IsBot {
					g.botSwap(p)
					continue
				}

				p.pendingMultiply = card
				g.log(p.PlayerID, "drew a multiply card")
				g.emit(Event{
					Kind:      EventSwapRequired,
					Recipient: p.PlayerID,
					Swap: &SwapRequest{
						PlayerID: p.PlayerID,
						Choices:  p.swapChoices(),
						Card:     card,
					},
				})

				return true, discarded, nil
			default:
				return false, discarded, fmt.Errorf("%w: unexpected card in the deck: %s", playable.ErrDeckExhausted, card)
			}
		}
	}

	return false, discarded, nil
}

func (g *Game) everyContestantHolds(target int) bool {
	for _, p := range g.participants {
		if p.isContestant() && p.hand.CountNumbers() != target {
			return false
		}
	}

	return true
}

// finishDeal moves from a dealing phase into its betting phase
func (g *Game) finishDeal() error {
	switch g.phase {
	case PhaseDealing1:
		g.startBettingPhase(PhaseBetting1)
	case PhaseDealing2:
		g.startBettingPhase(PhaseBetting2)
	default:
		panic(fmt.Sprintf("finishDeal called from %s", g.phase))
	}

	return nil
}

// pendingSwap returns the participant the deal is waiting on
func (g *Game) pendingSwap() *Participant {
	for _, p := range g.participants {
		if p.pendingMultiply != nil {
			return p
		}
	}

	return nil
}

func (g *Game) swapCard(p *Participant, op deck.Operation) error {
	if p.pendingMultiply == nil {
		return fmt.Errorf("%w: you have no multiply card to swap", playable.ErrInvalidAction)
	}

	if !p.swapOperation(op) {
		return fmt.Errorf("%w: you do not hold the %s card", playable.ErrInvalidAction, op)
	}

	p.pendingMultiply = nil
	g.log(p.PlayerID, "swapped %s for multiply", op)

	return g.resumeDeal()
}

func (g *Game) declineSwap(p *Participant) error {
	if p.pendingMultiply == nil {
		return fmt.Errorf("%w: you have no multiply card to decline", playable.ErrInvalidAction)
	}

	p.pendingMultiply = nil
	g.log(p.PlayerID, "declined the multiply card")

	return g.resumeDeal()
}

// resumeDeal continues a deal halted on a swap decision
func (g *Game) resumeDeal() error {
	if !g.phase.IsDealing() {
		return nil
	}

	return g.deal()
}

// DeclinePendingSwap declines the multiply card on behalf of whoever the deal is waiting on
// Returns false if no swap is pending
func (g *Game) DeclinePendingSwap() (bool, error) {
	p := g.pendingSwap()
	if p == nil {
		return false, nil
	}

	return true, g.Action(p.PlayerID, action.DeclineSwap{})
}

// PendingSwapPlayer returns the player the deal is waiting on
func (g *Game) PendingSwapPlayer() (string, bool) {
	if p := g.pendingSwap(); p != nil {
		return p.PlayerID, true
	}

	return "", false
}

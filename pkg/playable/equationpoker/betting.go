package equationpoker

import (
	"fmt"

	"equationpoker-server/pkg/playable"
)

// startBettingPhase resets the bets and puts the first contestant on the clock
func (g *Game) startBettingPhase(phase Phase) {
	g.setPhase(phase)
	g.currentBet = 0
	for _, p := range g.participants {
		p.bet = 0
		p.acted = false
	}

	g.decisionIndex = g.firstContestantIndex()
}

// MaxBet returns the largest bet allowed, the smallest balance among the contestants
func (g *Game) MaxBet() int {
	maxBet := -1
	for _, p := range g.contestants() {
		if maxBet < 0 || p.chips < maxBet {
			maxBet = p.chips
		}
	}

	if maxBet < 0 {
		return 0
	}

	return maxBet
}

func (g *Game) validateTurn(p *Participant, verb string) error {
	if !g.phase.IsBetting() {
		return fmt.Errorf("%w: you cannot %s during the %s phase", playable.ErrInvalidAction, verb, g.phase)
	}

	if g.currentTurn() != p {
		return fmt.Errorf("%w: it is not your turn", playable.ErrInvalidAction)
	}

	return nil
}

func (g *Game) bet(p *Participant, amount int) error {
	if err := g.validateTurn(p, "bet"); err != nil {
		return err
	}

	if amount <= g.currentBet {
		return fmt.Errorf("%w: bet must be greater than the current bet of ${%d}", playable.ErrInvalidAction, g.currentBet)
	}

	if amount > p.chips {
		return fmt.Errorf("%w: bet of ${%d} exceeds your balance of ${%d}", playable.ErrInsufficientChips, amount, p.chips)
	}

	if maxBet := g.MaxBet(); amount > maxBet {
		return fmt.Errorf("%w: bet of ${%d} exceeds the max bet of ${%d}", playable.ErrInsufficientChips, amount, maxBet)
	}

	diff := amount - p.bet
	p.chips -= diff
	p.bet = amount
	p.acted = true
	g.pot += diff
	g.currentBet = amount
	g.log(p.PlayerID, "bet ${%d}", amount)

	if p.chips == 0 {
		g.eliminate(p)
	}

	return g.afterBettingAction()
}

func (g *Game) call(p *Participant) error {
	if err := g.validateTurn(p, "call"); err != nil {
		return err
	}

	diff := g.currentBet - p.bet
	if diff > p.chips {
		return fmt.Errorf("%w: you need ${%d} to call but only have ${%d}", playable.ErrInsufficientChips, diff, p.chips)
	}

	p.chips -= diff
	p.bet = g.currentBet
	p.acted = true
	g.pot += diff
	if diff == 0 {
		g.log(p.PlayerID, "checked")
	} else {
		g.log(p.PlayerID, "called ${%d}", diff)
	}

	if p.chips == 0 {
		g.eliminate(p)
	}

	return g.afterBettingAction()
}

func (g *Game) fold(p *Participant) error {
	if err := g.validateTurn(p, "fold"); err != nil {
		return err
	}

	p.folded = true
	p.acted = true
	g.log(p.PlayerID, "folded")

	return g.afterBettingAction()
}

func (g *Game) eliminate(p *Participant) {
	p.eliminate()
	g.log(p.PlayerID, "is out of chips")
}

// afterBettingAction ends the round, ends the betting phase, or moves to the next contestant
func (g *Game) afterBettingAction() error {
	if g.contestantCount() <= 1 {
		g.endEarly()
		return nil
	}

	if g.bettingRoundComplete() {
		return g.nextPhase()
	}

	g.decisionIndex = g.nextContestantIndex(g.decisionIndex)
	return nil
}

// bettingRoundComplete returns true once every contestant acted and matched the current bet
func (g *Game) bettingRoundComplete() bool {
	for _, p := range g.participants {
		if !p.isContestant() {
			continue
		}

		if !p.acted || p.bet != g.currentBet {
			return false
		}
	}

	return true
}

// nextPhase leaves a completed betting phase
func (g *Game) nextPhase() error {
	switch g.phase {
	case PhasePreflop:
		g.setPhase(PhaseDealing1)
		return g.deal()
	case PhaseBetting1:
		g.setPhase(PhaseDealing2)
		return g.deal()
	case PhaseBetting2:
		g.setPhase(PhaseEquation)
		g.decisionIndex = g.firstContestantIndex()
		g.log("", "build your equations")
		return nil
	}

	panic(fmt.Sprintf("nextPhase called from %s", g.phase))
}

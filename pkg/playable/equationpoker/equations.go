package equationpoker

import (
	"fmt"
	"strings"

	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/equation"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker/action"
)

func (g *Game) validateEquationPhase(p *Participant, verb string) error {
	if g.phase != PhaseEquation {
		return fmt.Errorf("%w: %s only during the equation phase", playable.ErrInvalidAction, verb)
	}

	if !p.isContestant() {
		return fmt.Errorf("%w: you are not in this round", playable.ErrInvalidAction)
	}

	return nil
}

func (g *Game) selectBetType(p *Participant, betType action.BetType) error {
	if err := g.validateEquationPhase(p, "you can select a bet type"); err != nil {
		return err
	}

	if p.submitted {
		return fmt.Errorf("%w: bet type cannot be changed after submitting an equation", playable.ErrInvalidAction)
	}

	p.betType = betType
	g.log(p.PlayerID, "is going %s", betType)
	return nil
}

func (g *Game) submitEquation(p *Participant, small, big string) error {
	if err := g.validateEquationPhase(p, "you can submit an equation"); err != nil {
		return err
	}

	if p.betType == action.BetTypeNone {
		return fmt.Errorf("%w: select a bet type before submitting an equation", playable.ErrInvalidAction)
	}

	if p.submitted {
		return fmt.Errorf("%w: equation already submitted", playable.ErrInvalidAction)
	}

	small = strings.TrimSpace(small)
	big = strings.TrimSpace(big)
	if err := requireEquation("small", p.betType.WantsSmall(), small); err != nil {
		return err
	}

	if err := requireEquation("big", p.betType.WantsBig(), big); err != nil {
		return err
	}

	// malformed equations and equations using cards the player does not hold
	// are accepted here and score as no result
	p.smallEquation = small
	p.bigEquation = big
	p.smallUsage = p.cardUsage(small)
	p.bigUsage = p.cardUsage(big)
	p.submitted = true
	g.log(p.PlayerID, "submitted")

	if g.allEquationsSubmitted() {
		g.resolve()
	}

	return nil
}

func requireEquation(target string, wanted bool, expr string) error {
	if wanted && expr == "" {
		return fmt.Errorf("%w: a %s equation is required", playable.ErrInvalidAction, target)
	}

	if !wanted && expr != "" {
		return fmt.Errorf("%w: a %s equation is not allowed for your bet type", playable.ErrInvalidAction, target)
	}

	return nil
}

// operationTokens maps the operator cards to the tokens they allow
var operationTokens = map[deck.Operation]equation.TokenKind{
	deck.Add:      equation.TokenAdd,
	deck.Subtract: equation.TokenSubtract,
	deck.Multiply: equation.TokenMultiply,
	deck.Divide:   equation.TokenDivide,
}

// cardUsage returns an error if expr uses cards the participant does not hold
// Each number card can be used once, each operator held any number of times,
// and every sqrt needs its own square root card.
// Expressions that don't tokenize are left to the evaluator.
func (p *Participant) cardUsage(expr string) error {
	if expr == "" {
		return nil
	}

	tokens, err := equation.Tokens(expr)
	if err != nil {
		return nil
	}

	numbers := make(map[int]int)
	for _, c := range p.hand.NumberCards() {
		numbers[c.Value]++
	}

	operators := make(map[equation.TokenKind]bool)
	for _, op := range p.operations {
		if kind, ok := operationTokens[op]; ok {
			operators[kind] = true
		}
	}

	roots := p.squareRoots()
	for _, tok := range tokens {
		switch tok.Kind {
		case equation.TokenNumber:
			if numbers[tok.Value] == 0 {
				return fmt.Errorf("%w: %d at position %d is not one of your number cards", equation.ErrMalformedEquation, tok.Value, tok.Pos)
			}

			numbers[tok.Value]--
		case equation.TokenSquareRoot:
			if roots == 0 {
				return fmt.Errorf("%w: sqrt at position %d needs a square root card", equation.ErrMalformedEquation, tok.Pos)
			}

			roots--
		case equation.TokenLeftParen, equation.TokenRightParen:
		default:
			if !operators[tok.Kind] {
				return fmt.Errorf("%w: %s at position %d is not one of your operators", equation.ErrMalformedEquation, tok.Kind, tok.Pos)
			}
		}
	}

	return nil
}

// allEquationsSubmitted returns true once every contestant picked a bet type and submitted
func (g *Game) allEquationsSubmitted() bool {
	contestants := g.contestants()
	if len(contestants) == 0 {
		return false
	}

	for _, p := range contestants {
		if p.betType == action.BetTypeNone || !p.submitted {
			return false
		}
	}

	return true
}

// resolve scores the equations, pays the winners, and ends the round
func (g *Game) resolve() {
	res := resolve(g.contestants(), g.pot)

	for _, p := range g.participants {
		if amount, ok := res.Payouts[p.PlayerID]; ok && amount > 0 {
			p.chips += amount
			g.log(p.PlayerID, "won ${%d}", amount)
		}
	}

	g.pot = 0
	g.smallWinners = []string{}
	g.bigWinners = []string{}
	if res.SmallWinner != nil {
		g.smallWinners = append(g.smallWinners, res.SmallWinner.PlayerID)
	}

	if res.BigWinner != nil {
		g.bigWinners = append(g.bigWinners, res.BigWinner.PlayerID)
	}

	g.equationResults = res.Results
	g.decisionIndex = -1
	g.setPhase(PhaseEnded)
}

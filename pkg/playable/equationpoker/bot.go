package equationpoker

import (
	"math"
	"strconv"
	"strings"
	"time"

	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/equation"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker/action"
)

var _ playable.Tickable = (*Game)(nil)

// botSwap trades a random starting operator for the multiply card
func (g *Game) botSwap(p *Participant) {
	choices := p.swapChoices()
	if len(choices) == 0 {
		return
	}

	op := choices[g.rng.Intn(len(choices))]
	p.swapOperation(op)
	g.log(p.PlayerID, "swapped %s for multiply", op)
}

// Delay returns how long to wait before an automated player acts
func (g *Game) Delay() (time.Duration, bool) {
	if g.nextBot() == nil {
		return 0, false
	}

	return g.options.BotDelay, true
}

// Tick lets the next automated player act
func (g *Game) Tick() (bool, error) {
	p := g.nextBot()
	if p == nil {
		return false, nil
	}

	return true, g.Action(p.PlayerID, g.botAction(p))
}

// nextBot returns the automated player the game is waiting on, or nil
func (g *Game) nextBot() *Participant {
	if g.fatal != nil || g.pendingSwap() != nil {
		return nil
	}

	switch {
	case g.phase.IsBetting():
		if p := g.currentTurn(); p != nil && p.IsBot && p.isContestant() {
			return p
		}
	case g.phase == PhaseEquation:
		for _, p := range g.contestants() {
			if p.IsBot && !p.submitted {
				return p
			}
		}
	}

	return nil
}

func (g *Game) botAction(p *Participant) action.Action {
	if g.phase.IsBetting() {
		if g.currentBet-p.bet <= p.chips {
			return action.Call{}
		}

		return action.Fold{}
	}

	plan := planEquations(p.hand.NumberCards(), p.operations, p.squareRoots())
	if p.betType == action.BetTypeNone {
		return action.SelectBetType{BetType: plan.betType}
	}

	submit := action.SubmitEquation{}
	if p.betType.WantsSmall() {
		submit.Small = plan.small
	}

	if p.betType.WantsBig() {
		submit.Big = plan.big
	}

	return submit
}

// equationPlan is the best equation found for each target
type equationPlan struct {
	betType   action.BetType
	small     string
	smallDiff float64
	big       string
	bigDiff   float64
}

// planEquations searches every ordering of the numbers and operators,
// with or without square roots, for the equations closest to each target
func planEquations(numbers deck.Hand, ops []deck.Operation, squareRoots int) *equationPlan {
	values := make([]int, len(numbers))
	for i, c := range numbers {
		values[i] = c.Value
	}

	fallback := joinValues(values)
	plan := &equationPlan{
		small:     fallback,
		smallDiff: math.Inf(1),
		big:       fallback,
		bigDiff:   math.Inf(1),
	}

	if len(values) == 0 {
		plan.betType = action.Small
		return plan
	}

	binaryOps := make([]deck.Operation, 0, len(ops))
	for _, op := range ops {
		if op != deck.SquareRoot {
			binaryOps = append(binaryOps, op)
		}
	}

	if len(binaryOps) >= len(values)-1 {
		permute(values, func(ordered []int) {
			permute(binaryOps, func(orderedOps []deck.Operation) {
				for mask := 0; mask < 1<<len(ordered); mask++ {
					if bitCount(mask) > squareRoots {
						continue
					}

					expr := buildExpression(ordered, orderedOps, mask)
					value, err := equation.Evaluate(expr)
					if err != nil {
						continue
					}

					if diff := math.Abs(value - SmallTarget); diff < plan.smallDiff {
						plan.small, plan.smallDiff = expr, diff
					}

					if diff := math.Abs(value - BigTarget); diff < plan.bigDiff {
						plan.big, plan.bigDiff = expr, diff
					}
				}
			})
		})
	}

	switch {
	case plan.smallDiff <= tolerance && plan.bigDiff <= tolerance:
		plan.betType = action.Both
	case plan.bigDiff < plan.smallDiff:
		plan.betType = action.Big
	default:
		plan.betType = action.Small
	}

	return plan
}

// buildExpression writes numbers and operators alternately, a set bit in sqrtMask puts a square root before that number
func buildExpression(numbers []int, ops []deck.Operation, sqrtMask int) string {
	var sb strings.Builder
	for i, n := range numbers {
		if i > 0 {
			sb.WriteString(" ")
			sb.WriteString(ops[i-1].Symbol())
			sb.WriteString(" ")
		}

		if sqrtMask&(1<<i) != 0 {
			sb.WriteString("sqrt ")
		}

		sb.WriteString(strconv.Itoa(n))
	}

	return sb.String()
}

func joinValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	if len(parts) == 0 {
		return "0"
	}

	return strings.Join(parts, " + ")
}

func bitCount(n int) int {
	count := 0
	for ; n > 0; n >>= 1 {
		count += n & 1
	}

	return count
}

// permute calls fn with every ordering of values
func permute[T any](values []T, fn func([]T)) {
	work := append([]T{}, values...)
	var swap func(k int)
	swap = func(k int) {
		if k == len(work) {
			fn(work)
			return
		}

		for i := k; i < len(work); i++ {
			work[k], work[i] = work[i], work[k]
			swap(k + 1)
			work[k], work[i] = work[i], work[k]
		}
	}

	swap(0)
}

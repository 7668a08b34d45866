package equationpoker

import (
	"math"

	"equationpoker-server/pkg/equation"
	"equationpoker-server/pkg/playable/equationpoker/action"
)

// targets
const (
	SmallTarget = 1
	BigTarget   = 20
)

// results closer than tolerance are considered tied
const tolerance = 1e-9

// EquationResult is a player's submitted equations and what they evaluated to
// A nil result means the equation was not valid
type EquationResult struct {
	PlayerID      string         `json:"playerId"`
	BetType       action.BetType `json:"betType"`
	SmallEquation string         `json:"smallEquation,omitempty"`
	SmallResult   *float64       `json:"smallResult,omitempty"`
	SmallError    string         `json:"smallError,omitempty"`
	BigEquation   string         `json:"bigEquation,omitempty"`
	BigResult     *float64       `json:"bigResult,omitempty"`
	BigError      string         `json:"bigError,omitempty"`
	Payout        int            `json:"payout"`
}

// Resolution is the outcome of the equation phase
type Resolution struct {
	SmallWinner *Participant
	BigWinner   *Participant
	// Payouts sum to the pot
	Payouts map[string]int
	Results []*EquationResult
}

type candidate struct {
	participant *Participant
	diff        float64
}

// resolve evaluates every equation, picks a winner per target, and divides the pot
func resolve(contestants []*Participant, pot int) *Resolution {
	results := make([]*EquationResult, 0, len(contestants))
	smallCandidates := make([]candidate, 0)
	bigCandidates := make([]candidate, 0)

	for _, p := range contestants {
		if p.betType == action.BetTypeNone {
			continue
		}

		r := &EquationResult{
			PlayerID: p.PlayerID,
			BetType:  p.betType,
		}

		if p.betType.WantsSmall() {
			r.SmallEquation = p.smallEquation
			if value, err := evaluate(p.smallEquation, p.smallUsage); err != nil {
				r.SmallError = err.Error()
			} else {
				r.SmallResult = &value
				smallCandidates = append(smallCandidates, candidate{participant: p, diff: math.Abs(value - SmallTarget)})
			}
		}

		if p.betType.WantsBig() {
			r.BigEquation = p.bigEquation
			if value, err := evaluate(p.bigEquation, p.bigUsage); err != nil {
				r.BigError = err.Error()
			} else {
				r.BigResult = &value
				bigCandidates = append(bigCandidates, candidate{participant: p, diff: math.Abs(value - BigTarget)})
			}
		}

		results = append(results, r)
	}

	smallWinner := pickWinner(smallCandidates, winsSmallTieBreak)
	bigWinner := pickWinner(bigCandidates, winsBigTieBreak)
	payouts := distributePot(contestants, pot, smallWinner, bigWinner)

	for _, r := range results {
		r.Payout = payouts[r.PlayerID]
	}

	return &Resolution{
		SmallWinner: smallWinner,
		BigWinner:   bigWinner,
		Payouts:     payouts,
		Results:     results,
	}
}

// evaluate scores a submitted equation
// An equation that evaluates but broke the card usage rules still has no result.
func evaluate(expr string, usage error) (float64, error) {
	value, err := equation.Evaluate(expr)
	if err != nil {
		return 0, err
	}

	if usage != nil {
		return 0, usage
	}

	return value, nil
}

// pickWinner returns the closest candidate, using beats to break ties
func pickWinner(candidates []candidate, beats func(a, b *Participant) bool) *Participant {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0].diff
	for _, c := range candidates[1:] {
		if c.diff < best {
			best = c.diff
		}
	}

	var winner *Participant
	for _, c := range candidates {
		if c.diff-best > tolerance {
			continue
		}

		if winner == nil || beats(c.participant, winner) {
			winner = c.participant
		}
	}

	return winner
}

// winsSmallTieBreak returns true if a's lowest card has a lower color than b's
// Equal colors fall back to the lower value.
func winsSmallTieBreak(a, b *Participant) bool {
	la, lb := a.hand.Lowest(), b.hand.Lowest()
	if la == nil || lb == nil {
		return la != nil
	}

	if la.Color.Rank() != lb.Color.Rank() {
		return la.Color.Rank() < lb.Color.Rank()
	}

	return la.Value < lb.Value
}

// winsBigTieBreak returns true if a's highest card has a higher color than b's
// Equal colors fall back to the higher value.
func winsBigTieBreak(a, b *Participant) bool {
	ha, hb := a.hand.Highest(), b.hand.Highest()
	if ha == nil || hb == nil {
		return ha != nil
	}

	if ha.Color.Rank() != hb.Color.Rank() {
		return ha.Color.Rank() > hb.Color.Rank()
	}

	return ha.Value > hb.Value
}

// distributePot divides the pot between the winners
func distributePot(contestants []*Participant, pot int, smallWinner, bigWinner *Participant) map[string]int {
	payouts := make(map[string]int)
	if pot == 0 {
		return payouts
	}

	switch {
	case smallWinner == nil && bigWinner == nil:
		// nobody produced a valid equation, everyone gets their share back
		return splitEvenly(pot, contestants)
	case smallWinner == nil:
		payouts[bigWinner.PlayerID] = pot
	case bigWinner == nil:
		payouts[smallWinner.PlayerID] = pot
	case smallWinner == bigWinner:
		payouts[smallWinner.PlayerID] = pot
	default:
		// a player who bet both must win both, otherwise their win goes to the other winner
		smallForfeits := smallWinner.betType == action.Both
		bigForfeits := bigWinner.betType == action.Both

		switch {
		case smallForfeits && !bigForfeits:
			payouts[bigWinner.PlayerID] = pot
		case bigForfeits && !smallForfeits:
			payouts[smallWinner.PlayerID] = pot
		default:
			payouts[smallWinner.PlayerID] += pot / 2
			payouts[bigWinner.PlayerID] += pot - pot/2
		}
	}

	return payouts
}

// splitEvenly divides amount between the players, any remainder goes to the earliest seats
func splitEvenly(amount int, players []*Participant) map[string]int {
	shares := make(map[string]int)
	n := len(players)
	if n == 0 || amount == 0 {
		return shares
	}

	for i, p := range players {
		shares[p.PlayerID] = amount / n
		if i < amount%n {
			shares[p.PlayerID]++
		}
	}

	return shares
}

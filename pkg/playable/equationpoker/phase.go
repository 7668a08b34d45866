package equationpoker

import (
	"encoding/json"
	"fmt"
)

// Phase is a step of a round
// Phases only move forward within a round, a new round starts again at PhasePreflop
type Phase int

// phase constants, in order
const (
	PhaseWaiting Phase = iota
	PhasePreflop
	PhaseDealing1
	PhaseBetting1
	PhaseDealing2
	PhaseBetting2
	PhaseEquation
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreflop:
		return "preflop"
	case PhaseDealing1:
		return "dealing1"
	case PhaseBetting1:
		return "betting1"
	case PhaseDealing2:
		return "dealing2"
	case PhaseBetting2:
		return "betting2"
	case PhaseEquation:
		return "equation"
	case PhaseEnded:
		return "ended"
	}

	return ""
}

// PhaseFromString returns the phase for its name
func PhaseFromString(s string) (Phase, error) {
	for p := PhaseWaiting; p <= PhaseEnded; p++ {
		if p.String() == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown phase: %s", s)
}

// IsBetting returns true for the phases where players take turns betting
func (p Phase) IsBetting() bool {
	return p == PhasePreflop || p == PhaseBetting1 || p == PhaseBetting2
}

// IsDealing returns true for the phases where cards are dealt
func (p Phase) IsDealing() bool {
	return p == PhaseDealing1 || p == PhaseDealing2
}

// InRound returns true if a round is being played
func (p Phase) InRound() bool {
	return p > PhaseWaiting && p < PhaseEnded
}

// numberCardTarget is how many number cards every contestant holds when the dealing phase is over
func (p Phase) numberCardTarget() int {
	switch p {
	case PhaseDealing1:
		return 2
	case PhaseDealing2:
		return 4
	}

	panic(fmt.Sprintf("no deal in phase %s", p))
}

// MarshalJSON encodes the phase by name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase name
func (p *Phase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	phase, err := PhaseFromString(s)
	if err != nil {
		return err
	}

	*p = phase
	return nil
}

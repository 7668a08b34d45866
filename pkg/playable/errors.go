package playable

import "errors"

// ErrNotFound is returned when a session or player id does not resolve
var ErrNotFound = errors.New("not found")

// ErrInvalidAction is returned when an action is not legal for the phase, the actor, or the turn
var ErrInvalidAction = errors.New("invalid action")

// ErrInsufficientChips is returned when a bet or call exceeds the available or permitted balance
var ErrInsufficientChips = errors.New("insufficient chips")

// ErrDeckExhausted is returned when the deck runs out during a deal
// The deck is large enough for every supported table, so this indicates a defect
var ErrDeckExhausted = errors.New("deck exhausted")

package playable

import "time"

// Tickable is an interface for games that advance on their own, e.g. automated players
type Tickable interface {
	// Delay is how long to wait before the next tick
	// If ok is false, no tick is needed until the game state changes again
	Delay() (delay time.Duration, ok bool)

	// Tick advances the game
	// Return true if the dealer should send updated state
	Tick() (bool, error)
}

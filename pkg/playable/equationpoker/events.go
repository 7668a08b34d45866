package equationpoker

import (
	"equationpoker-server/pkg/deck"
)

// EventKind tags an outbound event
type EventKind int

// event kinds
const (
	// EventSnapshotUpdated is broadcast to everyone after every accepted mutation
	EventSnapshotUpdated EventKind = iota
	// EventSwapRequired is sent only to the player who drew a multiply card
	EventSwapRequired
	// EventActionRejected is sent only to the player whose action failed
	EventActionRejected
)

func (e EventKind) String() string {
	switch e {
	case EventSnapshotUpdated:
		return "snapshotUpdated"
	case EventSwapRequired:
		return "swapRequired"
	case EventActionRejected:
		return "actionRejected"
	}

	return ""
}

// SwapRequest asks a player to trade one of their starting operators for a multiply card
type SwapRequest struct {
	PlayerID string           `json:"playerId"`
	Choices  []deck.Operation `json:"choices"`
	Card     *deck.Card       `json:"card"`
}

// Event is a message the game wants delivered
// Recipient is empty for broadcasts
type Event struct {
	Kind      EventKind
	Recipient string
	State     *GameState
	Swap      *SwapRequest
	Err       error
}

// EventSink receives the events of a game
// Events are emitted in the order the mutations were applied
type EventSink interface {
	Emit(event Event)
}

// EventSinkFunc adapts a function to an EventSink
type EventSinkFunc func(event Event)

// Emit calls f(event)
func (f EventSinkFunc) Emit(event Event) {
	f(event)
}

type discardSink struct{}

func (discardSink) Emit(Event) {}

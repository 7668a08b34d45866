package room

import (
	"equationpoker-server/pkg/playable/equationpoker"
)

// response keys
const (
	keyGame         = "game"
	keySwapRequired = "swapRequired"
	keyLogs         = "logs"
)

// SessionSummary describes a session in a listing
type SessionSummary struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Phase   equationpoker.Phase `json:"phase"`
	Round   int                 `json:"round"`
	Players int                 `json:"players"`
}

// Package ledger keeps a history of finished rounds
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyRecorded is returned when a session's round was recorded before
var ErrAlreadyRecorded = errors.New("round already recorded")

// Player is a player's balance at the end of a round
type Player struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	IsBot    bool   `json:"isBot"`
	Chips    int    `json:"chips"`
}

// Round is a finished round
type Round struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"sessionId"`
	Number       int             `json:"round"`
	SmallWinners []string        `json:"smallWinners"`
	BigWinners   []string        `json:"bigWinners"`
	Players      []*Player       `json:"players"`
	Results      json.RawMessage `json:"results"`
	Error        string          `json:"error,omitempty"`
	Created      time.Time       `json:"created"`
}

// Recorder stores finished rounds
type Recorder interface {
	RecordRound(ctx context.Context, round *Round) error
	RoundsForSession(ctx context.Context, sessionID string) ([]*Round, error)
}

// MemoryRecorder keeps rounds in memory
// It is used when no database is configured
type MemoryRecorder struct {
	lock   sync.RWMutex
	rounds map[string][]*Round
}

// NewMemoryRecorder returns an empty MemoryRecorder
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		rounds: make(map[string][]*Round),
	}
}

// RecordRound stores the round
func (m *MemoryRecorder) RecordRound(_ context.Context, round *Round) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, r := range m.rounds[round.SessionID] {
		if r.Number == round.Number {
			return ErrAlreadyRecorded
		}
	}

	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	if round.Created.IsZero() {
		round.Created = time.Now().UTC()
	}

	m.rounds[round.SessionID] = append(m.rounds[round.SessionID], round)
	return nil
}

// RoundsForSession returns the recorded rounds of a session, oldest first
func (m *MemoryRecorder) RoundsForSession(_ context.Context, sessionID string) ([]*Round, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	rounds := make([]*Round, len(m.rounds[sessionID]))
	copy(rounds, m.rounds[sessionID])
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].Number < rounds[j].Number
	})

	return rounds, nil
}

package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/stretchr/testify/assert"
)

func newTestPitBoss(t *testing.T) *PitBoss {
	t.Helper()

	p := NewPitBoss(NewMemoryRepository(rng.NewSeeded(2)), testOptions())
	p.StartShift()
	t.Cleanup(p.EndShift)
	return p
}

func TestPitBoss_Session(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)

	id, err := p.CreateSession()
	a.NoError(err)
	a.Len(id, 6)

	alice, err := p.JoinSession(id, "alice", "")
	a.NoError(err)
	bob, err := p.JoinSession(id, "bob", "")
	a.NoError(err)

	again, err := p.JoinSession(id, "alice", alice)
	a.NoError(err)
	a.Equal(alice, again)

	a.NoError(p.ValidatePlayer(id, bob))
	a.True(errors.Is(p.ValidatePlayer(id, "nobody"), playable.ErrNotFound))

	state, err := p.GetSession(id)
	a.NoError(err)
	a.Equal(equationpoker.PhaseWaiting, state.Phase)

	state, err = p.StartSession(id)
	a.NoError(err)
	a.Equal(equationpoker.PhasePreflop, state.Phase)

	state, err = p.PerformAction(id, alice, action.Bet{Amount: 50})
	a.NoError(err)
	a.Equal(50, state.Pot)

	_, err = p.PerformAction(id, alice, action.Bet{Amount: 5000})
	a.True(errors.Is(err, playable.ErrInvalidAction))

	a.NoError(p.NotifyDisconnect(id, bob))
	state, err = p.GetSession(id)
	a.NoError(err)
	a.Equal(equationpoker.PhaseEnded, state.Phase)
	a.Equal([]string{alice}, state.Winners.Small)

	summaries, err := p.ListSessions()
	a.NoError(err)
	if a.Len(summaries, 1) {
		a.Equal(id, summaries[0].ID)
		a.Equal(2, summaries[0].Players)
	}

	a.Eventually(func() bool {
		rounds, err := p.Rounds(context.Background(), id)
		return err == nil && len(rounds) == 1
	}, time.Second, time.Millisecond*10)
}

func TestPitBoss_unknownSession(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)

	_, err := p.GetSession("000000")
	a.True(errors.Is(err, ErrSessionNotFound))

	_, err = p.JoinSession("000000", "alice", "")
	a.True(errors.Is(err, ErrSessionNotFound))

	_, err = p.StartSession("000000")
	a.True(errors.Is(err, ErrSessionNotFound))

	_, err = p.PerformAction("000000", "a", action.Call{})
	a.True(errors.Is(err, ErrSessionNotFound))

	a.True(errors.Is(p.NotifyDisconnect("000000", "a"), ErrSessionNotFound))
	a.True(errors.Is(p.ValidatePlayer("000000", "a"), ErrSessionNotFound))

	_, err = p.Rounds(context.Background(), "000000")
	a.True(errors.Is(err, ErrSessionNotFound))
}

func TestPitBoss_ClientConnected(t *testing.T) {
	a := assert.New(t)
	p := newTestPitBoss(t)

	id, _ := p.CreateSession()
	alice, _ := p.JoinSession(id, "alice", "")

	c := NewClient(nil, id, alice)
	p.ClientConnected(c)
	waitForResponse(t, c, keyGame)

	p.ClientDisconnected(c)
	a.Eventually(func() bool {
		state, _ := p.GetSession(id)
		_, active, _ := findPlayer(state, alice)
		return !active
	}, time.Second, time.Millisecond*10)

	lost := NewClient(nil, "000000", alice)
	p.ClientConnected(lost)
	select {
	case reason := <-lost.Close:
		a.Equal("session not found", reason)
	case <-time.After(time.Second):
		a.Fail("expected the client to be closed")
	}
}

package equationpoker

import (
	"testing"
	"time"

	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Emit(event Event) {
	r.events = append(r.events, event)
}

func (r *recordingSink) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}

	return n
}

func (r *recordingSink) last(kind EventKind) *Event {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return &r.events[i]
		}
	}

	return nil
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.BotDelay = time.Millisecond
	return opts
}

// newTestGame returns a game with the named players joined, in seat order
func newTestGame(t *testing.T, names ...string) (*Game, *recordingSink, []string) {
	t.Helper()

	logger, _ := test.NewNullLogger()
	sink := &recordingSink{}
	game, err := NewGame("123456", logger, rng.NewSeeded(1), sink, testOptions())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	ids := make([]string, len(names))
	for i, name := range names {
		id, err := game.Join(name, "")
		if !assert.NoError(t, err) {
			t.FailNow()
		}

		ids[i] = id
	}

	return game, sink, ids
}

// startRigged starts a round and replaces the deck with the given cards
func startRigged(t *testing.T, game *Game, cards string) {
	t.Helper()

	if !assert.NoError(t, game.Start()) {
		t.FailNow()
	}

	game.deck = &deck.Deck{Cards: deck.CardsFromString(cards)}
}

func createExecFunctions(t *testing.T, game *Game) (func(playerID string, a action.Action), func(playerID string, a action.Action, msg string)) {
	execOK := func(playerID string, a action.Action) {
		t.Helper()
		assert.NoError(t, game.Action(playerID, a))
	}

	execError := func(playerID string, a action.Action, msg string) {
		t.Helper()
		assert.EqualError(t, game.Action(playerID, a), msg)
	}

	return execOK, execError
}

func handEqual(t *testing.T, game *Game, playerID string, cards string) {
	t.Helper()

	p, ok := game.Participant(playerID)
	if !assert.True(t, ok, "expected player %s to exist", playerID) {
		return
	}

	assert.Equal(t, cards, p.hand.String(), "unexpected hand for %s", p.Name)
}

func chipsEqual(t *testing.T, game *Game, chips map[string]int) {
	t.Helper()

	for id, expected := range chips {
		p, _ := game.Participant(id)
		assert.Equal(t, expected, p.chips, "expected %s to have %d chips", p.Name, expected)
	}
}

package room

import (
	"testing"
	"time"

	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func testOptions() Options {
	logger, _ := test.NewNullLogger()

	opts := DefaultOptions()
	opts.Game.BotDelay = time.Millisecond
	opts.Logger = logger
	opts.Generator = rng.NewSeeded(1)
	return opts
}

func newTestDealer(t *testing.T) *Dealer {
	t.Helper()

	d, err := NewDealer("123456", testOptions())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	d.StartShift()
	t.Cleanup(d.EndShift)
	return d
}

// waitForResponse reads from the client until a response with the key arrives
func waitForResponse(t *testing.T, c *Client, key string) *playable.Response {
	t.Helper()

	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-c.SendChan():
			res, ok := msg.(*playable.Response)
			if ok && res.Key == key {
				return res
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", key)
			return nil
		}
	}
}

func findPlayer(state *equationpoker.GameState, playerID string) (name string, active bool, chips int) {
	for _, p := range state.Players {
		if p.PlayerID == playerID {
			return p.Name, p.Active, p.Chips
		}
	}

	return "", false, 0
}

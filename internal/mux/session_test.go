package mux

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"equationpoker-server/pkg/ledger"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker"
	"equationpoker-server/pkg/room"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func createSession(t *testing.T, ts *httptest.Server, names ...string) (string, []string) {
	t.Helper()

	var session postSessionResponse
	assertPost(t, ts, "/session", nil, &session, 201)

	ids := make([]string, len(names))
	for i, name := range names {
		var player postSessionIDPlayerResponse
		assertPost(t, ts, "/session/"+session.ID+"/player", postSessionIDPlayerPayload{Name: name}, &player, 201)
		ids[i] = player.PlayerID
	}

	return session.ID, ids
}

func Test_getSession(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	id1, _ := createSession(t, ts, "alice")
	id2, _ := createSession(t, ts)

	var sessions []*room.SessionSummary
	assertGet(t, ts, "/session", &sessions, 200)
	if assert.Len(t, sessions, 2) {
		ids := []string{sessions[0].ID, sessions[1].ID}
		assert.ElementsMatch(t, []string{id1, id2}, ids)
	}

	assertGet(t, ts, "/session?start=1&rows=1", &sessions, 200)
	assert.Len(t, sessions, 1)

	var errObj errorResponse
	assertGet(t, ts, "/session?start=-1", &errObj, 400)
	assert.Equal(t, "start cannot be less than zero", errObj.Message)
}

func Test_getSessionID(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	id, ids := createSession(t, ts, "alice")

	var state equationpoker.GameState
	assertGet(t, ts, "/session/"+id, &state, 200)
	assert.Equal(t, id, state.ID)
	assert.Equal(t, equationpoker.PhaseWaiting, state.Phase)
	if assert.Len(t, state.Players, 1) {
		assert.Equal(t, ids[0], state.Players[0].PlayerID)
		assert.Equal(t, 1000, state.Players[0].Chips)
	}

	var errObj errorResponse
	assertGet(t, ts, "/session/000000", &errObj, 404)
	assert.Equal(t, "not found: session 000000", errObj.Message)

	assertGet(t, ts, "/session/abc", nil, 404)
}

func Test_postSessionIDPlayer(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	id, ids := createSession(t, ts, "alice")

	var player postSessionIDPlayerResponse
	assertPost(t, ts, "/session/"+id+"/player", postSessionIDPlayerPayload{Name: "alice", PlayerID: ids[0]}, &player, 201)
	assert.Equal(t, ids[0], player.PlayerID)

	var errObj errorResponse
	assertPost(t, ts, "/session/"+id+"/player", postSessionIDPlayerPayload{Name: ""}, &errObj, 400)
	assert.Equal(t, "invalid action: a name is required", errObj.Message)

	assertPost(t, ts, "/session/"+id+"/player", postSessionIDPlayerPayload{Name: strings.Repeat("x", 41)}, &errObj, 400)
	assert.Equal(t, "name must be 40 characters or less", errObj.Message)

	assertPost(t, ts, "/session/"+id+"/player", "{", &errObj, 400)
}

func Test_sessionRound(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	id, ids := createSession(t, ts, "alice", "bob")
	alice, bob := ids[0], ids[1]

	var state equationpoker.GameState
	assertPost(t, ts, "/session/"+id+"/start", nil, &state, 200)
	assert.Equal(t, equationpoker.PhasePreflop, state.Phase)
	assert.Equal(t, alice, state.CurrentPlayer)

	var errObj errorResponse
	assertPost(t, ts, "/session/"+id+"/start", nil, &errObj, 400)
	assert.Equal(t, "invalid action: a round is already in progress", errObj.Message)

	assertPost(t, ts, "/session/"+id+"/action", postSessionIDActionPayload{PlayerID: bob, Action: "call"}, &errObj, 400)
	assert.Equal(t, "invalid action: it is not your turn", errObj.Message)

	assertPost(t, ts, "/session/"+id+"/action", postSessionIDActionPayload{PlayerID: "nobody", Action: "call"}, &errObj, 404)

	assertPost(t, ts, "/session/"+id+"/action", postSessionIDActionPayload{PlayerID: alice, Action: "dance"}, &errObj, 400)
	assert.Equal(t, "invalid action: unknown action: dance", errObj.Message)

	assertPost(t, ts, "/session/"+id+"/action", postSessionIDActionPayload{
		PlayerID:       alice,
		Action:         "bet",
		AdditionalData: playable.AdditionalData{"amount": 50},
	}, &state, 200)
	assert.Equal(t, 50, state.Pot)
	assert.Equal(t, bob, state.CurrentPlayer)

	assertPost(t, ts, "/session/"+id+"/action", postSessionIDActionPayload{PlayerID: bob, Action: "fold"}, &state, 200)
	assert.Equal(t, equationpoker.PhaseEnded, state.Phase)
	assert.Equal(t, []string{alice}, state.Winners.Small)
	assert.Equal(t, []string{alice}, state.Winners.Big)

	var rounds []*ledger.Round
	assert.Eventually(t, func() bool {
		assertGet(t, ts, "/session/"+id+"/rounds", &rounds, 200)
		return len(rounds) == 1
	}, time.Second, time.Millisecond*10)

	assert.Equal(t, 1, rounds[0].Number)
	assert.Equal(t, []string{alice}, rounds[0].BigWinners)
}

func Test_getSessionIDWS(t *testing.T) {
	ts := httptest.NewServer(newTestMux(t, ""))
	defer ts.Close()

	id, ids := createSession(t, ts, "alice")

	var errObj errorResponse
	assertGet(t, ts, "/session/"+id+"/ws", &errObj, 400)
	assert.Equal(t, "playerId is required", errObj.Message)

	assertGet(t, ts, "/session/"+id+"/ws?playerId=nobody", &errObj, 404)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/session/" + id + "/ws?playerId=" + ids[0]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if !assert.NoError(t, err) {
		return
	}
	defer conn.Close()

	readUntil := func(key string) playable.Response {
		t.Helper()

		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		for {
			var res playable.Response
			if err := conn.ReadJSON(&res); err != nil {
				t.Fatal(err)
			}

			if res.Key == key {
				return res
			}
		}
	}

	res := readUntil("game")
	assert.NotNil(t, res.Data)

	assert.NoError(t, conn.WriteJSON(playable.PayloadIn{Action: "dance", Context: "abc"}))
	res = readUntil("error")
	assert.Equal(t, "invalid action: unknown action: dance", res.Value)
	assert.Equal(t, "abc", res.Context)
}

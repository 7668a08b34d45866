package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/ledger"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/sirupsen/logrus"
)

// recordTimeout bounds how long recording a finished round may take
const recordTimeout = time.Second * 5

// errDealerClosed is returned for calls made after the dealer ended its shift
var errDealerClosed = fmt.Errorf("%w: the session is closed", playable.ErrNotFound)

// errRunLoopPanic is returned to a caller whose call panicked in the run loop
var errRunLoopPanic = errors.New("the session could not handle the request")

// Dealer owns one session and serializes everything that happens to it
type Dealer struct {
	id          string
	game        *equationpoker.Game
	logger      logrus.FieldLogger
	recorder    ledger.Recorder
	swapTimeout time.Duration

	clients map[*Client]bool
	lock    sync.RWMutex

	// the fields below must only be accessed from the run loop
	logMessages   []*playable.LogMessage
	generation    uint64
	recordedRound int
	msgContext    string
	// directReply is set while the caller receives the game's error as a return value
	directReply bool

	execInRunLoop chan func()
	close         chan bool
	closeOnce     sync.Once
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(id string, opts Options) (*Dealer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gen := opts.Generator
	if gen == nil {
		gen = rng.Crypto{}
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = ledger.NewMemoryRecorder()
	}

	d := &Dealer{
		id:            id,
		logger:        logger.WithField("session", id),
		recorder:      recorder,
		swapTimeout:   opts.SwapTimeout,
		clients:       make(map[*Client]bool),
		logMessages:   make([]*playable.LogMessage, 0),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}

	game, err := equationpoker.NewGame(id, logger, gen, d, opts.Game)
	if err != nil {
		return nil, err
	}

	d.game = game
	return d, nil
}

// ID returns the session id
func (d *Dealer) ID() string {
	return d.id
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			d.run(fn)
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// run calls fn, keeping the run loop alive if it panics
func (d *Dealer) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithField("panic", r).Error("recovered from a panic in the run loop")
		}
	}()

	fn()
}

// enqueue schedules fn on the run loop without waiting for it
func (d *Dealer) enqueue(fn func()) {
	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
	}
}

// exec runs fn on the run loop and waits for it to finish
func (d *Dealer) exec(fn func() error) error {
	done := make(chan error, 1)
	select {
	case d.execInRunLoop <- func() {
		err := errRunLoopPanic
		defer func() { done <- err }()
		err = fn()
	}:
	case <-d.close:
		return errDealerClosed
	}

	select {
	case err := <-done:
		return err
	case <-d.close:
		return errDealerClosed
	}
}

// applied returns true if the game accepted the mutation that returned err
func applied(err error) bool {
	return err == nil || errors.Is(err, playable.ErrDeckExhausted)
}

// Join seats a player or reconnects a known one
func (d *Dealer) Join(name, existingID string) (string, error) {
	var playerID string
	err := d.exec(func() error {
		id, err := d.game.Join(name, existingID)
		if err != nil {
			return err
		}

		playerID = id
		d.afterMutation()
		return nil
	})

	return playerID, err
}

// Start starts a new round
func (d *Dealer) Start() (*equationpoker.GameState, error) {
	var state *equationpoker.GameState
	err := d.exec(func() error {
		err := d.game.Start()
		if applied(err) {
			d.afterMutation()
			state = d.game.GetState()
		}

		return err
	})

	return state, err
}

// Action performs an action on behalf of a player
func (d *Dealer) Action(playerID string, a action.Action) (*equationpoker.GameState, error) {
	var state *equationpoker.GameState
	err := d.exec(func() error {
		d.directReply = true
		defer func() {
			d.directReply = false
		}()

		err := d.game.Action(playerID, a)
		if applied(err) {
			d.afterMutation()
			state = d.game.GetState()
		}

		return err
	})

	return state, err
}

// Disconnect marks a player as gone
func (d *Dealer) Disconnect(playerID string) error {
	return d.exec(func() error {
		err := d.game.Disconnect(playerID)
		if applied(err) {
			d.afterMutation()
		}

		return err
	})
}

// State returns a snapshot of the game
func (d *Dealer) State() (*equationpoker.GameState, error) {
	var state *equationpoker.GameState
	err := d.exec(func() error {
		state = d.game.GetState()
		return nil
	})

	return state, err
}

// HasPlayer returns an error if the player is not part of the session
func (d *Dealer) HasPlayer(playerID string) error {
	return d.exec(func() error {
		if _, ok := d.game.Participant(playerID); !ok {
			return fmt.Errorf("%w: player %s", playable.ErrNotFound, playerID)
		}

		return nil
	})
}

// Summary describes the session for a listing
func (d *Dealer) Summary() (*SessionSummary, error) {
	var summary *SessionSummary
	err := d.exec(func() error {
		state := d.game.GetState()
		summary = &SessionSummary{
			ID:      d.id,
			Name:    state.Name,
			Phase:   state.Phase,
			Round:   state.Round,
			Players: len(state.Players),
		}

		return nil
	})

	return summary, err
}

// Rounds returns the recorded history of the session
func (d *Dealer) Rounds(ctx context.Context) ([]*ledger.Round, error) {
	return d.recorder.RoundsForSession(ctx, d.id)
}

// Emit delivers a game event to the connected clients
// The game only emits from within the run loop
func (d *Dealer) Emit(event equationpoker.Event) {
	switch event.Kind {
	case equationpoker.EventSnapshotUpdated:
		d.broadcast(&playable.Response{
			Key:  keyGame,
			Data: event.State,
		})
	case equationpoker.EventSwapRequired:
		d.sendTo(event.Recipient, &playable.Response{
			Key:     keySwapRequired,
			Data:    event.Swap,
			Context: d.msgContext,
		})
	case equationpoker.EventActionRejected:
		if d.directReply {
			return
		}

		d.sendTo(event.Recipient, playable.ErrorResponse(d.msgContext, event.Err))
	}
}

func (d *Dealer) broadcast(msg interface{}) {
	for _, client := range d.Clients() {
		if !client.Send(msg) {
			d.logger.WithField("client", client.String()).Warn("client is not keeping up, dropping message")
		}
	}
}

func (d *Dealer) sendTo(playerID string, msg interface{}) {
	for _, client := range d.Clients() {
		if client.playerID != playerID {
			continue
		}

		if !client.Send(msg) {
			d.logger.WithField("client", client.String()).Warn("client is not keeping up, dropping message")
		}
	}
}

// afterMutation runs after every change the game accepted
// Note: this must only be called from within the run loop
func (d *Dealer) afterMutation() {
	d.generation++
	d.flushLogs()
	d.recordRound()
	d.scheduleBot(d.generation)
	d.scheduleSwapTimeout(d.generation)
}

// scheduleBot lets an automated player act after the configured delay
// The tick is dropped if anything else changed the game in the meantime
func (d *Dealer) scheduleBot(generation uint64) {
	delay, ok := d.game.Delay()
	if !ok {
		return
	}

	time.AfterFunc(delay, func() {
		d.enqueue(func() {
			if generation != d.generation {
				return
			}

			acted, err := d.game.Tick()
			if !acted {
				return
			}

			if !applied(err) {
				d.logger.WithError(err).Error("automated player could not act")
				return
			}

			d.afterMutation()
		})
	})
}

// scheduleSwapTimeout declines a pending multiply card once the swap timeout passes
func (d *Dealer) scheduleSwapTimeout(generation uint64) {
	if d.swapTimeout <= 0 {
		return
	}

	playerID, ok := d.game.PendingSwapPlayer()
	if !ok {
		return
	}

	time.AfterFunc(d.swapTimeout, func() {
		d.enqueue(func() {
			if generation != d.generation {
				return
			}

			d.logger.WithField("playerId", playerID).Info("swap decision timed out")
			declined, err := d.game.DeclinePendingSwap()
			if declined && applied(err) {
				d.afterMutation()
			}
		})
	})
}

// recordRound stores a round once it has ended
func (d *Dealer) recordRound() {
	if d.game.Phase() != equationpoker.PhaseEnded || d.game.Round() <= d.recordedRound {
		return
	}

	d.recordedRound = d.game.Round()
	state := d.game.GetState()

	results, err := json.Marshal(state.EquationResults)
	if err != nil {
		d.logger.WithError(err).Error("could not encode equation results")
		return
	}

	round := &ledger.Round{
		SessionID:    d.id,
		Number:       state.Round,
		SmallWinners: state.Winners.Small,
		BigWinners:   state.Winners.Big,
		Players:      make([]*ledger.Player, 0, len(state.Players)),
		Results:      results,
		Error:        state.Error,
	}

	for _, p := range state.Players {
		if p.Spectator {
			continue
		}

		round.Players = append(round.Players, &ledger.Player{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			IsBot:    p.IsBot,
			Chips:    p.Chips,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := d.recorder.RecordRound(ctx, round); err != nil {
			d.logger.WithError(err).WithField("round", round.Number).Error("could not record round")
		}
	}()
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	client.setDealer(d)
	d.lock.Lock()
	d.clients[client] = true
	d.lock.Unlock()

	d.enqueue(func() {
		client.Send(&playable.Response{
			Key:  keyGame,
			Data: d.game.GetState(),
		})
		client.Send(d.logResponse())
	})
}

// RemoveClient removes a client
// When the player has no other connection left they are disconnected from the game
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) {
	d.lock.Lock()
	delete(d.clients, client)
	stillConnected := false
	for c := range d.clients {
		if c.playerID == client.playerID {
			stillConnected = true
			break
		}
	}
	d.lock.Unlock()

	if stillConnected {
		return
	}

	d.enqueue(func() {
		err := d.game.Disconnect(client.playerID)
		if applied(err) {
			d.afterMutation()
			return
		}

		d.logger.WithError(err).WithField("client", client.String()).Warn("could not disconnect player")
	})
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	a, err := action.FromPayload(msg)
	if err != nil {
		c.Send(playable.ErrorResponse(msg.Context, err))
		return
	}

	d.enqueue(func() {
		d.msgContext = msg.Context
		defer func() {
			d.msgContext = ""
		}()

		err := d.game.Action(c.playerID, a)
		if !applied(err) {
			// the game already sent the error to the player
			return
		}

		d.afterMutation()
		if err == nil {
			c.Send(playable.OK(msg.Context))
		}
	})
}

package room

import (
	"context"
	"time"

	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/ledger"
	"equationpoker-server/pkg/playable/equationpoker"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/sirupsen/logrus"
)

// Options configures every session created by the pit boss
type Options struct {
	Game equationpoker.Options

	// SwapTimeout declines a pending multiply card after this long, zero waits forever
	SwapTimeout time.Duration

	Recorder  ledger.Recorder
	Logger    logrus.FieldLogger
	Generator rng.Generator
}

// DefaultOptions returns options suitable for a single server
func DefaultOptions() Options {
	return Options{
		Game:      equationpoker.DefaultOptions(),
		Recorder:  ledger.NewMemoryRecorder(),
		Logger:    logrus.StandardLogger(),
		Generator: rng.Crypto{},
	}
}

// PitBoss is responsible for dispatching players to sessions
type PitBoss struct {
	repo       Repository
	options    Options
	connect    chan *Client
	disconnect chan *Client
	close      chan bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(repo Repository, opts Options) *PitBoss {
	if opts.Generator == nil {
		opts.Generator = rng.Crypto{}
	}

	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	if opts.Recorder == nil {
		opts.Recorder = ledger.NewMemoryRecorder()
	}

	return &PitBoss{
		repo:       repo,
		options:    opts,
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		close:      make(chan bool),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every dealer
func (p *PitBoss) EndShift() {
	close(p.close)
	for _, d := range p.repo.List() {
		d.EndShift()
	}
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			dealer, err := p.repo.Get(client.sessionID)
			if err != nil {
				logrus.WithError(err).WithField("player", client.String()).Warn("could not attach client")
				client.closeWithReason("session not found")
				continue
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			if d := client.getDealer(); d != nil {
				d.RemoveClient(client)
			}
		case <-p.close:
			return
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}

// CreateSession creates a new session and returns its id
func (p *PitBoss) CreateSession() (string, error) {
	d, err := p.repo.Create(func(id string) (*Dealer, error) {
		d, err := NewDealer(id, p.options)
		if err != nil {
			return nil, err
		}

		d.StartShift()
		return d, nil
	})
	if err != nil {
		return "", err
	}

	p.options.Logger.WithField("session", d.ID()).Info("created session")
	return d.ID(), nil
}

// GetSession returns the state of the session
func (p *PitBoss) GetSession(id string) (*equationpoker.GameState, error) {
	d, err := p.repo.Get(id)
	if err != nil {
		return nil, err
	}

	return d.State()
}

// JoinSession seats a player, or reconnects them if existingID is known
func (p *PitBoss) JoinSession(id, name, existingID string) (string, error) {
	d, err := p.repo.Get(id)
	if err != nil {
		return "", err
	}

	return d.Join(name, existingID)
}

// StartSession starts the next round of the session
func (p *PitBoss) StartSession(id string) (*equationpoker.GameState, error) {
	d, err := p.repo.Get(id)
	if err != nil {
		return nil, err
	}

	return d.Start()
}

// PerformAction performs an action on behalf of a player
func (p *PitBoss) PerformAction(id, playerID string, a action.Action) (*equationpoker.GameState, error) {
	d, err := p.repo.Get(id)
	if err != nil {
		return nil, err
	}

	return d.Action(playerID, a)
}

// NotifyDisconnect marks a player as gone
func (p *PitBoss) NotifyDisconnect(id, playerID string) error {
	d, err := p.repo.Get(id)
	if err != nil {
		return err
	}

	return d.Disconnect(playerID)
}

// ValidatePlayer returns an error unless the player belongs to the session
func (p *PitBoss) ValidatePlayer(id, playerID string) error {
	d, err := p.repo.Get(id)
	if err != nil {
		return err
	}

	return d.HasPlayer(playerID)
}

// ListSessions returns a summary of every session
func (p *PitBoss) ListSessions() ([]*SessionSummary, error) {
	dealers := p.repo.List()
	summaries := make([]*SessionSummary, 0, len(dealers))
	for _, d := range dealers {
		summary, err := d.Summary()
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// Rounds returns the recorded rounds of the session
func (p *PitBoss) Rounds(ctx context.Context, id string) ([]*ledger.Round, error) {
	d, err := p.repo.Get(id)
	if err != nil {
		return nil, err
	}

	return d.Rounds(ctx)
}

package equationpoker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"equationpoker-server/internal/rng"
	"equationpoker-server/internal/util"
	"equationpoker-server/pkg/deck"
	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker/action"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxSeats is the most players the deck can always deal four number cards to
const maxSeats = 11

// Options configures a game of equation poker
type Options struct {
	StartingChips int
	MaxPlayers    int
	BotDelay      time.Duration
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		StartingChips: 1000,
		MaxPlayers:    8,
		BotDelay:      time.Second,
	}
}

func validateOptions(opts Options) error {
	if opts.StartingChips <= 0 {
		return errors.New("starting chips must be > 0")
	}

	if opts.MaxPlayers < 2 || opts.MaxPlayers > maxSeats {
		return fmt.Errorf("max players must be between 2 and %d", maxSeats)
	}

	if opts.BotDelay < 0 {
		return errors.New("bot delay must be >= 0")
	}

	return nil
}

// Game is one session of equation poker
// A Game is not safe for concurrent use, the owner must serialize every call
type Game struct {
	id      string
	options Options
	logger  logrus.FieldLogger
	rng     rng.Generator
	sink    EventSink

	participants    []*Participant
	idToParticipant map[string]*Participant

	deck          *deck.Deck
	phase         Phase
	round         int
	pot           int
	currentBet    int
	decisionIndex int

	smallWinners    []string
	bigWinners      []string
	equationResults []*EquationResult

	// fatal is set when the session can not continue
	fatal error

	pendingEvents []Event
	pendingLogs   []*playable.LogMessage
	logChan       chan []*playable.LogMessage
}

// NewGame returns a new game waiting for players
func NewGame(id string, logger logrus.FieldLogger, gen rng.Generator, sink EventSink, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if sink == nil {
		sink = discardSink{}
	}

	return &Game{
		id:              id,
		options:         opts,
		logger:          logger.WithField("session", id),
		rng:             gen,
		sink:            sink,
		participants:    make([]*Participant, 0),
		idToParticipant: make(map[string]*Participant),
		phase:           PhaseWaiting,
		decisionIndex:   -1,
		smallWinners:    []string{},
		bigWinners:      []string{},
		logChan:         make(chan []*playable.LogMessage, 256),
	}, nil
}

// ID returns the session id
func (g *Game) ID() string {
	return g.id
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "Equation Poker"
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Round returns the round counter
func (g *Game) Round() int {
	return g.round
}

// LogChan returns a channel the game sends log messages to
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Participant returns the participant with the given id
func (g *Game) Participant(playerID string) (*Participant, bool) {
	p, ok := g.idToParticipant[playerID]
	return p, ok
}

// Join seats a player
// If existingID and name match a known player, that player is reconnected instead.
// Once the game has started, new players join as spectators without chips.
func (g *Game) Join(name, existingID string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: a name is required", playable.ErrInvalidAction)
	}

	if existingID != "" {
		if p, ok := g.idToParticipant[existingID]; ok && p.Name == name {
			if !p.eliminated && !p.spectator && !p.active {
				// a player who left mid-round sits out until the next round
				if g.phase.InRound() {
					p.folded = true
				}

				p.active = true
			}

			g.log(p.PlayerID, "reconnected")
			g.commit()
			return p.PlayerID, nil
		}
	}

	id := uuid.New().String()
	if g.phase != PhaseWaiting {
		p := newSpectator(id, name)
		g.addParticipant(p)
		g.log(id, "joined as a spectator")
		g.commit()
		return id, nil
	}

	if g.seatedPlayers() >= g.options.MaxPlayers {
		return "", fmt.Errorf("%w: the session is full", playable.ErrInvalidAction)
	}

	p := newParticipant(id, name, g.options.StartingChips, false)
	g.addParticipant(p)
	g.log(id, "joined")
	g.commit()
	return id, nil
}

func (g *Game) addParticipant(p *Participant) {
	g.participants = append(g.participants, p)
	g.idToParticipant[p.PlayerID] = p
}

func (g *Game) seatedPlayers() int {
	n := 0
	for _, p := range g.participants {
		if !p.spectator && !p.eliminated {
			n++
		}
	}

	return n
}

// Start starts a new round
// A lone human player is matched against an automated player with the same number of chips.
func (g *Game) Start() error {
	if g.phase != PhaseWaiting && g.phase != PhaseEnded {
		return g.reject("", fmt.Errorf("%w: a round is already in progress", playable.ErrInvalidAction))
	}

	if g.fatal != nil {
		return g.reject("", fmt.Errorf("%w: the session can not continue: %v", playable.ErrInvalidAction, g.fatal))
	}

	eligible := g.eligiblePlayers()
	if len(eligible) == 1 && !eligible[0].IsBot {
		bot := newParticipant("bot-"+uuid.New().String(), util.GetRandomName(), eligible[0].chips, true)
		g.addParticipant(bot)
		g.log(bot.PlayerID, "joined for practice")
		eligible = append(eligible, bot)
	}

	if len(eligible) < 2 {
		return g.reject("", fmt.Errorf("%w: at least two players with chips are required", playable.ErrInvalidAction))
	}

	g.round++
	g.deck = deck.Build(g.rng)
	g.smallWinners = []string{}
	g.bigWinners = []string{}
	g.equationResults = nil
	for _, p := range g.participants {
		p.newRound()
	}

	g.log("", "round %d started", g.round)
	g.startBettingPhase(PhasePreflop)
	g.commit()
	return nil
}

func (g *Game) eligiblePlayers() []*Participant {
	eligible := make([]*Participant, 0, len(g.participants))
	for _, p := range g.participants {
		if p.canPlay() {
			eligible = append(eligible, p)
		}
	}

	return eligible
}

// Action performs an action on behalf of a player
// On success a snapshot is emitted, on failure nothing changes and the player is sent the error.
func (g *Game) Action(playerID string, a action.Action) error {
	p, ok := g.idToParticipant[playerID]
	if !ok {
		return g.reject(playerID, fmt.Errorf("%w: player %s", playable.ErrNotFound, playerID))
	}

	if a == nil {
		return g.reject(playerID, fmt.Errorf("%w: missing action", playable.ErrInvalidAction))
	}

	if g.fatal != nil {
		return g.reject(playerID, fmt.Errorf("%w: the session can not continue", playable.ErrInvalidAction))
	}

	if p.pendingMultiply != nil && a.Kind() != action.KindSwapCard && a.Kind() != action.KindDeclineSwap {
		return g.reject(playerID, fmt.Errorf("%w: you must decide on the multiply card first", playable.ErrInvalidAction))
	}

	var err error
	switch act := a.(type) {
	case action.Bet:
		err = g.bet(p, act.Amount)
	case action.Call:
		err = g.call(p)
	case action.Fold:
		err = g.fold(p)
	case action.SelectBetType:
		err = g.selectBetType(p, act.BetType)
	case action.SubmitEquation:
		err = g.submitEquation(p, act.Small, act.Big)
	case action.SwapCard:
		err = g.swapCard(p, act.Operation)
	case action.DeclineSwap:
		err = g.declineSwap(p)
	default:
		err = fmt.Errorf("%w: unsupported action: %s", playable.ErrInvalidAction, a.Kind())
	}

	if err != nil && !errors.Is(err, playable.ErrDeckExhausted) {
		return g.reject(playerID, err)
	}

	g.commit()
	return err
}

// Disconnect marks a player as inactive
// If the player was on the clock the turn moves on, and a pending swap is declined for them.
func (g *Game) Disconnect(playerID string) error {
	p, ok := g.idToParticipant[playerID]
	if !ok {
		return fmt.Errorf("%w: player %s", playable.ErrNotFound, playerID)
	}

	if !p.active {
		return nil
	}

	wasContestant := p.isContestant()
	wasOnTheClock := g.phase.IsBetting() && g.currentTurn() == p
	p.active = false
	g.log(p.PlayerID, "disconnected")

	var err error
	if g.phase.InRound() && wasContestant {
		err = g.afterContestantLeft(p, wasOnTheClock)
	}

	g.commit()
	return err
}

func (g *Game) afterContestantLeft(p *Participant, wasOnTheClock bool) error {
	if p.pendingMultiply != nil {
		p.pendingMultiply = nil
		g.log(p.PlayerID, "declined the multiply card")
	}

	if g.contestantCount() <= 1 {
		g.endEarly()
		return nil
	}

	switch {
	case g.phase.IsDealing():
		return g.deal()
	case g.phase.IsBetting() && wasOnTheClock:
		if g.bettingRoundComplete() {
			return g.nextPhase()
		}

		g.decisionIndex = g.nextContestantIndex(g.decisionIndex)
	case g.phase.IsBetting() && g.bettingRoundComplete():
		return g.nextPhase()
	case g.phase == PhaseEquation:
		if g.allEquationsSubmitted() {
			g.resolve()
		}
	}

	return nil
}

// contestants returns the players still competing for the pot, in seat order
func (g *Game) contestants() []*Participant {
	c := make([]*Participant, 0, len(g.participants))
	for _, p := range g.participants {
		if p.isContestant() {
			c = append(c, p)
		}
	}

	return c
}

func (g *Game) contestantCount() int {
	n := 0
	for _, p := range g.participants {
		if p.isContestant() {
			n++
		}
	}

	return n
}

// firstContestantIndex returns the first seat still in the round, or -1
func (g *Game) firstContestantIndex() int {
	for i, p := range g.participants {
		if p.isContestant() {
			return i
		}
	}

	return -1
}

// nextContestantIndex returns the next seat after from that is still in the round, or -1
func (g *Game) nextContestantIndex(from int) int {
	n := len(g.participants)
	for i := 1; i <= n; i++ {
		index := (from + i) % n
		if g.participants[index].isContestant() {
			return index
		}
	}

	return -1
}

// currentTurn returns the participant whose action is awaited, or nil
func (g *Game) currentTurn() *Participant {
	if g.decisionIndex < 0 || g.decisionIndex >= len(g.participants) {
		return nil
	}

	return g.participants[g.decisionIndex]
}

func (g *Game) setPhase(phase Phase) {
	if phase < g.phase && !(g.phase == PhaseEnded && phase == PhasePreflop) {
		panic(fmt.Sprintf("phase cannot move from %s to %s", g.phase, phase))
	}

	g.logger.WithFields(logrus.Fields{
		"from":  g.phase.String(),
		"to":    phase.String(),
		"round": g.round,
	}).Debug("phase changed")
	g.phase = phase
}

// endEarly awards the whole pot to the last contestant standing
func (g *Game) endEarly() {
	winner := g.contestants()
	for _, p := range g.participants {
		p.pendingMultiply = nil
	}

	g.decisionIndex = -1
	g.setPhase(PhaseEnded)

	if len(winner) == 0 {
		g.logger.WithField("pot", g.pot).Warn("round ended without a contestant")
		return
	}

	sole := winner[0]
	sole.chips += g.pot
	g.log(sole.PlayerID, "won ${%d} as the last player standing", g.pot)
	g.pot = 0
	g.smallWinners = []string{sole.PlayerID}
	g.bigWinners = []string{sole.PlayerID}
}

// abort ends the session after an unrecoverable error
// Chips in the pot are returned to the contestants
func (g *Game) abort(err error) error {
	g.logger.WithError(err).WithField("round", g.round).Error("session aborted")
	g.fatal = err

	refunds := splitEvenly(g.pot, g.contestants())
	for _, p := range g.participants {
		p.chips += refunds[p.PlayerID]
		p.pendingMultiply = nil
	}

	g.pot = 0
	g.decisionIndex = -1
	g.setPhase(PhaseEnded)
	g.log("", "the round was cancelled")
	return err
}

func (g *Game) log(playerID string, format string, a ...interface{}) {
	g.pendingLogs = append(g.pendingLogs, playable.SimpleLogMessage(playerID, format, a...))
}

func (g *Game) emit(event Event) {
	g.pendingEvents = append(g.pendingEvents, event)
}

// commit publishes everything buffered by a successful mutation, followed by one snapshot
func (g *Game) commit() {
	events := g.pendingEvents
	logs := g.pendingLogs
	g.pendingEvents = nil
	g.pendingLogs = nil

	for _, e := range events {
		g.sink.Emit(e)
	}

	g.sink.Emit(Event{
		Kind:  EventSnapshotUpdated,
		State: g.GetState(),
	})

	if len(logs) > 0 {
		select {
		case g.logChan <- logs:
		default:
			g.logger.Warn("log channel is full, dropping log messages")
		}
	}
}

// reject discards everything buffered and reports the error to the player
func (g *Game) reject(playerID string, err error) error {
	g.pendingEvents = nil
	g.pendingLogs = nil

	g.logger.WithError(err).WithField("playerId", playerID).Info("action rejected")
	if playerID != "" {
		g.sink.Emit(Event{
			Kind:      EventActionRejected,
			Recipient: playerID,
			Err:       err,
		})
	}

	return err
}

package equationpoker

// Winners lists the winner(s) of each target
type Winners struct {
	Small []string `json:"small"`
	Big   []string `json:"big"`
}

// GameState is the snapshot broadcast to every participant
// The deck is never part of it
type GameState struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Phase           Phase              `json:"phase"`
	Round           int                `json:"round"`
	Pot             int                `json:"pot"`
	CurrentBet      int                `json:"currentBet"`
	MaxBet          int                `json:"maxBet"`
	CurrentPlayer   string             `json:"currentPlayer,omitempty"`
	CardsLeft       int                `json:"cardsLeft"`
	Players         []*participantJSON `json:"players"`
	Winners         Winners            `json:"winners"`
	EquationResults []*EquationResult  `json:"equationResults,omitempty"`
	Error           string             `json:"error,omitempty"`
}

// GetState returns a snapshot of the game
func (g *Game) GetState() *GameState {
	players := make([]*participantJSON, len(g.participants))
	for i, p := range g.participants {
		players[i] = p.participantJSON()
	}

	state := &GameState{
		ID:         g.id,
		Name:       g.Name(),
		Phase:      g.phase,
		Round:      g.round,
		Pot:        g.pot,
		CurrentBet: g.currentBet,
		MaxBet:     g.MaxBet(),
		Players:    players,
		Winners: Winners{
			Small: append([]string{}, g.smallWinners...),
			Big:   append([]string{}, g.bigWinners...),
		},
		EquationResults: g.equationResults,
	}

	if p := g.currentTurn(); p != nil {
		state.CurrentPlayer = p.PlayerID
	}

	if g.deck != nil {
		state.CardsLeft = g.deck.CardsLeft()
	}

	if g.fatal != nil {
		state.Error = g.fatal.Error()
	}

	return state
}

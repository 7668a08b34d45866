package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"equationpoker-server/pkg/db"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

const roundsColumns = `id, session_id, round, small_winners, big_winners, results, error, created`

// PostgresRecorder stores rounds in the `rounds` and `round_players` tables
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder returns a recorder backed by the database
func NewPostgresRecorder(db *sql.DB) *PostgresRecorder {
	return &PostgresRecorder{db: db}
}

// RecordRound inserts the round and its player balances in one transaction
func (p *PostgresRecorder) RecordRound(ctx context.Context, round *Round) (err error) {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	results := round.Results
	if len(results) == 0 {
		results = json.RawMessage("[]")
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err == nil {
			err = tx.Commit()
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("could not rollback transaction")
		}
	}()

	const query = `
INSERT INTO rounds (id, session_id, round, small_winners, big_winners, results, error)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created`

	row := tx.QueryRowContext(ctx, query,
		round.ID,
		round.SessionID,
		round.Number,
		pq.Array(nonNil(round.SmallWinners)),
		pq.Array(nonNil(round.BigWinners)),
		[]byte(results),
		round.Error,
	)

	if err := row.Scan(&round.Created); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqDuplicateKeyErrorCode {
			return ErrAlreadyRecorded
		}

		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO round_players (round_id, seat, player_id, name, is_bot, chips)
VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seat, player := range round.Players {
		if _, err := stmt.ExecContext(ctx, round.ID, seat, player.PlayerID, player.Name, player.IsBot, player.Chips); err != nil {
			return err
		}
	}

	return nil
}

// RoundsForSession returns the recorded rounds of a session, oldest first
func (p *PostgresRecorder) RoundsForSession(ctx context.Context, sessionID string) ([]*Round, error) {
	const query = `
SELECT ` + roundsColumns + `
FROM rounds
WHERE session_id = $1
ORDER BY round`

	rows, err := p.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]*Round, 0)
	for rows.Next() {
		round, err := roundByRow(rows)
		if err != nil {
			return nil, err
		}

		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, round := range rounds {
		if round.Players, err = p.playersForRound(ctx, round.ID); err != nil {
			return nil, err
		}
	}

	return rounds, nil
}

func (p *PostgresRecorder) playersForRound(ctx context.Context, roundID string) ([]*Player, error) {
	const query = `
SELECT player_id, name, is_bot, chips
FROM round_players
WHERE round_id = $1
ORDER BY seat`

	rows, err := p.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*Player, 0)
	for rows.Next() {
		var player Player
		if err := rows.Scan(&player.PlayerID, &player.Name, &player.IsBot, &player.Chips); err != nil {
			return nil, err
		}

		players = append(players, &player)
	}

	return players, rows.Err()
}

// nonNil keeps pq from writing NULL for a nil slice
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func roundByRow(row db.Scanner) (*Round, error) {
	var r Round
	var results []byte
	if err := row.Scan(&r.ID, &r.SessionID, &r.Number, pq.Array(&r.SmallWinners), pq.Array(&r.BigWinners), &results, &r.Error, &r.Created); err != nil {
		return nil, err
	}

	r.Results = results
	return &r, nil
}

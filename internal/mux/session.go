package mux

import (
	"errors"
	"net/http"

	"equationpoker-server/pkg/playable"
	"equationpoker-server/pkg/playable/equationpoker/action"
)

func (m *Mux) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		sessions, err := m.pitBoss.ListSessions()
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, paginate(sessions, start, rows))
	}
}

type postSessionResponse struct {
	ID string `json:"id"`
}

func (m *Mux) postSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := m.pitBoss.CreateSession()
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, postSessionResponse{ID: id})
	}
}

func (m *Mux) getSessionID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.pitBoss.GetSession(sessionID(r))
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

type postSessionIDPlayerPayload struct {
	Name     string `json:"name"`
	PlayerID string `json:"playerId"`
}

type postSessionIDPlayerResponse struct {
	PlayerID string `json:"playerId"`
}

func (m *Mux) postSessionIDPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postSessionIDPlayerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if len(pp.Name) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 40 characters or less"))
			return
		}

		playerID, err := m.pitBoss.JoinSession(sessionID(r), pp.Name, pp.PlayerID)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, postSessionIDPlayerResponse{PlayerID: playerID})
	}
}

func (m *Mux) postSessionIDStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := m.pitBoss.StartSession(sessionID(r))
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

type postSessionIDActionPayload struct {
	PlayerID       string                  `json:"playerId"`
	Action         string                  `json:"action"`
	AdditionalData playable.AdditionalData `json:"additionalData"`
}

func (m *Mux) postSessionIDAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postSessionIDActionPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		a, err := action.FromPayload(&playable.PayloadIn{
			Action:         pp.Action,
			AdditionalData: pp.AdditionalData,
		})
		if err != nil {
			writeSessionError(w, err)
			return
		}

		state, err := m.pitBoss.PerformAction(sessionID(r), pp.PlayerID, a)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}

func (m *Mux) getSessionIDRounds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, rows, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		rounds, err := m.pitBoss.Rounds(r.Context(), sessionID(r))
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, paginate(rounds, start, rows))
	}
}

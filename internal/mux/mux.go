package mux

import (
	"context"
	"net/http"

	"equationpoker-server/pkg/room"
	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxSessionKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/session").Handler(this.getSession())
		r.Methods(http.MethodPost).Path("/session").Handler(this.postSession())

		sr := r.PathPrefix("/session/{id:[0-9]+}").Subrouter()
		sr.Use(this.sessionMiddleware)

		sr.Methods(http.MethodGet).Path("").Handler(this.getSessionID())
		sr.Methods(http.MethodPost).Path("/player").Handler(this.postSessionIDPlayer())
		sr.Methods(http.MethodPost).Path("/start").Handler(this.postSessionIDStart())
		sr.Methods(http.MethodPost).Path("/action").Handler(this.postSessionIDAction())
		sr.Methods(http.MethodGet).Path("/rounds").Handler(this.getSessionIDRounds())
		sr.Methods(http.MethodGet).Path("/ws").Handler(this.getSessionIDWS())
	}

	return this
}

// sessionMiddleware responds with a 404 unless the session exists
func (m *Mux) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := gmux.Vars(r)["id"]
		if _, err := m.pitBoss.GetSession(id); err != nil {
			writeSessionError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSessionKey, id)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func sessionID(r *http.Request) string {
	return r.Context().Value(ctxSessionKey).(string)
}

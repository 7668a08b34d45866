package main

import (
	"errors"
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"equationpoker-server/internal/config"
	"equationpoker-server/internal/mux"
	"equationpoker-server/internal/rng"
	"equationpoker-server/pkg/db"
	"equationpoker-server/pkg/ledger"
	"equationpoker-server/pkg/playable/equationpoker"
	"equationpoker-server/pkg/room"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	pitBoss := room.NewPitBoss(room.NewMemoryRepository(rng.Crypto{}), room.Options{
		Game: equationpoker.Options{
			StartingChips: cfg.StartingChips,
			MaxPlayers:    cfg.MaxPlayers,
			BotDelay:      cfg.BotDelay(),
		},
		SwapTimeout: cfg.SwapTimeout(),
		Recorder:    setupRecorder(),
		Logger:      logrus.StandardLogger(),
		Generator:   rng.Crypto{},
	})
	pitBoss.StartShift()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("listening")
	logrus.Fatal(srv.ListenAndServe())
}

// setupRecorder returns a postgres backed ledger when a database is configured
func setupRecorder() ledger.Recorder {
	dbh, err := db.Instance()
	if errors.Is(err, db.ErrNotConfigured) {
		logrus.Info("no database configured, round history is kept in memory")
		return ledger.NewMemoryRecorder()
	}

	if err != nil {
		logrus.WithError(err).Fatal("could not connect to database")
	}

	// run the db migrations
	if err := db.Migrate(); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	return ledger.NewPostgresRecorder(dbh)
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

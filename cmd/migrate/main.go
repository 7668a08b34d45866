package main

import (
	"time"

	"equationpoker-server/pkg/db"
	"github.com/sirupsen/logrus"
)

func main() {
	waitForDB()
	if err := db.Migrate(); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}
}

func waitForDB() {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			_, err := db.Instance()
			if err == nil {
				return
			}

			if err == db.ErrNotConfigured {
				logrus.Fatal("EQP_PG_DSN is not set")
			}

			logrus.WithError(err).Debug("waiting for database")
			time.Sleep(time.Millisecond * 500)
		}
	}
}

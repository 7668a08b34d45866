package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"equationpoker-server/pkg/db"
	"equationpoker-server/pkg/ledger"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var command = flag.String("c", "rounds", "specifies the command (rounds)")
var session = flag.String("session", "", "the session id")

func main() {
	flag.Parse()

	switch *command {
	case "rounds":
		if *session == "" {
			logrus.Fatal("-session is required")
		}

		dbh, err := db.Instance()
		if err != nil {
			logrus.WithError(err).Fatal("could not connect to database")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		rounds, err := ledger.NewPostgresRecorder(dbh).RoundsForSession(ctx, *session)
		if err != nil {
			logrus.WithError(err).Fatal("could not load rounds")
		}

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			if err := json.NewEncoder(os.Stdout).Encode(rounds); err != nil {
				logrus.WithError(err).Fatal("could not write rounds")
			}
			return
		}

		if err := printRounds(rounds); err != nil {
			logrus.WithError(err).Fatal("could not render rounds")
		}
	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func printRounds(rounds []*ledger.Round) error {
	if len(rounds) == 0 {
		pterm.Info.Printfln("no rounds recorded for session %s", *session)
		return nil
	}

	data := pterm.TableData{{"Round", "Finished", "Small", "Big", "Chips", "Error"}}
	for _, round := range rounds {
		names := make(map[string]string, len(round.Players))
		chips := make([]string, 0, len(round.Players))
		for _, p := range round.Players {
			names[p.PlayerID] = p.Name
			chips = append(chips, fmt.Sprintf("%s: %d", p.Name, p.Chips))
		}

		data = append(data, []string{
			strconv.Itoa(round.Number),
			round.Created.Local().Format(time.RFC822),
			joinNames(names, round.SmallWinners),
			joinNames(names, round.BigWinners),
			strings.Join(chips, ", "),
			round.Error,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func joinNames(names map[string]string, playerIDs []string) string {
	out := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		if name, ok := names[id]; ok {
			out[i] = name
		} else {
			out[i] = id
		}
	}

	return strings.Join(out, ", ")
}

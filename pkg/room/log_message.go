package room

import (
	"equationpoker-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages adds log messages, keeping the most recent ones
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

// flushLogs moves the game's log messages into the dealer and sends them to every client
// Note: this must only be called from within the run loop
func (d *Dealer) flushLogs() {
	updated := false
	for drained := false; !drained; {
		select {
		case messages := <-d.game.LogChan():
			d.addLogMessages(messages)
			updated = true
		default:
			drained = true
		}
	}

	if updated {
		d.broadcast(d.logResponse())
	}
}

func (d *Dealer) logResponse() *playable.Response {
	messages := make([]*playable.LogMessage, len(d.logMessages))
	copy(messages, d.logMessages)

	return &playable.Response{
		Key:  keyLogs,
		Data: messages,
	}
}

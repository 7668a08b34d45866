package room

import (
	"fmt"
	"sync"

	"equationpoker-server/pkg/playable"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer     *Dealer
	dealerLock sync.RWMutex

	sessionID string
	playerID  string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, sessionID, playerID string) *Client {
	return &Client{
		send:      make(chan interface{}, 256),
		Close:     make(chan string, 1),
		Conn:      conn,
		sessionID: sessionID,
		playerID:  playerID,
	}
}

// Send send a message to the web client
// Returns false if the client is not keeping up and the message was dropped
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// PlayerID returns the id of the player the connection is bound to
func (c *Client) PlayerID() string {
	return c.playerID
}

// String returns a traceable identifier for the player and session
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.sessionID, c.playerID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	d := c.getDealer()
	if d == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	d.ReceivedMessage(c, msg)
}

func (c *Client) setDealer(d *Dealer) {
	c.dealerLock.Lock()
	defer c.dealerLock.Unlock()
	c.dealer = d
}

func (c *Client) getDealer() *Dealer {
	c.dealerLock.RLock()
	defer c.dealerLock.RUnlock()
	return c.dealer
}

func (c *Client) closeWithReason(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

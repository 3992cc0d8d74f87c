package stream

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// transport abstracts the underlying socket so the hub can be exercised
// without a network connection.
type transport interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// auctionState tracks whether the connection currently receives its bound
// auction's broadcasts. Toggled by the stop/start stream commands.
type auctionState int

const (
	auctionStateSubscribed auctionState = iota
	auctionStateUnsubscribed
)

// Conn is one client connection and its stream bindings. Subscription
// state is connection-local; the hub holds no per-connection locks beyond
// its registries.
type Conn struct {
	ws   transport
	send chan []byte

	// Identity resolved by the HTTP layer before the upgrade. Zero values
	// mean the connection is anonymous.
	UserID    uuid.UUID
	SessionID string

	// Zero deadlines disable the write timeout and ping keepalive.
	writeWait  time.Duration
	pingPeriod time.Duration

	mu           sync.Mutex
	auctionID    *uuid.UUID
	auctionState auctionState
	closed       bool
}

// NewConn wraps an accepted websocket in a hub connection. writeWait bounds
// each socket write; pongWait drives the ping keepalive interval.
func NewConn(ws *websocket.Conn, userID uuid.UUID, sessionID string, sendBuffer int, writeWait, pongWait time.Duration) *Conn {
	c := newConnWithTransport(ws, userID, sessionID, sendBuffer)
	c.writeWait = writeWait
	if pongWait > 0 {
		// Ping ahead of the read deadline so healthy peers never expire.
		c.pingPeriod = pongWait * 9 / 10
	}
	return c
}

func newConnWithTransport(ws transport, userID uuid.UUID, sessionID string, sendBuffer int) *Conn {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &Conn{
		ws:        ws,
		send:      make(chan []byte, sendBuffer),
		UserID:    userID,
		SessionID: sessionID,
	}
}

// BoundAuction returns the auction this connection is attached to, if any.
func (c *Conn) BoundAuction() *uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.auctionID == nil {
		return nil
	}
	id := *c.auctionID
	return &id
}

func (c *Conn) bindAuction(auctionID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := auctionID
	c.auctionID = &id
	c.auctionState = auctionStateSubscribed
}

// pauseAuction detaches the connection from its bound auction's
// broadcasts. Idempotent: pausing an already paused stream is a no-op.
func (c *Conn) pauseAuction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auctionState = auctionStateUnsubscribed
}

// resumeAuction reattaches the connection to its bound auction's
// broadcasts. Idempotent.
func (c *Conn) resumeAuction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auctionState = auctionStateSubscribed
}

// receivingAuction reports whether auction broadcasts should be delivered.
func (c *Conn) receivingAuction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auctionID != nil && c.auctionState == auctionStateSubscribed
}

// Send queues a frame for the write pump without blocking. Reports false
// when the buffer is full.
func (c *Conn) Send(data []byte) bool {
	return c.trySend(data)
}

// trySend queues data without blocking. Reports false when the buffer is
// full; a frame for an already closed connection is silently discarded.
func (c *Conn) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// WritePump drains the send buffer onto the socket and keeps the peer
// alive with periodic pings. Runs in its own goroutine per connection so
// one slow socket never blocks the hub.
func (c *Conn) WritePump() {
	var pings <-chan time.Time
	if c.pingPeriod > 0 {
		ticker := time.NewTicker(c.pingPeriod)
		defer ticker.Stop()
		pings = ticker.C
	}
	for {
		select {
		case data, ok := <-c.send:
			c.applyWriteDeadline()
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-pings:
			c.applyWriteDeadline()
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Conn) applyWriteDeadline() {
	if c.writeWait > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeWait))
	}
}

// close shuts the send channel exactly once and closes the socket.
func (c *Conn) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	close(c.send)
	return c.ws.Close()
}

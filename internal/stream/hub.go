package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
	"github.com/luisromero/bidhaus-backend/pkg/metrics"
)

const (
	KindList    = "list"
	KindAuction = "auction"
	KindSession = "session"
)

// Message is the envelope pushed to subscribers.
type Message struct {
	Stream string `json:"stream"`
	Event  string `json:"event"`
	Data   any    `json:"data,omitempty"`
}

// AuctionChecker is the read surface the hub needs to authorize auction
// subscriptions. Satisfied by auctions.Repository.
type AuctionChecker interface {
	ExistsAuction(ctx context.Context, auctionID uuid.UUID) (bool, error)
}

// Hub routes broadcasts to subscribed connections. Fanout is independent
// per connection: a full send buffer drops that subscriber instead of
// blocking the others or the triggering writer.
type Hub struct {
	mu       sync.RWMutex
	list     map[*Conn]struct{}
	auctions map[uuid.UUID]map[*Conn]struct{}
	sessions map[string]map[*Conn]struct{}
	conns    map[*Conn]struct{}

	repo    AuctionChecker
	logg    *logger.Logger
	metrics *metrics.StreamMetrics
}

// NewHub builds a hub backed by the auctions read model.
func NewHub(repo AuctionChecker, logg *logger.Logger, streamMetrics *metrics.StreamMetrics) *Hub {
	return &Hub{
		list:     make(map[*Conn]struct{}),
		auctions: make(map[uuid.UUID]map[*Conn]struct{}),
		sessions: make(map[string]map[*Conn]struct{}),
		conns:    make(map[*Conn]struct{}),
		repo:     repo,
		logg:     logg,
		metrics:  streamMetrics,
	}
}

// Register adds a freshly upgraded connection to the hub.
func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.metrics.ConnOpened("total")
}

// Unregister detaches the connection from every stream and closes it.
// Safe to call more than once; a dropped connection implicitly
// unsubscribes this way.
func (h *Hub) Unregister(c *Conn) {
	_ = h.unregister(c)
}

func (h *Hub) unregister(c *Conn) error {
	h.mu.Lock()
	if _, ok := h.conns[c]; !ok {
		h.mu.Unlock()
		return nil
	}
	delete(h.conns, c)
	delete(h.list, c)
	if id := c.BoundAuction(); id != nil {
		if subs, ok := h.auctions[*id]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.auctions, *id)
			}
		}
	}
	if c.SessionID != "" {
		if subs, ok := h.sessions[c.SessionID]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.sessions, c.SessionID)
			}
		}
	}
	h.mu.Unlock()

	err := c.close()
	h.metrics.ConnClosed("total")
	return err
}

// SubscribeList binds the connection to the shared auction-list stream.
// Always permitted.
func (h *Hub) SubscribeList(c *Conn) {
	h.mu.Lock()
	h.list[c] = struct{}{}
	h.mu.Unlock()
}

// SubscribeAuction binds the connection to one auction's stream after
// confirming the auction exists. A missing id or unknown auction rejects
// the subscription; the caller is expected to close the attempt.
func (h *Hub) SubscribeAuction(ctx context.Context, c *Conn, auctionID uuid.UUID) error {
	if auctionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "auction id is required")
	}
	exists, err := h.repo.ExistsAuction(ctx, auctionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check auction")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "auction not found")
	}

	h.mu.Lock()
	// Rebinding moves the connection off its previous auction stream.
	if prev := c.BoundAuction(); prev != nil && *prev != auctionID {
		if subs, ok := h.auctions[*prev]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.auctions, *prev)
			}
		}
	}
	subs, ok := h.auctions[auctionID]
	if !ok {
		subs = make(map[*Conn]struct{})
		h.auctions[auctionID] = subs
	}
	subs[c] = struct{}{}
	h.mu.Unlock()

	c.bindAuction(auctionID)
	return nil
}

// SubscribeSession binds an authenticated connection to its session
// stream. Anonymous connections are rejected.
func (h *Hub) SubscribeSession(c *Conn) error {
	if c.SessionID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated session required")
	}
	h.mu.Lock()
	subs, ok := h.sessions[c.SessionID]
	if !ok {
		subs = make(map[*Conn]struct{})
		h.sessions[c.SessionID] = subs
	}
	subs[c] = struct{}{}
	h.mu.Unlock()
	return nil
}

// StopAuctionStream pauses delivery of the bound auction's broadcasts so
// the connection does not hear the echo of its own upcoming write.
// Idempotent; a no-op when no auction is bound.
func (h *Hub) StopAuctionStream(c *Conn) {
	c.pauseAuction()
}

// StartAuctionStream resumes delivery after an echo-suppression pause.
// Idempotent.
func (h *Hub) StartAuctionStream(c *Conn) {
	c.resumeAuction()
}

// BroadcastList fans a message out to every list subscriber.
func (h *Hub) BroadcastList(event string, data any) {
	h.broadcast(KindList, h.snapshotList(), Message{Stream: KindList, Event: event, Data: data})
}

// BroadcastAuction fans a message out to the auction's subscribers,
// skipping connections that paused the stream.
func (h *Hub) BroadcastAuction(auctionID uuid.UUID, event string, data any) {
	targets := make([]*Conn, 0)
	h.mu.RLock()
	for c := range h.auctions[auctionID] {
		if c.receivingAuction() {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	h.broadcast(KindAuction, targets, Message{
		Stream: fmt.Sprintf("%s:%s", KindAuction, auctionID),
		Event:  event,
		Data:   data,
	})
}

// BroadcastSession pushes an account-scoped message to the session's
// connections.
func (h *Hub) BroadcastSession(sessionID string, event string, data any) {
	targets := make([]*Conn, 0)
	h.mu.RLock()
	for c := range h.sessions[sessionID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	h.broadcast(KindSession, targets, Message{
		Stream: fmt.Sprintf("%s:%s", KindSession, sessionID),
		Event:  event,
		Data:   data,
	})
}

func (h *Hub) snapshotList() []*Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	targets := make([]*Conn, 0, len(h.list))
	for c := range h.list {
		targets = append(targets, c)
	}
	return targets
}

func (h *Hub) broadcast(kind string, targets []*Conn, msg Message) {
	if len(targets) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logg != nil {
			h.logg.Error(context.Background(), "marshal broadcast", err)
		}
		return
	}

	for _, c := range targets {
		if c.trySend(data) {
			h.metrics.IncBroadcast(kind)
			continue
		}
		// Subscriber fell behind; drop it rather than stall the rest.
		h.metrics.IncDropped(kind)
		h.Unregister(c)
	}
}

// Close tears down every connection, aggregating close errors.
func (h *Hub) Close() error {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	var err error
	for _, c := range conns {
		err = multierr.Append(err, h.unregister(c))
	}
	return err
}

package stream

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
)

func TestHandleCommandMalformed(t *testing.T) {
	h := newTestHub()
	c, _ := connect(h, "", 8)

	err := h.HandleCommand(context.Background(), c, []byte("{not json"))
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleCommandUnknownAction(t *testing.T) {
	h := newTestHub()
	c, _ := connect(h, "", 8)

	err := h.HandleCommand(context.Background(), c, []byte(`{"action":"subscribe_everything"}`))
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleCommandAuctionIDNotUUID(t *testing.T) {
	h := newTestHub()
	c, _ := connect(h, "", 8)

	err := h.HandleCommand(context.Background(), c, []byte(`{"action":"subscribe_auction","auction_id":"42"}`))
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleCommandSubscribeAndToggle(t *testing.T) {
	auctionID := uuid.New()
	h := newTestHub(auctionID)
	c, _ := connect(h, "sess-1", 8)

	frame := fmt.Sprintf(`{"action":"subscribe_auction","auction_id":"%s"}`, auctionID)
	if err := h.HandleCommand(context.Background(), c, []byte(frame)); err != nil {
		t.Fatalf("subscribe_auction: %v", err)
	}
	if bound := c.BoundAuction(); bound == nil || *bound != auctionID {
		t.Fatal("subscribe_auction did not bind the connection")
	}

	if err := h.HandleCommand(context.Background(), c, []byte(`{"action":"stop_stream"}`)); err != nil {
		t.Fatalf("stop_stream: %v", err)
	}
	h.BroadcastAuction(auctionID, "bid_placed", nil)
	if _, ok := received(c); ok {
		t.Fatal("stop_stream did not pause delivery")
	}

	if err := h.HandleCommand(context.Background(), c, []byte(`{"action":"start_stream"}`)); err != nil {
		t.Fatalf("start_stream: %v", err)
	}
	h.BroadcastAuction(auctionID, "bid_placed", nil)
	if _, ok := received(c); !ok {
		t.Fatal("start_stream did not resume delivery")
	}
}

func TestHandleCommandSubscribeListAndSession(t *testing.T) {
	h := newTestHub()
	c, _ := connect(h, "sess-1", 8)

	if err := h.HandleCommand(context.Background(), c, []byte(`{"action":"subscribe_list"}`)); err != nil {
		t.Fatalf("subscribe_list: %v", err)
	}
	if err := h.HandleCommand(context.Background(), c, []byte(`{"action":"subscribe_session"}`)); err != nil {
		t.Fatalf("subscribe_session: %v", err)
	}

	h.BroadcastList("auction_started", nil)
	if _, ok := received(c); !ok {
		t.Fatal("list broadcast not delivered")
	}
	h.BroadcastSession("sess-1", "won_auction", nil)
	if _, ok := received(c); !ok {
		t.Fatal("session broadcast not delivered")
	}
}

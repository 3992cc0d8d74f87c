package stream

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
)

// Client commands accepted over the socket.
const (
	ActionSubscribeList    = "subscribe_list"
	ActionSubscribeAuction = "subscribe_auction"
	ActionSubscribeSession = "subscribe_session"
	ActionStopStream       = "stop_stream"
	ActionStartStream      = "start_stream"
)

// Command is the JSON frame a client sends to manage its subscriptions.
type Command struct {
	Action    string `json:"action"`
	AuctionID string `json:"auction_id,omitempty"`
}

// HandleCommand parses and applies one client frame. A returned error
// means the command was rejected; the read loop closes the connection.
func (h *Hub) HandleCommand(ctx context.Context, c *Conn, raw []byte) error {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed command")
	}

	switch cmd.Action {
	case ActionSubscribeList:
		h.SubscribeList(c)
		return nil
	case ActionSubscribeAuction:
		auctionID, err := uuid.Parse(cmd.AuctionID)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "auction_id must be a uuid")
		}
		return h.SubscribeAuction(ctx, c, auctionID)
	case ActionSubscribeSession:
		return h.SubscribeSession(c)
	case ActionStopStream:
		h.StopAuctionStream(c)
		return nil
	case ActionStartStream:
		h.StartAuctionStream(c)
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown action")
	}
}

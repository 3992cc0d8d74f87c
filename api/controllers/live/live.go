package live

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/luisromero/bidhaus-backend/api/middleware"
	"github.com/luisromero/bidhaus-backend/internal/stream"
	"github.com/luisromero/bidhaus-backend/pkg/auth/session"
	"github.com/luisromero/bidhaus-backend/pkg/config"
	pkgerrors "github.com/luisromero/bidhaus-backend/pkg/errors"
	"github.com/luisromero/bidhaus-backend/pkg/logger"
)

// Handler upgrades clients onto the live stream hub.
type Handler struct {
	hub      *stream.Hub
	jwt      config.JWTConfig
	sessions session.AccessSessionChecker
	logg     *logger.Logger
	upgrader websocket.Upgrader
	stream   config.StreamConfig
}

// NewHandler builds the websocket endpoint.
func NewHandler(hub *stream.Hub, jwtCfg config.JWTConfig, streamCfg config.StreamConfig, sessions session.AccessSessionChecker, logg *logger.Logger) *Handler {
	h := &Handler{
		hub:      hub,
		jwt:      jwtCfg,
		sessions: sessions,
		logg:     logg,
		stream:   streamCfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if streamCfg.AllowedOriginAny {
		h.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	return h
}

// ServeHTTP accepts a websocket connection and runs its command loop.
// A missing or invalid token leaves the connection anonymous; only the
// session stream requires authentication.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := uuid.Nil
	sessionID := ""
	if claims, err := middleware.Authenticate(h.jwt, h.sessions, r); err == nil {
		userID = claims.UserID
		sessionID = claims.ID
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logg != nil {
			h.logg.Error(r.Context(), "websocket upgrade", err)
		}
		return
	}

	conn := stream.NewConn(ws, userID, sessionID, h.stream.SendBufferSize, h.stream.WriteWait, h.stream.PongWait)
	h.hub.Register(conn)
	go conn.WritePump()

	ws.SetReadLimit(h.stream.ReadLimitBytes)
	if h.stream.PongWait > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(h.stream.PongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(h.stream.PongWait))
		})
	}

	defer h.hub.Unregister(conn)
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if err := h.hub.HandleCommand(r.Context(), conn, raw); err != nil {
			h.writeRejection(conn, err)
			return
		}
	}
}

// writeRejection queues a final error frame before the deferred unregister
// closes the socket. The write pump flushes it on its way out.
func (h *Handler) writeRejection(conn *stream.Conn, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stream command failed")
	}
	frame := stream.Message{
		Stream: "control",
		Event:  "error",
		Data: map[string]string{
			"code":    string(typed.Code()),
			"message": typed.Message(),
		},
	}
	if data, marshalErr := json.Marshal(frame); marshalErr == nil {
		conn.Send(data)
	}
}

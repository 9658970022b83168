package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/auth"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/ws"
)

// WSHandler upgrades to the event-socket transport. The credential travels
// in the connection handshake as a query parameter, since browser websocket
// clients cannot set an Authorization header.
type WSHandler struct {
	Engine               *chat.Engine
	Verifier             auth.Verifier
	Store                chat.Store
	Log                  *slog.Logger
	WSInsecureSkipVerify bool
}

func (h *WSHandler) Handle(c *gin.Context) {
	opts := &websocket.AcceptOptions{}
	// Dev-only bypass of origin verification; production sets the real
	// origin patterns instead.
	if h.WSInsecureSkipVerify {
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		return // Accept already wrote the error response
	}

	ctx := c.Request.Context()

	claims, err := h.Verifier.Verify(c.Query("token"))
	if err != nil {
		closeWithError(ctx, conn, err.Error())
		return
	}

	u, err := h.Store.FindUserByName(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			closeWithError(ctx, conn, "user not found")
		} else {
			h.logger().Error("ws auth lookup", "username", claims.Username, "err", err)
			closeWithError(ctx, conn, "internal error")
		}
		return
	}

	user := chat.UserRef{ID: u.ID, Username: u.Username}
	client := ws.NewClient(conn)
	h.Engine.Presence.Connect(ctx, user, chat.KindEvent, client)
	h.logger().Info("ws client connected", "username", user.Username)

	defer func() {
		h.Engine.Presence.Disconnect(context.Background(), user, chat.KindEvent, client)
		client.Close()
		h.logger().Info("ws client disconnected", "username", user.Username)
	}()

	sess := chat.NewSession(h.Engine, user, client)
	client.ReadLoop(ctx, sess, h.logger())
}

func (h *WSHandler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

// closeWithError emits one error event and terminates the connection, the
// handshake-failure contract of the event transport.
func closeWithError(ctx context.Context, conn *websocket.Conn, msg string) {
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = wsjson.Write(writeCtx, conn, ws.Event{Type: chat.EventError, Data: chat.ErrorPayload{Message: msg}})
	_ = conn.Close(websocket.StatusPolicyViolation, msg)
}

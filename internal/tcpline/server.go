// Package tcpline is the line-delimited transport: raw TCP, one JSON object
// per newline-terminated line. Connections are inert until an auth frame
// carrying a valid token arrives.
package tcpline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/auth"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
)

const maxLineSize = 1 << 20

type Server struct {
	engine   *chat.Engine
	verifier auth.Verifier
	store    chat.Store
	log      *slog.Logger
}

func NewServer(engine *chat.Engine, verifier auth.Verifier, store chat.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, verifier: verifier, store: store, log: logger}
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve(lis net.Listener) error {
	for {
		conn, err := lis.Accept()
		if err != nil {
			return err
		}
		go s.handleConn(conn)
	}
}

// inboundFrame is the union of every inbound line shape. The "type" field
// names the event; the rest are per-event fields.
type inboundFrame struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	To       string `json:"to"`
	Text     string `json:"text"`
	MsgID    string `json:"msgId"`
	IsTyping bool   `json:"isTyping"`
	ChatType string `json:"chatType"`
	ChatID   *uint  `json:"chatId"`
}

func (s *Server) handleConn(conn net.Conn) {
	a := newAdapter(conn)
	defer a.Close()

	s.log.Info("line client connected", "remote", conn.RemoteAddr().String())

	ctx := context.Background()
	var sess *chat.Session

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var f inboundFrame
		if err := json.Unmarshal(line, &f); err != nil {
			_ = a.Send(chat.EventError, chat.ErrorPayload{Message: "invalid json"})
			continue
		}

		if f.Type == "auth" {
			next, ok := s.authenticate(ctx, a, f.Token)
			if !ok {
				break
			}
			// Re-auth under a different identity hands the adapter off:
			// the previous user's slot is released so they don't stay
			// online behind a connection they no longer own.
			if sess != nil && sess.User().Username != next.User().Username {
				s.engine.Presence.Disconnect(ctx, sess.User(), chat.KindLine, a)
			}
			sess = next
			continue
		}

		if sess == nil {
			_ = a.Send(chat.EventError, chat.ErrorPayload{Message: "not authenticated"})
			continue
		}

		switch f.Type {
		case "message":
			sess.HandleMessage(ctx, f.To, f.Text)
		case "typing":
			sess.HandleTyping(chat.TypingSignal{IsTyping: f.IsTyping, ChatType: f.ChatType, ChatID: f.ChatID})
		case "ack":
			sess.HandleAck(ctx, f.MsgID)
		default:
			_ = a.Send(chat.EventError, chat.ErrorPayload{Message: "unknown message type"})
		}
	}

	if sess != nil {
		user := sess.User()
		s.log.Info("line client disconnected", "username", user.Username)
		s.engine.Presence.Disconnect(ctx, user, chat.KindLine, a)
	} else {
		s.log.Info("line client disconnected", "remote", conn.RemoteAddr().String())
	}
}

// authenticate verifies the token, admits the adapter, and replies with an
// ok frame. On failure it writes the error frame synchronously and reports
// the connection unusable; the caller closes it.
func (s *Server) authenticate(ctx context.Context, a *adapter, token string) (*chat.Session, bool) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		s.writeDirect(a, chat.ErrorPayload{Message: err.Error()})
		return nil, false
	}

	u, err := s.store.FindUserByName(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			s.writeDirect(a, chat.ErrorPayload{Message: "user not found"})
		} else {
			s.log.Error("auth lookup", "username", claims.Username, "err", err)
			s.writeDirect(a, chat.ErrorPayload{Message: "internal error"})
		}
		return nil, false
	}

	user := chat.UserRef{ID: u.ID, Username: u.Username}
	_ = a.Send(chat.EventOK, chat.OKPayload{Message: "authenticated", Username: u.Username})
	s.engine.Presence.Connect(ctx, user, chat.KindLine, a)
	s.log.Info("line client authenticated", "username", u.Username)
	return chat.NewSession(s.engine, user, a), true
}

// writeDirect bypasses the send queue for the terminal error frame written
// just before closing an unauthenticated connection.
func (s *Server) writeDirect(a *adapter, payload chat.ErrorPayload) {
	b, err := json.Marshal(lineError{Type: chat.EventError, Message: payload.Message})
	if err != nil {
		return
	}
	_ = a.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, _ = a.conn.Write(append(b, '\n'))
}

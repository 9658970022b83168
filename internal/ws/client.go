// Package ws is the event-socket transport: one websocket connection
// carrying named-event frames of the form {"type": <event>, "data": <payload>}.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Client adapts one websocket connection to the chat.Adapter contract.
// Writes go through a buffered channel drained by writeLoop, so a slow
// client fills its own buffer instead of stalling the caller.
type Client struct {
	conn *websocket.Conn
	send chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		conn:   conn,
		send:   make(chan Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}

	go c.writeLoop()
	go c.keepAliveLoop()

	return c
}

func (c *Client) Kind() chat.Kind { return chat.KindEvent }

func (c *Client) Send(event string, payload any) error {
	select {
	case <-c.ctx.Done():
		return chat.ErrAdapterClosed
	default:
	}
	select {
	case c.send <- Event{Type: event, Data: payload}:
		return nil
	case <-c.ctx.Done():
		return chat.ErrAdapterClosed
	default:
		return chat.ErrSendBufferFull
	}
}

func (c *Client) Close() {
	c.cancel()
	_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.send:
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.conn, ev)
			cancel()
		}
	}
}

func (c *Client) keepAliveLoop() {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.conn.Ping(pingCtx)
			cancel()
		}
	}
}

type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type inboundMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type inboundNewMessage struct {
	Content     string `json:"content"`
	Type        string `json:"type"`
	RecipientID *uint  `json:"recipientId"`
}

type inboundAck struct {
	MsgID string `json:"msgId"`
}

// ReadLoop reads inbound frames until the connection drops and dispatches
// them to the session. The handler calls it after authentication; it returns
// on the first read error.
func (c *Client) ReadLoop(ctx context.Context, sess *chat.Session, logger *slog.Logger) {
	for {
		var ev inboundEvent
		if err := wsjson.Read(ctx, c.conn, &ev); err != nil {
			return
		}

		switch ev.Type {
		case "message":
			var in inboundMessage
			if err := json.Unmarshal(ev.Data, &in); err != nil {
				_ = c.Send(chat.EventError, chat.ErrorPayload{Message: "invalid payload"})
				continue
			}
			sess.HandleMessage(ctx, in.To, in.Text)
		case "newMessage":
			var in inboundNewMessage
			if err := json.Unmarshal(ev.Data, &in); err != nil {
				_ = c.Send(chat.EventError, chat.ErrorPayload{Message: "invalid payload"})
				continue
			}
			sess.HandleNewMessage(ctx, in.Content, in.Type, in.RecipientID)
		case "typing":
			var sig chat.TypingSignal
			if err := json.Unmarshal(ev.Data, &sig); err != nil {
				_ = c.Send(chat.EventError, chat.ErrorPayload{Message: "invalid payload"})
				continue
			}
			sess.HandleTyping(sig)
		case "ack":
			var in inboundAck
			if err := json.Unmarshal(ev.Data, &in); err != nil {
				_ = c.Send(chat.EventError, chat.ErrorPayload{Message: "invalid payload"})
				continue
			}
			sess.HandleAck(ctx, in.MsgID)
		default:
			logger.Debug("unknown ws event", "type", ev.Type)
			_ = c.Send(chat.EventError, chat.ErrorPayload{Message: "unknown message type"})
		}
	}
}

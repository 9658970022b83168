package chat

import (
	"context"
	"errors"
)

// Session binds one authenticated adapter to the engine and gives both
// transports the same inbound vocabulary. The transport parses its wire
// format and calls these handlers; replies go back on the session's own
// adapter.
type Session struct {
	engine  *Engine
	user    UserRef
	adapter Adapter
}

func NewSession(e *Engine, user UserRef, a Adapter) *Session {
	return &Session{engine: e, user: user, adapter: a}
}

func (s *Session) User() UserRef { return s.user }

// HandleMessage serves the legacy message{to, text} form and confirms with
// accepted{msgId}.
func (s *Session) HandleMessage(ctx context.Context, to, text string) {
	msg, err := s.engine.Router.Send(ctx, s.user, SendInput{To: to, Content: text})
	if err != nil {
		s.sendError(err)
		return
	}
	_ = s.adapter.Send(EventAccepted, AcceptedPayload{MsgID: msg.MsgID})
}

// HandleNewMessage serves newMessage{content, type, recipientId} and
// confirms with messageDelivered{success, messageId}.
func (s *Session) HandleNewMessage(ctx context.Context, content, msgType string, recipientID *uint) {
	msg, err := s.engine.Router.Send(ctx, s.user, SendInput{Type: msgType, Content: content, RecipientID: recipientID})
	if err != nil {
		s.sendError(err)
		return
	}
	_ = s.adapter.Send(EventMessageDelivered, DeliveredPayload{Success: true, MessageID: msg.MsgID})
}

func (s *Session) HandleTyping(sig TypingSignal) {
	s.engine.Typing.Relay(s.user, sig)
}

func (s *Session) HandleAck(ctx context.Context, msgID string) {
	if err := s.engine.Router.Ack(ctx, s.user.Username, msgID); err != nil {
		s.sendError(err)
	}
}

func (s *Session) sendError(err error) {
	switch {
	case errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrRecipientNotFound),
		errors.Is(err, ErrMissingMsgID):
		_ = s.adapter.Send(EventError, ErrorPayload{Message: err.Error()})
	default:
		_ = s.adapter.Send(EventError, ErrorPayload{Message: "failed to send message"})
	}
}

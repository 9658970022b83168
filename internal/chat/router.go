package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
)

const (
	TypeGeneral = "general"
	TypeDirect  = "direct"

	// ToAll addresses a message to everyone known at send time.
	ToAll = "all"
)

// SendInput is the normalized form of both inbound message shapes:
// message{to, text} and newMessage{content, type, recipientId}.
type SendInput struct {
	Type        string
	Content     string
	To          string
	RecipientID *uint
}

// Router resolves recipients, persists one message, and fans it out to live
// adapters. Persistence always happens before fan-out: an unpersisted
// message is never delivered.
type Router struct {
	store Store
	reg   *Registry
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// Send runs the full pipeline and returns the persisted message. The
// recipient list of a general message is snapshotted from the user table at
// send time and never revised afterwards.
func (rt *Router) Send(ctx context.Context, sender UserRef, in SendInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyContent
	}

	msgType, to := normalizeTarget(in)

	msg := &models.Message{
		MsgID:     rt.newID(),
		From:      sender.Username,
		Type:      msgType,
		Content:   in.Content,
		SenderID:  sender.ID,
		Timestamp: rt.now(),
	}

	switch msgType {
	case TypeDirect:
		recipient, err := rt.resolveRecipient(ctx, in, to)
		if err != nil {
			return nil, err
		}
		msg.To = recipient.Username
		msg.RecipientID = &recipient.ID
		msg.Recipients = []models.MessageRecipient{{Username: recipient.Username}}
	default:
		users, err := rt.store.ListUsersExcept(ctx, sender.Username)
		if err != nil {
			return nil, fmt.Errorf("snapshot recipients: %w", err)
		}
		msg.To = ToAll
		msg.Recipients = make([]models.MessageRecipient, 0, len(users))
		for _, u := range users {
			msg.Recipients = append(msg.Recipients, models.MessageRecipient{Username: u.Username})
		}
	}

	if err := rt.store.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	rt.fanOut(sender, msg)
	return msg, nil
}

func normalizeTarget(in SendInput) (msgType, to string) {
	msgType = in.Type
	to = in.To
	if msgType == "" {
		if to == "" || to == ToAll {
			msgType = TypeGeneral
		} else {
			msgType = TypeDirect
		}
	}
	return msgType, to
}

func (rt *Router) resolveRecipient(ctx context.Context, in SendInput, to string) (*models.User, error) {
	var (
		u   *models.User
		err error
	)
	switch {
	case in.RecipientID != nil:
		u, err = rt.store.FindUserByID(ctx, *in.RecipientID)
	case to != "" && to != ToAll:
		u, err = rt.store.FindUserByName(ctx, to)
	default:
		return nil, ErrRecipientNotFound
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}
	return u, nil
}

// fanOut pushes the persisted message to every live adapter of every
// recipient, plus the sender's own adapters so all of their open sessions
// converge on one message list. The originating adapter gets the echo on
// top of its confirmation; both carry the same msgId, so the client
// collapses them into one entry. Liveness is re-checked here, not taken
// from any earlier snapshot, and a failed send to one adapter never blocks
// the rest.
func (rt *Router) fanOut(sender UserRef, msg *models.Message) {
	payload := MessagePayload{
		ID:             msg.ID,
		MsgID:          msg.MsgID,
		Content:        msg.Content,
		SenderID:       msg.SenderID,
		SenderUsername: msg.From,
		RecipientID:    msg.RecipientID,
		Type:           msg.Type,
		CreatedAt:      msg.Timestamp,
		Timestamp:      msg.Timestamp,
		To:             msg.To,
	}

	targets := make([]string, 0, len(msg.Recipients)+1)
	for _, r := range msg.Recipients {
		targets = append(targets, r.Username)
	}
	targets = append(targets, sender.Username)

	for _, username := range targets {
		for _, a := range rt.reg.Resolve(username) {
			if err := a.Send(EventNewMessage, payload); err != nil {
				// Indistinguishable from the recipient being offline;
				// history is the backstop.
				rt.log.Warn("message push dropped", "msgId", msg.MsgID, "recipient", username, "kind", a.Kind(), "err", err)
			}
		}
	}
}

// Ack marks one recipient's copy delivered. Unknown msgIds are a no-op, not
// an error: acks may race with write confirmation. Repeated acks are
// accepted and change nothing.
func (rt *Router) Ack(ctx context.Context, username, msgID string) error {
	if msgID == "" {
		return ErrMissingMsgID
	}
	err := rt.store.MarkRecipientDelivered(ctx, msgID, username, rt.now())
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

package chat

import "time"

// Outbound event names. The event-socket transport frames these as
// {"type": <event>, "data": <payload>}; the line transport flattens the
// payload into one JSON object with a "type" field.
const (
	EventOnlineUsers      = "onlineUsers"
	EventUserOnline       = "userOnline"
	EventUserLeft         = "userLeft"
	EventPresence         = "presence"
	EventNewMessage       = "newMessage"
	EventAccepted         = "accepted"
	EventMessageDelivered = "messageDelivered"
	EventUserTyping       = "userTyping"
	EventError            = "error"
	EventOK               = "ok"
)

// UserRef identifies a user in presence payloads and snapshots.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type PresencePayload struct {
	Username string `json:"username"`
	Status   string `json:"status"` // "online" or "offline"
	TS       int64  `json:"ts"`
}

// MessagePayload is the delivered copy of a persisted message. Every copy,
// including the sender's echo, carries the same server-assigned MsgID and
// Timestamp so all sessions converge on one message identity.
type MessagePayload struct {
	ID             uint      `json:"id"`
	MsgID          string    `json:"msgId"`
	Content        string    `json:"content"`
	SenderID       uint      `json:"senderId"`
	SenderUsername string    `json:"senderUsername"`
	RecipientID    *uint     `json:"recipientId,omitempty"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"createdAt"`
	Timestamp      time.Time `json:"timestamp"`

	// To is the legacy address field ("all" or a username). The line
	// transport puts it on the wire; the event transport does not.
	To string `json:"-"`
}

type AcceptedPayload struct {
	MsgID string `json:"msgId"`
}

type DeliveredPayload struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

type TypingPayload struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
	ChatType string `json:"chatType"`
	ChatID   *uint  `json:"chatId,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type OKPayload struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

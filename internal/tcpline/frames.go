package tcpline

import (
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
)

// The line protocol predates the event-socket one and speaks flat objects
// with a "type" field. lineFrame translates engine events into that shape; a
// nil return means the event is not part of the line vocabulary (userOnline
// and userLeft, which line clients learn through presence frames instead).

type lineMessage struct {
	Type  string    `json:"type"`
	MsgID string    `json:"msgId"`
	From  string    `json:"from"`
	To    string    `json:"to"`
	Text  string    `json:"text"`
	TS    time.Time `json:"ts"`
}

type lineAccepted struct {
	Type  string `json:"type"`
	MsgID string `json:"msgId"`
}

type lineDelivered struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
}

type linePresence struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Status   string `json:"status"`
	TS       int64  `json:"ts"`
}

type lineOnlineUsers struct {
	Type  string         `json:"type"`
	Users []chat.UserRef `json:"users"`
}

type lineTyping struct {
	Type     string `json:"type"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
	ChatType string `json:"chatType"`
	ChatID   *uint  `json:"chatId,omitempty"`
}

type lineError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type lineOK struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

func lineFrame(event string, payload any) any {
	switch p := payload.(type) {
	case chat.MessagePayload:
		return lineMessage{Type: "message", MsgID: p.MsgID, From: p.SenderUsername, To: p.To, Text: p.Content, TS: p.Timestamp}
	case chat.AcceptedPayload:
		return lineAccepted{Type: chat.EventAccepted, MsgID: p.MsgID}
	case chat.DeliveredPayload:
		return lineDelivered{Type: chat.EventMessageDelivered, Success: p.Success, MessageID: p.MessageID}
	case chat.PresencePayload:
		return linePresence{Type: chat.EventPresence, Username: p.Username, Status: p.Status, TS: p.TS}
	case []chat.UserRef:
		return lineOnlineUsers{Type: chat.EventOnlineUsers, Users: p}
	case chat.TypingPayload:
		return lineTyping{Type: chat.EventUserTyping, UserID: p.UserID, Username: p.Username, IsTyping: p.IsTyping, ChatType: p.ChatType, ChatID: p.ChatID}
	case chat.ErrorPayload:
		return lineError{Type: chat.EventError, Message: p.Message}
	case chat.OKPayload:
		return lineOK{Type: chat.EventOK, Message: p.Message, Username: p.Username}
	case chat.UserRef:
		// userOnline / userLeft: no line representation.
		return nil
	default:
		return nil
	}
}

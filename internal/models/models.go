package models

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:190;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Avatar       string     `gorm:"size:255" json:"avatar"`
	Online       bool       `gorm:"not null;default:false" json:"online"`
	ConnectedAt  *time.Time `json:"connected_at"`
	LastSeen     *time.Time `json:"last_seen"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Message is immutable after save except for per-recipient delivery flags.
type Message struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	MsgID       string             `gorm:"size:36;uniqueIndex;not null" json:"msgId"`
	From        string             `gorm:"size:64;not null" json:"from"`
	To          string             `gorm:"size:64;not null;default:all" json:"to"`
	Type        string             `gorm:"size:20;not null;default:general" json:"type"` // "general" or "direct"
	Content     string             `gorm:"type:text;not null" json:"content"`
	SenderID    uint               `gorm:"index;not null" json:"sender_id"`
	RecipientID *uint              `gorm:"index" json:"recipient_id"`
	Timestamp   time.Time          `gorm:"index" json:"timestamp"`
	Recipients  []MessageRecipient `json:"recipients"`
}

// MessageRecipient is one delivery record per recipient, snapshotted at
// send time.
type MessageRecipient struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	MessageID   uint       `gorm:"uniqueIndex:idx_message_recipient;not null" json:"message_id"`
	Username    string     `gorm:"size:64;uniqueIndex:idx_message_recipient;not null" json:"username"`
	Delivered   bool       `gorm:"not null;default:false" json:"delivered"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

type Contact struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_contact;not null" json:"user_id"`
	ContactUserID uint      `gorm:"uniqueIndex:idx_user_contact;not null" json:"contact_user_id"`
	Nickname      string    `gorm:"size:64" json:"nickname"`
	IsBlocked     bool      `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Package store implements the durable side of the chat engine on gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/chat"
	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindUserByName(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (s *Store) ListUsersExcept(ctx context.Context, username string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("username <> ?", username).
		Order("username asc").
		Find(&users).Error
	return users, err
}

func (s *Store) SaveMessage(ctx context.Context, msg *models.Message) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

// MarkRecipientDelivered is idempotent: re-acking an already delivered
// recipient rewrites the same flag. A missing recipient row (the acker was
// not in the snapshot) is a no-op.
func (s *Store) MarkRecipientDelivered(ctx context.Context, msgID, username string, at time.Time) error {
	var msg models.Message
	if err := s.db.WithContext(ctx).Select("id").Where("msg_id = ?", msgID).First(&msg).Error; err != nil {
		return mapNotFound(err)
	}
	return s.db.WithContext(ctx).
		Model(&models.MessageRecipient{}).
		Where("message_id = ? AND username = ?", msg.ID, username).
		Updates(map[string]any{"delivered": true, "delivered_at": at}).Error
}

func (s *Store) SetOnline(ctx context.Context, username string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Updates(map[string]any{"online": true, "connected_at": at, "last_seen": at}).Error
}

func (s *Store) SetOffline(ctx context.Context, username string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Updates(map[string]any{"online": false, "last_seen": at}).Error
}

// ListMessagesFor backfills history for one user: every general message plus
// any direct message they sent or received, ascending by server timestamp.
func (s *Store) ListMessagesFor(ctx context.Context, userID uint, username string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Preload("Recipients").
		Where("(`to` = ? AND type = ?) OR `to` = ? OR `from` = ? OR sender_id = ? OR recipient_id = ?",
			chat.ToAll, chat.TypeGeneral, username, username, userID, userID).
		Order("timestamp asc").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return chat.ErrNotFound
	}
	return err
}

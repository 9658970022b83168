package chat

import (
	"context"
	"time"

	"github.com/bharadwajreddy07/Namaste-Messenger/internal/models"
)

// Store is the durable side of the engine. Lookup methods return ErrNotFound
// (possibly wrapped) when the row does not exist. Implementations must be
// safe for concurrent use; the engine never calls them while holding the
// registry lock.
type Store interface {
	FindUserByName(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsersExcept(ctx context.Context, username string) ([]models.User, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	// MarkRecipientDelivered sets delivered/deliveredAt for one recipient of
	// one message. Repeated calls for the same recipient are no-ops.
	MarkRecipientDelivered(ctx context.Context, msgID, username string, at time.Time) error
	SetOnline(ctx context.Context, username string, at time.Time) error
	SetOffline(ctx context.Context, username string, at time.Time) error
}

// Package messages persists direct messages.
package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/balance/internal/server/models"
)

type Repository interface {
	// Create inserts msg (ID set by the caller) and fills CreatedAt.
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	Get(ctx context.Context, id string) (*models.Message, error)
	// ListUnread returns messages addressed to userID that have no read_at,
	// newest first.
	ListUnread(ctx context.Context, userID string) ([]*models.Message, error)
	// MarkRead sets read_at once; it reports false when the message was
	// already read.
	MarkRead(ctx context.Context, id string, at time.Time) (bool, error)
	// ListConversation returns chat messages exchanged between a and b,
	// oldest first.
	ListConversation(ctx context.Context, a, b string) ([]*models.Message, error)
	SetAttachmentKey(ctx context.Context, id, key string) error
}

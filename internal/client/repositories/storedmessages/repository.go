// Package storedmessages keeps a local journal of messages the CLI sent or
// displayed.
package storedmessages

import (
	"context"

	"github.com/dmitrijs2005/balance/internal/client/models"
)

type Repository interface {
	// Add journals m and reports whether it was new. A message already
	// journaled is left as is.
	Add(ctx context.Context, m *models.StoredMessage) (bool, error)
	// List returns up to limit rows, newest first. An empty peer lists all.
	List(ctx context.Context, peer string, limit int) ([]*models.StoredMessage, error)
	Count(ctx context.Context) (int64, error)
	Trim(ctx context.Context, capacity int) (int64, error)
	Clear(ctx context.Context) error
}

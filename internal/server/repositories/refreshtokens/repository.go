// Package refreshtokens stores the opaque refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/balance/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	// Find returns common.ErrorNotFound for unknown tokens.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

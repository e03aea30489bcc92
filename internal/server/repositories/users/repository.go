// Package users persists user accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/balance/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID and CreatedAt. A taken username
	// yields common.ErrDuplicateUsername.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}

// Package chathistory persists the CLI's list of recent chat peers.
package chathistory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/models"
)

type Repository interface {
	// Upsert records activity with username at time at and moves the row
	// to the front, whatever at is. A new row starts with unread 0 when
	// own is true and 1 otherwise; an existing row has its unread count
	// reset (own) or incremented.
	Upsert(ctx context.Context, id, username, snippet string, at time.Time, own bool) error
	Get(ctx context.Context, username string) (*models.ChatHistoryEntry, error)
	// Recent and Trim order rows by last upsert, newest first.
	Recent(ctx context.Context, limit int) ([]*models.ChatHistoryEntry, error)
	MarkRead(ctx context.Context, username string) error
	// Trim keeps the capacity most recently upserted rows and returns how
	// many were removed.
	Trim(ctx context.Context, capacity int) (int64, error)
	Clear(ctx context.Context) error
}

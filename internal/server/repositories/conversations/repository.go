// Package conversations tracks which pairs of users have chatted and when.
package conversations

import (
	"context"

	"github.com/dmitrijs2005/balance/internal/server/models"
)

type Repository interface {
	// Touch creates the row for the pair or moves its last message forward.
	Touch(ctx context.Context, c *models.Conversation) error
	// ListForUser returns the user's peers, most recent activity first.
	ListForUser(ctx context.Context, userID string) ([]*models.ConversationSummary, error)
}

package conversations

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/server/models"
)

type PostgresRepository struct {
	db      dbx.DBTX
	builder squirrel.StatementBuilderType
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PostgresRepository) Touch(ctx context.Context, c *models.Conversation) error {
	stmt, args, err := r.builder.Insert("conversations").
		Columns("user1_id", "user2_id", "last_message", "last_message_at").
		Values(c.User1ID, c.User2ID, c.LastMessage, c.LastMessageAt).
		Suffix("ON CONFLICT (user1_id, user2_id) DO UPDATE SET last_message = EXCLUDED.last_message, last_message_at = EXCLUDED.last_message_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch conversation sql: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]*models.ConversationSummary, error) {
	stmt, args, err := r.builder.Select("u.id", "u.username", "c.last_message", "c.last_message_at").
		From("conversations c").
		Join("users u ON u.id = CASE WHEN c.user1_id = ? THEN c.user2_id ELSE c.user1_id END", userID).
		Where(squirrel.Or{
			squirrel.Eq{"c.user1_id": userID},
			squirrel.Eq{"c.user2_id": userID},
		}).
		OrderBy("c.last_message_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list conversations sql: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.ConversationSummary
	for rows.Next() {
		s := &models.ConversationSummary{}
		if err := rows.Scan(&s.PeerID, &s.PeerUsername, &s.LastMessage, &s.LastMessageAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

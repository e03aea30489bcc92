package storedmessages

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, m *models.StoredMessage) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO stored_messages (message_id, peer_username, from_username, content, message_type, created_at, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO NOTHING
	`, m.MessageID, m.PeerUsername, m.FromUsername, m.Content, m.Type, m.CreatedAt.UnixNano(), m.StoredAt.UnixNano())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) List(ctx context.Context, peer string, limit int) ([]*models.StoredMessage, error) {
	query := `SELECT id, message_id, peer_username, from_username, content, message_type, created_at, stored_at
		FROM stored_messages`
	args := []any{}
	if peer != "" {
		query += ` WHERE peer_username = ?`
		args = append(args, peer)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var res []*models.StoredMessage
	for rows.Next() {
		var (
			m                   models.StoredMessage
			createdAt, storedAt int64
		)
		if err := rows.Scan(&m.ID, &m.MessageID, &m.PeerUsername, &m.FromUsername, &m.Content, &m.Type, &createdAt, &storedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.CreatedAt = time.Unix(0, createdAt).UTC()
		m.StoredAt = time.Unix(0, storedAt).UTC()
		res = append(res, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stored_messages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Trim(ctx context.Context, capacity int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM stored_messages
		WHERE id NOT IN (SELECT id FROM stored_messages ORDER BY id DESC LIMIT ?)`, capacity)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stored_messages`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

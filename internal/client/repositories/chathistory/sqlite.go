package chathistory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, id, username, snippet string, at time.Time, own bool) error {
	unread := 1
	if own {
		unread = 0
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_history (username, id, last_message, last_activity, unread_count, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM chat_history))
		ON CONFLICT(username) DO UPDATE SET
			last_message  = excluded.last_message,
			last_activity = excluded.last_activity,
			unread_count  = CASE WHEN excluded.unread_count = 0 THEN 0 ELSE chat_history.unread_count + 1 END,
			seq           = excluded.seq
	`, username, id, snippet, at.UnixNano(), unread)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanEntry(row interface{ Scan(dest ...any) error }) (*models.ChatHistoryEntry, error) {
	var (
		e  models.ChatHistoryEntry
		at int64
	)
	if err := row.Scan(&e.ID, &e.Username, &e.LastMessage, &at, &e.UnreadCount); err != nil {
		return nil, err
	}
	e.LastActivity = time.Unix(0, at).UTC()
	return &e, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, username string) (*models.ChatHistoryEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, last_message, last_activity, unread_count
		FROM chat_history WHERE username = ?`, username)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]*models.ChatHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, last_message, last_activity, unread_count
		FROM chat_history
		ORDER BY seq DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := make([]*models.ChatHistoryEntry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE chat_history SET unread_count = 0 WHERE username = ?`, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Trim(ctx context.Context, capacity int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM chat_history
		WHERE username NOT IN (
			SELECT username FROM chat_history
			ORDER BY seq DESC
			LIMIT ?
		)`, capacity)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM chat_history`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

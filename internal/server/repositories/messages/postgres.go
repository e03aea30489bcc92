package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/server/models"
)

var messageColumns = []string{
	"m.id", "m.from_user_id", "m.to_user_id", "fu.username", "tu.username",
	"m.content", "m.message_type", "m.attachment_key", "m.read_at", "m.created_at",
}

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

func (r *PostgresRepository) selectMessages() squirrel.SelectBuilder {
	return r.builder.Select(messageColumns...).
		From("messages m").
		Join("users fu ON fu.id = m.from_user_id").
		Join("users tu ON tu.id = m.to_user_id")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*models.Message, error) {
	var (
		m      models.Message
		key    sql.NullString
		readAt sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.FromUserID, &m.ToUserID, &m.FromUsername, &m.ToUsername,
		&m.Content, &m.Type, &key, &readAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.AttachmentKey = key.String
	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}
	return &m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (id, from_user_id, to_user_id, content, message_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, msg.ID, msg.FromUserID, msg.ToUserID, msg.Content, msg.Type).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msg, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Message, error) {
	stmt, args, err := r.selectMessages().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select message sql: %w", err)
	}

	m, err := scanMessage(r.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) ListUnread(ctx context.Context, userID string) ([]*models.Message, error) {
	stmt, args, err := r.selectMessages().
		Where(squirrel.Eq{"m.to_user_id": userID}).
		Where(squirrel.Eq{"m.read_at": nil}).
		OrderBy("m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unread sql: %w", err)
	}
	return r.list(ctx, stmt, args)
}

func (r *PostgresRepository) ListConversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	stmt, args, err := r.selectMessages().
		Where(squirrel.Or{
			squirrel.And{squirrel.Eq{"m.from_user_id": a}, squirrel.Eq{"m.to_user_id": b}},
			squirrel.And{squirrel.Eq{"m.from_user_id": b}, squirrel.Eq{"m.to_user_id": a}},
		}).
		Where(squirrel.Eq{"m.message_type": common.MessageTypeChat}).
		OrderBy("m.created_at ASC", "m.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build conversation sql: %w", err)
	}
	return r.list(ctx, stmt, args)
}

func (r *PostgresRepository) list(ctx context.Context, stmt string, args []any) ([]*models.Message, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `UPDATE messages SET read_at = $2 WHERE id = $1 AND read_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) SetAttachmentKey(ctx context.Context, id, key string) error {
	query := `UPDATE messages SET attachment_key = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

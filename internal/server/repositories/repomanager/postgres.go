// Package repomanager wires the PostgreSQL repositories together and applies
// the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/server/migrations"
	"github.com/dmitrijs2005/balance/internal/server/repositories/conversations"
	"github.com/dmitrijs2005/balance/internal/server/repositories/messages"
	"github.com/dmitrijs2005/balance/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/balance/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Conversations(db dbx.DBTX) conversations.Repository {
	return conversations.NewPostgresRepository(db)
}

// gooseUpContext is swapped in tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

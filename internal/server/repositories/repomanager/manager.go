package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/server/repositories/conversations"
	"github.com/dmitrijs2005/balance/internal/server/repositories/messages"
	"github.com/dmitrijs2005/balance/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/balance/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Messages(db dbx.DBTX) messages.Repository
	Conversations(db dbx.DBTX) conversations.Repository
}

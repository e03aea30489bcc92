package client

import (
	"context"

	"github.com/dmitrijs2005/balance/internal/client/models"
)

// Client is the CLI's view of the balance server. Implementations keep the
// current token pair and attach the access token to every call.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	// SetTokens installs a token pair restored from a saved session.
	SetTokens(accessToken, refreshToken string)
	Tokens() (accessToken, refreshToken string)
	// OnTokensRefreshed registers fn to be called whenever the pair is
	// rotated by a transparent refresh.
	OnTokensRefreshed(fn func(accessToken, refreshToken string))

	Register(ctx context.Context, username, password string) (*models.Session, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Refresh(ctx context.Context) (accessToken, refreshToken string, err error)
	Logout(ctx context.Context) error
	FindUser(ctx context.Context, username string) (*models.User, error)

	SendMessage(ctx context.Context, toUsername, content, msgType string) (*models.Message, error)
	UnreadMessages(ctx context.Context) ([]*models.Message, error)
	MarkRead(ctx context.Context, messageID string) error
	ChatHistory(ctx context.Context, peerUsername string) ([]*models.Message, error)
	FindAttachment(ctx context.Context, baseName, peerUsername string) (string, error)
	Conversations(ctx context.Context) ([]*models.Conversation, error)
	AttachmentURL(ctx context.Context, messageID string) (string, error)
}

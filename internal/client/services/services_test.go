package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/logging"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

var alice = &models.Session{UserID: "u-alice", Username: "alice", AccessToken: "a1", RefreshToken: "r1"}

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	client.Client

	access, refresh string
	onRefresh       func(a, r string)

	PingErr  error
	CloseErr error

	SessionRet *models.Session
	AuthErr    error
	LastUser   string
	LastPass   string

	RefreshAccess, RefreshRefresh string
	RefreshErr                    error
	RefreshCalls                  int

	LogoutErr   error
	LogoutCalls int

	FindUserRet *models.User
	FindUserErr error

	SendRet  *models.Message
	SendErr  error
	SentTo   string
	SentBody string
	SentType string

	UnreadRet []*models.Message
	UnreadErr error

	MarkReadErr error
	MarkedRead  []string

	HistoryRet []*models.Message
	HistoryErr error

	AttachmentRet  string
	AttachmentErr  error
	AttachmentArgs [2]string

	ConversationsRet []*models.Conversation
	ConversationsErr error

	URLRet string
	URLErr error
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) SetTokens(a, r string) { f.access, f.refresh = a, r }

func (f *fakeClient) Tokens() (string, string) { return f.access, f.refresh }

func (f *fakeClient) OnTokensRefreshed(fn func(a, r string)) { f.onRefresh = fn }

func (f *fakeClient) Register(ctx context.Context, username, password string) (*models.Session, error) {
	f.LastUser, f.LastPass = username, password
	return f.SessionRet, f.AuthErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	f.LastUser, f.LastPass = username, password
	return f.SessionRet, f.AuthErr
}

func (f *fakeClient) Refresh(ctx context.Context) (string, string, error) {
	f.RefreshCalls++
	if f.RefreshErr != nil {
		return "", "", f.RefreshErr
	}
	f.access, f.refresh = f.RefreshAccess, f.RefreshRefresh
	return f.RefreshAccess, f.RefreshRefresh, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.LogoutCalls++
	f.access, f.refresh = "", ""
	return f.LogoutErr
}

func (f *fakeClient) FindUser(ctx context.Context, username string) (*models.User, error) {
	f.LastUser = username
	return f.FindUserRet, f.FindUserErr
}

func (f *fakeClient) SendMessage(ctx context.Context, to, content, msgType string) (*models.Message, error) {
	f.SentTo, f.SentBody, f.SentType = to, content, msgType
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	if f.SendRet != nil {
		return f.SendRet, nil
	}
	return &models.Message{
		ID: "m-sent", FromUserID: alice.UserID, FromUsername: alice.Username,
		ToUsername: to, Content: content, Type: msgType, CreatedAt: time.Now(),
	}, nil
}

func (f *fakeClient) UnreadMessages(ctx context.Context) ([]*models.Message, error) {
	return f.UnreadRet, f.UnreadErr
}

func (f *fakeClient) MarkRead(ctx context.Context, id string) error {
	f.MarkedRead = append(f.MarkedRead, id)
	return f.MarkReadErr
}

func (f *fakeClient) ChatHistory(ctx context.Context, peer string) ([]*models.Message, error) {
	return f.HistoryRet, f.HistoryErr
}

func (f *fakeClient) FindAttachment(ctx context.Context, baseName, peer string) (string, error) {
	f.AttachmentArgs = [2]string{baseName, peer}
	return f.AttachmentRet, f.AttachmentErr
}

func (f *fakeClient) Conversations(ctx context.Context) ([]*models.Conversation, error) {
	return f.ConversationsRet, f.ConversationsErr
}

func (f *fakeClient) AttachmentURL(ctx context.Context, id string) (string, error) {
	return f.URLRet, f.URLErr
}

func incoming(id, from, content string, at time.Time) *models.Message {
	return &models.Message{
		ID: id, FromUserID: "u-" + from, ToUserID: alice.UserID,
		FromUsername: from, ToUsername: alice.Username,
		Content: content, Type: "chat", CreatedAt: at,
	}
}

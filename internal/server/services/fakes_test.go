package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/logging"
	"github.com/dmitrijs2005/balance/internal/server/models"
	"github.com/dmitrijs2005/balance/internal/server/repositories/conversations"
	"github.com/dmitrijs2005/balance/internal/server/repositories/messages"
	"github.com/dmitrijs2005/balance/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/balance/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger          { return n }

// memStore backs every fake repository. failOn makes the named method
// return the given error.
type memStore struct {
	users    map[string]*models.User
	tokens   map[string]*models.RefreshToken
	messages []*models.Message
	convs    map[string]*models.Conversation
	failOn   map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*models.User{},
		tokens: map[string]*models.RefreshToken{},
		convs:  map[string]*models.Conversation{},
		failOn: map[string]error{},
	}
}

func (m *memStore) addUser(id, username string) *models.User {
	u := &models.User{ID: id, Username: username, PasswordHash: "x", CreatedAt: time.Now()}
	m.users[id] = u
	return u
}

func (m *memStore) fail(method string) error { return m.failOn[method] }

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.fail("Users.Create"); err != nil {
		return nil, err
	}
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return nil, common.ErrDuplicateUsername
		}
	}
	u.ID = "id-" + u.Username
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := r.fail("Users.GetByUsername"); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := r.fail("Users.GetByID"); err != nil {
		return nil, err
	}
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	if err := r.fail("Users.TouchLastSeen"); err != nil {
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastSeenAt = &at
	return nil
}

type memTokens struct{ *memStore }

func (r memTokens) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	if err := r.fail("RefreshTokens.Create"); err != nil {
		return err
	}
	r.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: time.Now().Add(validity)}
	return nil
}

func (r memTokens) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if err := r.fail("RefreshTokens.Find"); err != nil {
		return nil, err
	}
	if t, ok := r.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (r memTokens) Delete(ctx context.Context, token string) error {
	if err := r.fail("RefreshTokens.Delete"); err != nil {
		return err
	}
	delete(r.tokens, token)
	return nil
}

func (r memTokens) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range r.tokens {
		if t.Expired(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

type memMessages struct{ *memStore }

func (r memMessages) withNames(m *models.Message) *models.Message {
	c := *m
	if u, ok := r.users[c.FromUserID]; ok {
		c.FromUsername = u.Username
	}
	if u, ok := r.users[c.ToUserID]; ok {
		c.ToUsername = u.Username
	}
	return &c
}

func (r memMessages) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	if err := r.fail("Messages.Create"); err != nil {
		return nil, err
	}
	m.CreatedAt = time.Date(2024, 1, 1, 0, 0, len(r.messages), 0, time.UTC)
	stored := *m
	r.messages = append(r.messages, &stored)
	return m, nil
}

func (r memMessages) Get(ctx context.Context, id string) (*models.Message, error) {
	if err := r.fail("Messages.Get"); err != nil {
		return nil, err
	}
	for _, m := range r.messages {
		if m.ID == id {
			return r.withNames(m), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memMessages) ListUnread(ctx context.Context, userID string) ([]*models.Message, error) {
	if err := r.fail("Messages.ListUnread"); err != nil {
		return nil, err
	}
	var out []*models.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		m := r.messages[i]
		if m.ToUserID == userID && m.ReadAt == nil {
			out = append(out, r.withNames(m))
		}
	}
	return out, nil
}

func (r memMessages) MarkRead(ctx context.Context, id string, at time.Time) (bool, error) {
	if err := r.fail("Messages.MarkRead"); err != nil {
		return false, err
	}
	for _, m := range r.messages {
		if m.ID == id && m.ReadAt == nil {
			m.ReadAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (r memMessages) ListConversation(ctx context.Context, a, b string) ([]*models.Message, error) {
	if err := r.fail("Messages.ListConversation"); err != nil {
		return nil, err
	}
	var out []*models.Message
	for _, m := range r.messages {
		if m.Type != common.MessageTypeChat {
			continue
		}
		if (m.FromUserID == a && m.ToUserID == b) || (m.FromUserID == b && m.ToUserID == a) {
			out = append(out, r.withNames(m))
		}
	}
	return out, nil
}

func (r memMessages) SetAttachmentKey(ctx context.Context, id, key string) error {
	if err := r.fail("Messages.SetAttachmentKey"); err != nil {
		return err
	}
	for _, m := range r.messages {
		if m.ID == id {
			m.AttachmentKey = key
		}
	}
	return nil
}

type memConversations struct{ *memStore }

func (r memConversations) Touch(ctx context.Context, c *models.Conversation) error {
	if err := r.fail("Conversations.Touch"); err != nil {
		return err
	}
	cc := *c
	r.convs[c.User1ID+"|"+c.User2ID] = &cc
	return nil
}

func (r memConversations) ListForUser(ctx context.Context, userID string) ([]*models.ConversationSummary, error) {
	if err := r.fail("Conversations.ListForUser"); err != nil {
		return nil, err
	}
	var out []*models.ConversationSummary
	for _, c := range r.convs {
		peer := ""
		switch userID {
		case c.User1ID:
			peer = c.User2ID
		case c.User2ID:
			peer = c.User1ID
		default:
			continue
		}
		out = append(out, &models.ConversationSummary{
			PeerID:        peer,
			PeerUsername:  r.users[peer].Username,
			LastMessage:   c.LastMessage,
			LastMessageAt: c.LastMessageAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out, nil
}

type memManager struct{ store *memStore }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository                 { return memUsers{m.store} }
func (m *memManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return memTokens{m.store} }
func (m *memManager) Messages(dbx.DBTX) messages.Repository           { return memMessages{m.store} }
func (m *memManager) Conversations(dbx.DBTX) conversations.Repository { return memConversations{m.store} }

// newTxDB returns a sqlmock database for dbx.WithTx; the fakes ignore the
// DBTX they are bound to, so only Begin/Commit/Rollback are expected.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessages(t *testing.T, fc *fakeClient) (*messageService, *historyService) {
	t.Helper()
	h := newHistory(t, fc)
	return NewMessageService(fc, h, nopLogger{}).(*messageService), h
}

func TestMessages_RequireSession(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	s, _ := newMessages(t, fc)

	_, err := s.Send(ctx, nil, "bob", "hi", "")
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
	_, err = s.Unread(ctx, nil)
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
	assert.ErrorIs(t, s.MarkRead(ctx, nil, "m1"), common.ErrNotLoggedIn)
	_, err = s.History(ctx, nil, "bob")
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
	_, err = s.FindAttachment(ctx, nil, "bob", "notes")
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
	_, err = s.FetchArchived(ctx, nil, "m1")
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)

	assert.Empty(t, fc.SentTo)
}

func TestMessages_SendValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newMessages(t, &fakeClient{})

	tests := []struct {
		name, to, body, typ string
	}{
		{"no recipient", " ", "hi", ""},
		{"empty body", "bob", "   ", ""},
		{"bad type", "bob", "hi", "fax"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Send(ctx, alice, tt.to, tt.body, tt.typ)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestMessages_SendTouchesHistory(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{}
	s, h := newMessages(t, fc)

	m, err := s.Send(ctx, alice, " Bob ", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", fc.SentTo)
	assert.Equal(t, common.MessageTypeChat, fc.SentType)
	assert.Equal(t, "m-sent", m.ID)

	recent, err := h.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "hello", recent[0].LastMessage)
	assert.Zero(t, recent[0].UnreadCount)

	stored, err := h.StoredMessages(ctx, "bob", 10)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestMessages_SendServerError(t *testing.T) {
	ctx := context.Background()
	s, h := newMessages(t, &fakeClient{SendErr: common.ErrRecipientNotFound})

	_, err := s.Send(ctx, alice, "ghost", "hi", "")
	require.ErrorIs(t, err, common.ErrRecipientNotFound)

	recent, err := h.Recent(ctx)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestMessages_UnreadCountsOnce(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := &fakeClient{UnreadRet: []*models.Message{
		incoming("m2", "bob", "second", at.Add(time.Minute)),
		incoming("m1", "bob", "first", at),
	}}
	s, h := newMessages(t, fc)

	msgs, err := s.Unread(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	_, err = s.Unread(ctx, alice)
	require.NoError(t, err)

	recent, err := h.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 2, recent[0].UnreadCount)
	assert.Equal(t, "second", recent[0].LastMessage)
}

func TestMessages_HistoryMarksRead(t *testing.T) {
	ctx := context.Background()
	at := time.Now()
	readAt := at
	own := &models.Message{ID: "m0", FromUserID: alice.UserID, ToUserID: "u-bob", FromUsername: "alice", ToUsername: "bob", Content: "yo", Type: "chat", CreatedAt: at}
	seen := incoming("m1", "bob", "seen", at)
	seen.ReadAt = &readAt
	fresh := incoming("m2", "bob", "fresh", at)

	fc := &fakeClient{UnreadRet: []*models.Message{fresh}, HistoryRet: []*models.Message{own, seen, fresh}}
	s, h := newMessages(t, fc)

	_, err := s.Unread(ctx, alice)
	require.NoError(t, err)

	msgs, err := s.History(ctx, alice, "BOB")
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, []string{"m2"}, fc.MarkedRead)

	recent, err := h.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Zero(t, recent[0].UnreadCount)

	stored, err := h.StoredMessages(ctx, "bob", 0)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestMessages_HistoryMarkReadFailureIgnored(t *testing.T) {
	fc := &fakeClient{
		HistoryRet:  []*models.Message{incoming("m1", "bob", "x", time.Now())},
		MarkReadErr: errors.New("boom"),
	}
	s, _ := newMessages(t, fc)

	msgs, err := s.History(context.Background(), alice, "bob")
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestMessages_MarkRead(t *testing.T) {
	fc := &fakeClient{}
	s, _ := newMessages(t, fc)

	require.ErrorIs(t, s.MarkRead(context.Background(), alice, ""), common.ErrValidation)
	require.NoError(t, s.MarkRead(context.Background(), alice, "m1"))
	assert.Equal(t, []string{"m1"}, fc.MarkedRead)
}

func TestMessages_FindAttachment(t *testing.T) {
	fc := &fakeClient{AttachmentRet: "ENVELOPE"}
	s, _ := newMessages(t, fc)

	_, err := s.FindAttachment(context.Background(), alice, "bob", "")
	require.ErrorIs(t, err, common.ErrValidation)

	env, err := s.FindAttachment(context.Background(), alice, "Bob", "notes")
	require.NoError(t, err)
	assert.Equal(t, "ENVELOPE", env)
	assert.Equal(t, [2]string{"notes", "bob"}, fc.AttachmentArgs)
}

func TestMessages_FetchArchived(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		s, _ := newMessages(t, &fakeClient{URLRet: "http://s3/obj"})
		var gotURL string
		s.download = func(ctx context.Context, url string) ([]byte, error) {
			gotURL = url
			return []byte("ENVELOPE"), nil
		}
		env, err := s.FetchArchived(ctx, alice, "m1")
		require.NoError(t, err)
		assert.Equal(t, "ENVELOPE", env)
		assert.Equal(t, "http://s3/obj", gotURL)
	})

	t.Run("url error", func(t *testing.T) {
		s, _ := newMessages(t, &fakeClient{URLErr: client.ErrUnavailable})
		_, err := s.FetchArchived(ctx, alice, "m1")
		assert.ErrorIs(t, err, client.ErrUnavailable)
	})

	t.Run("download error", func(t *testing.T) {
		s, _ := newMessages(t, &fakeClient{URLRet: "http://s3/obj"})
		s.download = func(ctx context.Context, url string) ([]byte, error) {
			return nil, errors.New("403")
		}
		_, err := s.FetchArchived(ctx, alice, "m1")
		assert.ErrorContains(t, err, "download error")
	})
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/client/repositories/chathistory"
	"github.com/dmitrijs2005/balance/internal/client/repositories/storedmessages"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/google/uuid"
)

const (
	// HistoryCapacity is the number of peers kept in the chat history.
	HistoryCapacity = 20
	// StoredMessagesCapacity is the size of the local message journal.
	StoredMessagesCapacity = 1000
)

// HistoryService maintains the recent-chats list and the local message
// journal. Both are caches: Rebuild restores the list from the server.
type HistoryService interface {
	Recent(ctx context.Context) ([]*models.ChatHistoryEntry, error)
	Touch(ctx context.Context, peer, text string, own bool) error
	MarkRead(ctx context.Context, peer string) error
	Clear(ctx context.Context) error
	Rebuild(ctx context.Context, sess *models.Session) error
	// StoreMessage journals m and reports whether it was not seen before.
	StoreMessage(ctx context.Context, sess *models.Session, m *models.Message) (bool, error)
	StoredMessages(ctx context.Context, peer string, limit int) ([]*models.StoredMessage, error)
}

type historyService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

func NewHistoryService(c client.Client, db *sql.DB) HistoryService {
	return &historyService{client: c, db: db, now: time.Now}
}

func (s *historyService) Recent(ctx context.Context) ([]*models.ChatHistoryEntry, error) {
	entries, err := chathistory.NewSQLiteRepository(s.db).Recent(ctx, HistoryCapacity)
	if err != nil {
		return nil, fmt.Errorf("error retrieving history: %w", err)
	}
	return entries, nil
}

// Touch moves peer to the front of the list with text as its last message.
// Incoming activity (own == false) bumps the unread counter.
func (s *historyService) Touch(ctx context.Context, peer, text string, own bool) error {
	peer = common.NormalizeUsername(peer)
	if peer == "" {
		return fmt.Errorf("%w: peer is required", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := chathistory.NewSQLiteRepository(tx)
		if err := repo.Upsert(ctx, uuid.NewString(), peer, models.Snippet(preview(text)), s.now(), own); err != nil {
			return fmt.Errorf("error updating history: %w", err)
		}
		if _, err := repo.Trim(ctx, HistoryCapacity); err != nil {
			return fmt.Errorf("error trimming history: %w", err)
		}
		return nil
	})
}

func (s *historyService) MarkRead(ctx context.Context, peer string) error {
	return chathistory.NewSQLiteRepository(s.db).MarkRead(ctx, common.NormalizeUsername(peer))
}

func (s *historyService) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := chathistory.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return storedmessages.NewSQLiteRepository(tx).Clear(ctx)
	})
}

// Rebuild replaces the list with the server's conversations, which arrive
// newest first. Unread counters start from zero.
func (s *historyService) Rebuild(ctx context.Context, sess *models.Session) error {
	if sess == nil {
		return common.ErrNotLoggedIn
	}

	convs, err := s.client.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("error retrieving conversations: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := chathistory.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		if len(convs) > HistoryCapacity {
			convs = convs[:HistoryCapacity]
		}
		// oldest first, so the newest conversation ends up in front
		for i := len(convs) - 1; i >= 0; i-- {
			c := convs[i]
			at := c.LastMessageAt
			if at.IsZero() {
				at = s.now()
			}
			if err := repo.Upsert(ctx, uuid.NewString(), common.NormalizeUsername(c.PeerUsername), models.Snippet(preview(c.LastMessage)), at, true); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *historyService) StoreMessage(ctx context.Context, sess *models.Session, m *models.Message) (bool, error) {
	if sess == nil {
		return false, common.ErrNotLoggedIn
	}

	var added bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storedmessages.NewSQLiteRepository(tx)
		var err error
		added, err = repo.Add(ctx, &models.StoredMessage{
			MessageID:    m.ID,
			PeerUsername: common.NormalizeUsername(m.Peer(sess.UserID)),
			FromUsername: m.FromUsername,
			Content:      m.Content,
			Type:         m.Type,
			CreatedAt:    m.CreatedAt,
			StoredAt:     s.now(),
		})
		if err != nil {
			return err
		}
		if !added {
			return nil
		}
		_, err = repo.Trim(ctx, StoredMessagesCapacity)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("error storing message: %w", err)
	}
	return added, nil
}

func (s *historyService) StoredMessages(ctx context.Context, peer string, limit int) ([]*models.StoredMessage, error) {
	if limit <= 0 || limit > StoredMessagesCapacity {
		limit = StoredMessagesCapacity
	}
	return storedmessages.NewSQLiteRepository(s.db).List(ctx, common.NormalizeUsername(peer), limit)
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/dbx"
	"github.com/dmitrijs2005/balance/internal/filex"
	"github.com/dmitrijs2005/balance/internal/logging"
	"github.com/dmitrijs2005/balance/internal/server/models"
	"github.com/dmitrijs2005/balance/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var newMessageID = uuid.NewString

// MessageService stores and retrieves direct messages. Every method takes
// the caller's user id, as verified from the access token.
type MessageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archive     Archive
	logger      logging.Logger
	now         func() time.Time
}

// NewMessageService builds the service. A nil archive disables attachment
// archiving and AttachmentURL.
func NewMessageService(db *sql.DB, m repomanager.RepositoryManager, archive Archive, l logging.Logger) *MessageService {
	return &MessageService{
		db:          db,
		repomanager: m,
		archive:     archive,
		logger:      l.With("module", "message_service"),
		now:         time.Now,
	}
}

func internal(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}

func normalizeType(t string) (string, error) {
	switch t {
	case "":
		return common.MessageTypeChat, nil
	case common.MessageTypeChat, common.MessageTypeMail:
		return t, nil
	default:
		return "", fmt.Errorf("%w: invalid message type %q", common.ErrValidation, t)
	}
}

// preview is what the conversation list shows for a message.
func preview(content string) string {
	if name, _, err := codec.ParseAttachment(content); err == nil {
		return "[FILE: " + name + "]"
	}
	return content
}

// Send stores a message from fromUserID to toUsername. Chat messages also
// move the pair's conversation forward. Attachments are copied to the
// archive after the message is committed; an archive failure is logged and
// does not fail the send.
func (s *MessageService) Send(ctx context.Context, fromUserID, toUsername, content, msgType string) (*models.Message, error) {
	if fromUserID == "" {
		return nil, common.ErrNotLoggedIn
	}
	msgType, err := normalizeType(msgType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message is empty", common.ErrValidation)
	}

	to, err := s.repomanager.Users(s.db).GetByUsername(ctx, common.NormalizeUsername(toUsername))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRecipientNotFound
		}
		return nil, internal(err)
	}

	msg := &models.Message{
		ID:         newMessageID(),
		FromUserID: fromUserID,
		ToUserID:   to.ID,
		ToUsername: to.Username,
		Content:    content,
		Type:       msgType,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Messages(tx).Create(ctx, msg); err != nil {
			return err
		}
		if msgType != common.MessageTypeChat {
			return nil
		}
		return s.repomanager.Conversations(tx).Touch(ctx,
			models.NewConversation(fromUserID, to.ID, preview(content), msg.CreatedAt))
	})
	if err != nil {
		return nil, internal(err)
	}

	s.archiveAttachment(ctx, msg)

	return msg, nil
}

func (s *MessageService) archiveAttachment(ctx context.Context, msg *models.Message) {
	if s.archive == nil {
		return
	}
	name, body, err := codec.ParseAttachment(msg.Content)
	if err != nil {
		return
	}

	key := AttachmentKey(msg.CreatedAt, msg.ID, name)
	if err := s.archive.Put(ctx, key, []byte(body)); err != nil {
		s.logger.Warn(ctx, "attachment archive failed", "message_id", msg.ID, "error", err)
		return
	}
	if err := s.repomanager.Messages(s.db).SetAttachmentKey(ctx, msg.ID, key); err != nil {
		s.logger.Warn(ctx, "attachment key not saved", "message_id", msg.ID, "error", err)
		return
	}
	msg.AttachmentKey = key
}

// UnreadFor returns unread messages addressed to userID, newest first.
func (s *MessageService) UnreadFor(ctx context.Context, userID string) ([]*models.Message, error) {
	if userID == "" {
		return nil, common.ErrNotLoggedIn
	}
	msgs, err := s.repomanager.Messages(s.db).ListUnread(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return msgs, nil
}

// MarkRead records that userID read messageID. Only the recipient may mark
// a message; anything else is reported as not found. Marking twice keeps
// the first read_at.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	if userID == "" {
		return common.ErrNotLoggedIn
	}

	repo := s.repomanager.Messages(s.db)
	msg, err := repo.Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return internal(err)
	}
	if msg.ToUserID != userID {
		return common.ErrorNotFound
	}
	if msg.ReadAt != nil {
		return nil
	}

	if _, err := repo.MarkRead(ctx, messageID, s.now()); err != nil {
		return internal(err)
	}
	return nil
}

// HistoryBetween returns the chat messages between userID and peerUsername
// in both directions, oldest first.
func (s *MessageService) HistoryBetween(ctx context.Context, userID, peerUsername string) ([]*models.Message, error) {
	if userID == "" {
		return nil, common.ErrNotLoggedIn
	}

	peer, err := s.repomanager.Users(s.db).GetByUsername(ctx, common.NormalizeUsername(peerUsername))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internal(err)
	}

	msgs, err := s.repomanager.Messages(s.db).ListConversation(ctx, userID, peer.ID)
	if err != nil {
		return nil, internal(err)
	}
	return msgs, nil
}

// FindAttachmentByName returns the newest attachment exchanged with
// peerUsername whose file name, without extension, is baseName. A baseName
// that carries the full file name matches as well.
func (s *MessageService) FindAttachmentByName(ctx context.Context, userID, baseName, peerUsername string) (*models.Message, error) {
	if strings.TrimSpace(baseName) == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	}

	msgs, err := s.HistoryBetween(ctx, userID, peerUsername)
	if err != nil {
		return nil, err
	}

	for i := len(msgs) - 1; i >= 0; i-- {
		name, _, err := codec.ParseAttachment(msgs[i].Content)
		if err != nil {
			continue
		}
		if filex.StripExt(name) == baseName || name == baseName {
			return msgs[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *MessageService) Conversations(ctx context.Context, userID string) ([]*models.ConversationSummary, error) {
	if userID == "" {
		return nil, common.ErrNotLoggedIn
	}
	list, err := s.repomanager.Conversations(s.db).ListForUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

// AttachmentURL returns a presigned download link for the archived copy of
// an attachment. Only the sender and the recipient may ask for it.
func (s *MessageService) AttachmentURL(ctx context.Context, userID, messageID string) (string, error) {
	if userID == "" {
		return "", common.ErrNotLoggedIn
	}
	if s.archive == nil {
		return "", fmt.Errorf("%w: attachment archive is disabled", common.ErrValidation)
	}

	msg, err := s.repomanager.Messages(s.db).Get(ctx, messageID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", internal(err)
	}
	if msg.FromUserID != userID && msg.ToUserID != userID {
		return "", common.ErrorNotFound
	}
	if msg.AttachmentKey == "" {
		return "", common.ErrorNotFound
	}

	url, err := s.archive.PresignGet(ctx, msg.AttachmentKey)
	if err != nil {
		return "", internal(err)
	}
	return url, nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/logging"
	"github.com/dmitrijs2005/balance/internal/netx"
)

// MessageService sends and reads direct messages. Every call requires a
// session and mirrors the activity into the chat history.
type MessageService interface {
	Send(ctx context.Context, sess *models.Session, to, content, msgType string) (*models.Message, error)
	Unread(ctx context.Context, sess *models.Session) ([]*models.Message, error)
	MarkRead(ctx context.Context, sess *models.Session, messageID string) error
	// History returns the chat with peer, oldest first, and marks the
	// incoming unread messages as read.
	History(ctx context.Context, sess *models.Session, peer string) ([]*models.Message, error)
	// FindAttachment returns the envelope of the newest attachment named
	// baseName in the chat with peer.
	FindAttachment(ctx context.Context, sess *models.Session, peer, baseName string) (string, error)
	// FetchArchived downloads the archived envelope of an attachment
	// message.
	FetchArchived(ctx context.Context, sess *models.Session, messageID string) (string, error)
}

type messageService struct {
	client   client.Client
	history  HistoryService
	logger   logging.Logger
	download func(ctx context.Context, url string) ([]byte, error)
}

func NewMessageService(c client.Client, h HistoryService, l logging.Logger) MessageService {
	return &messageService{
		client:   c,
		history:  h,
		logger:   l.With("module", "message_service"),
		download: netx.DownloadFromPresignedURL,
	}
}

func (s *messageService) Send(ctx context.Context, sess *models.Session, to, content, msgType string) (*models.Message, error) {
	if sess == nil {
		return nil, common.ErrNotLoggedIn
	}

	to = common.NormalizeUsername(to)
	if to == "" {
		return nil, fmt.Errorf("%w: recipient is required", common.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message is empty", common.ErrValidation)
	}
	if msgType == "" {
		msgType = common.MessageTypeChat
	}
	if msgType != common.MessageTypeChat && msgType != common.MessageTypeMail {
		return nil, fmt.Errorf("%w: unknown message type %q", common.ErrValidation, msgType)
	}

	m, err := s.client.SendMessage(ctx, to, content, msgType)
	if err != nil {
		return nil, err
	}

	if err := s.history.Touch(ctx, to, content, true); err != nil {
		s.logger.Warn(ctx, "history not updated", "peer", to, "error", err)
	}
	s.store(ctx, sess, m)
	return m, nil
}

// Unread returns the unread inbox. Messages seen for the first time bump
// the sender's unread counter in the history.
func (s *messageService) Unread(ctx context.Context, sess *models.Session) ([]*models.Message, error) {
	if sess == nil {
		return nil, common.ErrNotLoggedIn
	}

	msgs, err := s.client.UnreadMessages(ctx)
	if err != nil {
		return nil, err
	}

	// oldest first, so the newest message ends up as the snippet
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		if !s.store(ctx, sess, m) {
			continue
		}
		if err := s.history.Touch(ctx, m.FromUsername, m.Content, false); err != nil {
			s.logger.Warn(ctx, "history not updated", "peer", m.FromUsername, "error", err)
		}
	}
	return msgs, nil
}

func (s *messageService) MarkRead(ctx context.Context, sess *models.Session, messageID string) error {
	if sess == nil {
		return common.ErrNotLoggedIn
	}
	if strings.TrimSpace(messageID) == "" {
		return fmt.Errorf("%w: message id is required", common.ErrValidation)
	}
	return s.client.MarkRead(ctx, messageID)
}

func (s *messageService) History(ctx context.Context, sess *models.Session, peer string) ([]*models.Message, error) {
	if sess == nil {
		return nil, common.ErrNotLoggedIn
	}
	peer = common.NormalizeUsername(peer)
	if peer == "" {
		return nil, fmt.Errorf("%w: peer is required", common.ErrValidation)
	}

	msgs, err := s.client.ChatHistory(ctx, peer)
	if err != nil {
		return nil, err
	}

	for _, m := range msgs {
		if m.ToUserID == sess.UserID && m.ReadAt == nil {
			if err := s.client.MarkRead(ctx, m.ID); err != nil {
				s.logger.Warn(ctx, "message not marked read", "message_id", m.ID, "error", err)
			}
		}
		s.store(ctx, sess, m)
	}

	if err := s.history.MarkRead(ctx, peer); err != nil {
		s.logger.Warn(ctx, "history not marked read", "peer", peer, "error", err)
	}
	return msgs, nil
}

func (s *messageService) FindAttachment(ctx context.Context, sess *models.Session, peer, baseName string) (string, error) {
	if sess == nil {
		return "", common.ErrNotLoggedIn
	}
	peer = common.NormalizeUsername(peer)
	baseName = strings.TrimSpace(baseName)
	if peer == "" || baseName == "" {
		return "", fmt.Errorf("%w: peer and file name are required", common.ErrValidation)
	}
	return s.client.FindAttachment(ctx, baseName, peer)
}

func (s *messageService) FetchArchived(ctx context.Context, sess *models.Session, messageID string) (string, error) {
	if sess == nil {
		return "", common.ErrNotLoggedIn
	}
	if strings.TrimSpace(messageID) == "" {
		return "", fmt.Errorf("%w: message id is required", common.ErrValidation)
	}

	url, err := s.client.AttachmentURL(ctx, messageID)
	if err != nil {
		return "", err
	}
	data, err := s.download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download error: %w", err)
	}
	return string(data), nil
}

// store journals m and reports whether it was new. Journal failures are
// logged and treated as "already seen" so history is not double-counted.
func (s *messageService) store(ctx context.Context, sess *models.Session, m *models.Message) bool {
	added, err := s.history.StoreMessage(ctx, sess, m)
	if err != nil {
		s.logger.Warn(ctx, "message not journaled", "message_id", m.ID, "error", err)
		return false
	}
	return added
}

// preview is the history snippet source for a message body: attachments
// show their file name instead of the envelope.
func preview(content string) string {
	if name, _, err := codec.ParseAttachment(content); err == nil {
		return "[FILE: " + name + "]"
	}
	return content
}

package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/rpc"
	"github.com/dmitrijs2005/balance/internal/server/models"
	"github.com/dmitrijs2005/balance/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fail converts err to a status. The cause of internal errors is logged
// here because it is not sent to the client.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", method, "error", err.Error())
	}
	return st
}

func toRPCUser(u *models.User) rpc.User {
	return rpc.User{
		ID:         u.ID,
		Username:   u.Username,
		CreatedAt:  u.CreatedAt,
		LastSeenAt: u.LastSeenAt,
	}
}

func toRPCMessage(m *models.Message) *rpc.Message {
	return &rpc.Message{
		ID:           m.ID,
		FromUserID:   m.FromUserID,
		ToUserID:     m.ToUserID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Content:      m.Content,
		Type:         m.Type,
		ReadAt:       m.ReadAt,
		CreatedAt:    m.CreatedAt,
	}
}

func toRPCMessages(list []*models.Message) []*rpc.Message {
	res := make([]*rpc.Message, 0, len(list))
	for _, m := range list {
		res = append(res, toRPCMessage(m))
	}
	return res
}

func authResponse(u *models.User, tp *services.TokenPair) *rpc.AuthResponse {
	return &rpc.AuthResponse{
		User:         toRPCUser(u),
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
	}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "ok"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.AuthResponse, error) {
	u, tp, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "Register", err)
	}
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return authResponse(u, tp), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.AuthResponse, error) {
	u, tp, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "Login", err)
	}
	return authResponse(u, tp), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.RefreshTokenResponse, error) {
	tp, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "RefreshToken", err)
	}
	return &rpc.RefreshTokenResponse{AccessToken: tp.AccessToken, RefreshToken: tp.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *rpc.LogoutRequest) (*rpc.Empty, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, "Logout", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) FindUser(ctx context.Context, req *rpc.FindUserRequest) (*rpc.FindUserResponse, error) {
	u, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, s.fail(ctx, "FindUser", err)
	}
	return &rpc.FindUserResponse{User: toRPCUser(u)}, nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *rpc.SendMessageRequest) (*rpc.SendMessageResponse, error) {
	msg, err := s.messages.Send(ctx, callerID(ctx), req.ToUsername, req.Content, req.Type)
	if err != nil {
		return nil, s.fail(ctx, "SendMessage", err)
	}
	if msg.FromUsername == "" {
		msg.FromUsername = callerName(ctx)
	}
	return &rpc.SendMessageResponse{Message: *toRPCMessage(msg)}, nil
}

func (s *GRPCServer) UnreadMessages(ctx context.Context, _ *rpc.Empty) (*rpc.MessagesResponse, error) {
	list, err := s.messages.UnreadFor(ctx, callerID(ctx))
	if err != nil {
		return nil, s.fail(ctx, "UnreadMessages", err)
	}
	return &rpc.MessagesResponse{Messages: toRPCMessages(list)}, nil
}

func (s *GRPCServer) MarkRead(ctx context.Context, req *rpc.MarkReadRequest) (*rpc.Empty, error) {
	if err := s.messages.MarkRead(ctx, callerID(ctx), req.MessageID); err != nil {
		return nil, s.fail(ctx, "MarkRead", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ChatHistory(ctx context.Context, req *rpc.ChatHistoryRequest) (*rpc.MessagesResponse, error) {
	list, err := s.messages.HistoryBetween(ctx, callerID(ctx), req.PeerUsername)
	if err != nil {
		return nil, s.fail(ctx, "ChatHistory", err)
	}
	return &rpc.MessagesResponse{Messages: toRPCMessages(list)}, nil
}

// FindAttachment returns the envelope of the newest matching attachment
// without its "[FILE: name]" header line.
func (s *GRPCServer) FindAttachment(ctx context.Context, req *rpc.FindAttachmentRequest) (*rpc.FindAttachmentResponse, error) {
	msg, err := s.messages.FindAttachmentByName(ctx, callerID(ctx), req.BaseName, req.PeerUsername)
	if err != nil {
		return nil, s.fail(ctx, "FindAttachment", err)
	}
	_, body, err := codec.ParseAttachment(msg.Content)
	if err != nil {
		return nil, s.fail(ctx, "FindAttachment", common.ErrorNotFound)
	}
	return &rpc.FindAttachmentResponse{MessageID: msg.ID, Content: body}, nil
}

func (s *GRPCServer) Conversations(ctx context.Context, _ *rpc.Empty) (*rpc.ConversationsResponse, error) {
	list, err := s.messages.Conversations(ctx, callerID(ctx))
	if err != nil {
		return nil, s.fail(ctx, "Conversations", err)
	}

	res := make([]*rpc.Conversation, 0, len(list))
	for _, c := range list {
		item := &rpc.Conversation{PeerUsername: c.PeerUsername, LastMessage: c.LastMessage}
		if !c.LastMessageAt.IsZero() {
			at := c.LastMessageAt.In(time.UTC)
			item.LastMessageAt = &at
		}
		res = append(res, item)
	}
	return &rpc.ConversationsResponse{Conversations: res}, nil
}

func (s *GRPCServer) AttachmentURL(ctx context.Context, req *rpc.AttachmentURLRequest) (*rpc.AttachmentURLResponse, error) {
	url, err := s.messages.AttachmentURL(ctx, callerID(ctx), req.MessageID)
	if err != nil {
		return nil, s.fail(ctx, "AttachmentURL", err)
	}
	return &rpc.AttachmentURLResponse{URL: url}, nil
}

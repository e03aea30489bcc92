package client

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/balance/internal/client/models"
	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.BalanceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRefresh    func(accessToken, refreshToken string)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token. When the server answers
// "token expired" it refreshes the pair once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.Tokens()

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" || method == rpc.FullMethod("RefreshToken") {
		return err
	}

	resp, err := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	s.storeRefreshed(resp.AccessToken, resp.RefreshToken)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewBalanceClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewBalanceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = accessToken, refreshToken
}

func (s *GRPCClient) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) OnTokensRefreshed(fn func(accessToken, refreshToken string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

func (s *GRPCClient) storeRefreshed(accessToken, refreshToken string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = accessToken, refreshToken
	fn := s.onRefresh
	s.mu.Unlock()

	if fn != nil {
		fn(accessToken, refreshToken)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if !strings.EqualFold(resp.Status, "ok") {
		return ErrUnavailable
	}
	return nil
}

func toUser(u rpc.User) *models.User {
	return &models.User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt, LastSeenAt: u.LastSeenAt}
}

func toMessage(m *rpc.Message) *models.Message {
	return &models.Message{
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

func toMessages(list []*rpc.Message) []*models.Message {
	res := make([]*models.Message, 0, len(list))
	for _, m := range list {
		res = append(res, toMessage(m))
	}
	return res
}

func (s *GRPCClient) session(resp *rpc.AuthResponse) *models.Session {
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return &models.Session{
		UserID:       resp.User.ID,
		Username:     resp.User.Username,
		CreatedAt:    resp.User.CreatedAt,
		LastSeenAt:   resp.User.LastSeenAt,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) (*models.Session, error) {
	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return s.session(resp), nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (*models.Session, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return s.session(resp), nil
}

// Refresh exchanges the current refresh token for a new pair.
func (s *GRPCClient) Refresh(ctx context.Context) (string, string, error) {
	_, refreshToken := s.Tokens()
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	resp, err := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", "", mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return resp.AccessToken, resp.RefreshToken, nil
}

// Logout revokes the refresh token on the server and forgets the pair.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refreshToken := s.Tokens()
	defer s.SetTokens("", "")

	if refreshToken == "" {
		return nil
	}
	if _, err := s.client.Logout(ctx, &rpc.LogoutRequest{RefreshToken: refreshToken}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCClient) FindUser(ctx context.Context, username string) (*models.User, error) {
	resp, err := s.client.FindUser(ctx, &rpc.FindUserRequest{Username: username})
	if err != nil {
		return nil, mapError(err)
	}
	return toUser(resp.User), nil
}

func (s *GRPCClient) SendMessage(ctx context.Context, toUsername, content, msgType string) (*models.Message, error) {
	resp, err := s.client.SendMessage(ctx, &rpc.SendMessageRequest{ToUsername: toUsername, Content: content, Type: msgType})
	if err != nil {
		return nil, mapError(err)
	}
	return toMessage(&resp.Message), nil
}

func (s *GRPCClient) UnreadMessages(ctx context.Context) ([]*models.Message, error) {
	resp, err := s.client.UnreadMessages(ctx, &rpc.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return toMessages(resp.Messages), nil
}

func (s *GRPCClient) MarkRead(ctx context.Context, messageID string) error {
	if _, err := s.client.MarkRead(ctx, &rpc.MarkReadRequest{MessageID: messageID}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCClient) ChatHistory(ctx context.Context, peerUsername string) ([]*models.Message, error) {
	resp, err := s.client.ChatHistory(ctx, &rpc.ChatHistoryRequest{PeerUsername: peerUsername})
	if err != nil {
		return nil, mapError(err)
	}
	return toMessages(resp.Messages), nil
}

// FindAttachment returns the envelope of the newest attachment named
// baseName exchanged with peerUsername.
func (s *GRPCClient) FindAttachment(ctx context.Context, baseName, peerUsername string) (string, error) {
	resp, err := s.client.FindAttachment(ctx, &rpc.FindAttachmentRequest{BaseName: baseName, PeerUsername: peerUsername})
	if err != nil {
		return "", mapError(err)
	}
	return resp.Content, nil
}

func (s *GRPCClient) Conversations(ctx context.Context) ([]*models.Conversation, error) {
	resp, err := s.client.Conversations(ctx, &rpc.Empty{})
	if err != nil {
		return nil, mapError(err)
	}

	res := make([]*models.Conversation, 0, len(resp.Conversations))
	for _, c := range resp.Conversations {
		item := &models.Conversation{PeerUsername: c.PeerUsername, LastMessage: c.LastMessage}
		if c.LastMessageAt != nil {
			item.LastMessageAt = *c.LastMessageAt
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *GRPCClient) AttachmentURL(ctx context.Context, messageID string) (string, error) {
	resp, err := s.client.AttachmentURL(ctx, &rpc.AttachmentURLRequest{MessageID: messageID})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}

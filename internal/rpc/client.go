package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// BalanceClient is the typed client for BalanceServer.
type BalanceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error)
	FindUser(ctx context.Context, in *FindUserRequest, opts ...grpc.CallOption) (*FindUserResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error)
	UnreadMessages(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MessagesResponse, error)
	MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*Empty, error)
	ChatHistory(ctx context.Context, in *ChatHistoryRequest, opts ...grpc.CallOption) (*MessagesResponse, error)
	FindAttachment(ctx context.Context, in *FindAttachmentRequest, opts ...grpc.CallOption) (*FindAttachmentResponse, error)
	Conversations(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ConversationsResponse, error)
	AttachmentURL(ctx context.Context, in *AttachmentURLRequest, opts ...grpc.CallOption) (*AttachmentURLResponse, error)
}

type balanceClient struct {
	cc grpc.ClientConnInterface
}

func NewBalanceClient(cc grpc.ClientConnInterface) BalanceClient {
	return &balanceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *balanceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *balanceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Register", in, opts)
}

func (c *balanceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Login", in, opts)
}

func (c *balanceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, "RefreshToken", in, opts)
}

func (c *balanceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "Logout", in, opts)
}

func (c *balanceClient) FindUser(ctx context.Context, in *FindUserRequest, opts ...grpc.CallOption) (*FindUserResponse, error) {
	return invoke[FindUserResponse](ctx, c.cc, "FindUser", in, opts)
}

func (c *balanceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, "SendMessage", in, opts)
}

func (c *balanceClient) UnreadMessages(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, "UnreadMessages", in, opts)
}

func (c *balanceClient) MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "MarkRead", in, opts)
}

func (c *balanceClient) ChatHistory(ctx context.Context, in *ChatHistoryRequest, opts ...grpc.CallOption) (*MessagesResponse, error) {
	return invoke[MessagesResponse](ctx, c.cc, "ChatHistory", in, opts)
}

func (c *balanceClient) FindAttachment(ctx context.Context, in *FindAttachmentRequest, opts ...grpc.CallOption) (*FindAttachmentResponse, error) {
	return invoke[FindAttachmentResponse](ctx, c.cc, "FindAttachment", in, opts)
}

func (c *balanceClient) Conversations(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ConversationsResponse, error) {
	return invoke[ConversationsResponse](ctx, c.cc, "Conversations", in, opts)
}

func (c *balanceClient) AttachmentURL(ctx context.Context, in *AttachmentURLRequest, opts ...grpc.CallOption) (*AttachmentURLResponse, error) {
	return invoke[AttachmentURLResponse](ctx, c.cc, "AttachmentURL", in, opts)
}

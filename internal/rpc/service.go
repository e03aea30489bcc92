package rpc

import (
	"context"
	_ "embed"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "balance.v1.Balance"

// Proto is the service contract in protobuf IDL.
//
//go:embed balance.proto
var Proto string

// FullMethod returns the gRPC method path, e.g. "/balance.v1.Balance/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// BalanceServer is implemented by the server transport.
type BalanceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	FindUser(context.Context, *FindUserRequest) (*FindUserResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	UnreadMessages(context.Context, *Empty) (*MessagesResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*Empty, error)
	ChatHistory(context.Context, *ChatHistoryRequest) (*MessagesResponse, error)
	FindAttachment(context.Context, *FindAttachmentRequest) (*FindAttachmentResponse, error)
	Conversations(context.Context, *Empty) (*ConversationsResponse, error)
	AttachmentURL(context.Context, *AttachmentURLRequest) (*AttachmentURLResponse, error)
}

// UnimplementedBalanceServer answers every method with codes.Unimplemented.
// Embed it to stay compatible when methods are added.
type UnimplementedBalanceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedBalanceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedBalanceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, unimplemented("Register")
}
func (UnimplementedBalanceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedBalanceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedBalanceServer) Logout(context.Context, *LogoutRequest) (*Empty, error) {
	return nil, unimplemented("Logout")
}
func (UnimplementedBalanceServer) FindUser(context.Context, *FindUserRequest) (*FindUserResponse, error) {
	return nil, unimplemented("FindUser")
}
func (UnimplementedBalanceServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, unimplemented("SendMessage")
}
func (UnimplementedBalanceServer) UnreadMessages(context.Context, *Empty) (*MessagesResponse, error) {
	return nil, unimplemented("UnreadMessages")
}
func (UnimplementedBalanceServer) MarkRead(context.Context, *MarkReadRequest) (*Empty, error) {
	return nil, unimplemented("MarkRead")
}
func (UnimplementedBalanceServer) ChatHistory(context.Context, *ChatHistoryRequest) (*MessagesResponse, error) {
	return nil, unimplemented("ChatHistory")
}
func (UnimplementedBalanceServer) FindAttachment(context.Context, *FindAttachmentRequest) (*FindAttachmentResponse, error) {
	return nil, unimplemented("FindAttachment")
}
func (UnimplementedBalanceServer) Conversations(context.Context, *Empty) (*ConversationsResponse, error) {
	return nil, unimplemented("Conversations")
}
func (UnimplementedBalanceServer) AttachmentURL(context.Context, *AttachmentURLRequest) (*AttachmentURLResponse, error) {
	return nil, unimplemented("AttachmentURL")
}

// unary adapts a typed server method to a grpc.MethodDesc, running it
// through the server's interceptor chain when one is installed.
func unary[Req, Resp any](method string, call func(BalanceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(BalanceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for BalanceServer.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BalanceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", BalanceServer.Ping),
		unary("Register", BalanceServer.Register),
		unary("Login", BalanceServer.Login),
		unary("RefreshToken", BalanceServer.RefreshToken),
		unary("Logout", BalanceServer.Logout),
		unary("FindUser", BalanceServer.FindUser),
		unary("SendMessage", BalanceServer.SendMessage),
		unary("UnreadMessages", BalanceServer.UnreadMessages),
		unary("MarkRead", BalanceServer.MarkRead),
		unary("ChatHistory", BalanceServer.ChatHistory),
		unary("FindAttachment", BalanceServer.FindAttachment),
		unary("Conversations", BalanceServer.Conversations),
		unary("AttachmentURL", BalanceServer.AttachmentURL),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "balance.proto",
}

// RegisterBalanceServer registers srv on s.
func RegisterBalanceServer(s grpc.ServiceRegistrar, srv BalanceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Package grpc exposes the user directory and message store over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/balance/internal/logging"
	"github.com/dmitrijs2005/balance/internal/rpc"
	"github.com/dmitrijs2005/balance/internal/server/models"
	"github.com/dmitrijs2005/balance/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, username, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, username, password string) (*models.User, *services.TokenPair, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type messageSvc interface {
	Send(ctx context.Context, fromUserID, toUsername, content, msgType string) (*models.Message, error)
	UnreadFor(ctx context.Context, userID string) ([]*models.Message, error)
	MarkRead(ctx context.Context, userID, messageID string) error
	HistoryBetween(ctx context.Context, userID, peerUsername string) ([]*models.Message, error)
	FindAttachmentByName(ctx context.Context, userID, baseName, peerUsername string) (*models.Message, error)
	Conversations(ctx context.Context, userID string) ([]*models.ConversationSummary, error)
	AttachmentURL(ctx context.Context, userID, messageID string) (string, error)
}

type GRPCServer struct {
	rpc.UnimplementedBalanceServer
	address   string
	users     userSvc
	messages  messageSvc
	logger    logging.Logger
	jwtSecret []byte
	metrics   *Metrics
}

// NewGRPCServer builds the transport. metrics may be nil.
func NewGRPCServer(a string, l logging.Logger, us userSvc, ms messageSvc, secretKey string, metrics *Metrics) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		messages:  ms,
		jwtSecret: []byte(secretKey),
		metrics:   metrics,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metrics.UnaryServerInterceptor(),
		s.loggingInterceptor,
		s.accessTokenInterceptor,
	))
	rpc.RegisterBalanceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

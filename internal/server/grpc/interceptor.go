package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/rpc"
	"github.com/dmitrijs2005/balance/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userIDKey   ctxKey = "userID"
	usernameKey ctxKey = "username"
)

// publicMethods can be called without an access token.
var publicMethods = map[string]struct{}{
	rpc.FullMethod("Ping"):         {},
	rpc.FullMethod("Register"):     {},
	rpc.FullMethod("Login"):        {},
	rpc.FullMethod("RefreshToken"): {},
}

func withCaller(ctx context.Context, userID, username string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, usernameKey, username)
}

// callerID returns the user id placed in ctx by accessTokenInterceptor.
func callerID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func callerName(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(withCaller(ctx, claims.UserID, claims.Username), req)
}

// loggingInterceptor logs every call with its status code and duration.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}

	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "rpc", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "rpc failed", args...)
	default:
		s.logger.Info(ctx, "rpc rejected", args...)
	}
	return resp, err
}

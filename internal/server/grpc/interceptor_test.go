package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/balance/internal/common"
	"github.com/dmitrijs2005/balance/internal/rpc"
	"github.com/dmitrijs2005/balance/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(secret string) *GRPCServer {
	return &GRPCServer{
		logger:    nopLogger{},
		jwtSecret: []byte(secret),
	}
}

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func TestInterceptor_PublicMethodsSkipAuth(t *testing.T) {
	s := newTestServer("secret")

	for _, m := range []string{"Ping", "Register", "Login", "RefreshToken"} {
		called := false
		h := func(ctx context.Context, req any) (any, error) {
			called = true
			return "ok", nil
		}

		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod(m)}, h)
		require.NoError(t, err, m)
		assert.True(t, called, m)
		assert.Equal(t, "ok", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("SendMessage")}, h)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "missing token", st.Message())
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	token, err := auth.GenerateToken("u1", "alice", []byte("other"), time.Minute)
	require.NoError(t, err)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called with invalid token")
		return nil, nil
	}

	_, err = s.accessTokenInterceptor(withToken(token), nil, &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("FindUser")}, h)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "invalid token", st.Message())
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer("secret")

	token, err := auth.GenerateToken("u1", "alice", []byte("secret"), -time.Minute)
	require.NoError(t, err)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called with expired token")
		return nil, nil
	}

	_, err = s.accessTokenInterceptor(withToken(token), nil, &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("Conversations")}, h)
	st, _ := status.FromError(err)
	assert.Equal(t, codes.Unauthenticated, st.Code())
	assert.Equal(t, "token expired", st.Message())
}

func TestInterceptor_ValidTokenPutsCallerInContext(t *testing.T) {
	s := newTestServer("secret")

	token, err := auth.GenerateToken("u1", "alice", []byte("secret"), time.Minute)
	require.NoError(t, err)

	var gotID, gotName string
	h := func(ctx context.Context, req any) (any, error) {
		gotID = callerID(ctx)
		gotName = callerName(ctx)
		return "ok", nil
	}

	_, err = s.accessTokenInterceptor(withToken(token), nil, &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("UnreadMessages")}, h)
	require.NoError(t, err)
	assert.Equal(t, "u1", gotID)
	assert.Equal(t, "alice", gotName)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: rpc.FullMethod("Ping")}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	want := status.Error(codes.Internal, "internal error")
	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, want
	})
	assert.Equal(t, want, err)
}

func TestCallerID_Empty(t *testing.T) {
	assert.Equal(t, "", callerID(context.Background()))
	assert.Equal(t, "", callerName(context.Background()))
}

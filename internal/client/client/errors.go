package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/balance/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// sentinels are matched against the status message sent by the server.
var sentinels = []error{
	common.ErrorNotFound,
	common.ErrRecipientNotFound,
	common.ErrDuplicateUsername,
	common.ErrBadPassword,
	common.ErrNotLoggedIn,
	common.ErrInvalidToken,
	common.ErrTokenExpired,
	common.ErrRefreshTokenExpired,
	common.ErrorUnauthorized,
}

// mapError turns a gRPC status into the package or common sentinel it
// stands for.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		reason := strings.TrimPrefix(st.Message(), common.ErrValidation.Error())
		reason = strings.TrimPrefix(reason, ": ")
		if reason == "" {
			return common.ErrValidation
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, reason)
	}

	for _, s := range sentinels {
		if st.Message() == s.Error() {
			return s
		}
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

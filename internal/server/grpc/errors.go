package grpc

import (
	"errors"

	"github.com/dmitrijs2005/balance/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// unauthenticated lists the errors answered with codes.Unauthenticated. The
// status message is the error text, which the client maps back.
var unauthenticated = []error{
	common.ErrBadPassword,
	common.ErrNotLoggedIn,
	common.ErrTokenExpired,
	common.ErrRefreshTokenExpired,
	common.ErrInvalidToken,
	common.ErrorUnauthorized,
}

// toStatus converts a service error into a gRPC status error. Internal
// failures are reported without detail.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrRecipientNotFound):
		return status.Error(codes.NotFound, common.ErrRecipientNotFound.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrDuplicateUsername):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateUsername.Error())
	}

	for _, e := range unauthenticated {
		if errors.Is(err, e) {
			return status.Error(codes.Unauthenticated, e.Error())
		}
	}

	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

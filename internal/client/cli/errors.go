package cli

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/balance/internal/client/client"
	"github.com/dmitrijs2005/balance/internal/codec"
	"github.com/dmitrijs2005/balance/internal/common"
)

// userMessage turns a service error into the line shown to the user.
func userMessage(err error) string {
	switch {
	case errors.Is(err, codec.ErrFormat), errors.Is(err, codec.ErrDecryption):
		return "file is corrupted or in the wrong format"
	case errors.Is(err, common.ErrValidation):
		return "Invalid input" + validationReason(err)
	case errors.Is(err, common.ErrNotLoggedIn):
		return "Please log in first"
	case errors.Is(err, common.ErrDuplicateUsername):
		return "Username is already taken"
	case errors.Is(err, common.ErrBadPassword):
		return "Wrong password"
	case errors.Is(err, common.ErrRecipientNotFound):
		return "Recipient not found"
	case errors.Is(err, common.ErrorNotFound):
		return "Not found"
	case errors.Is(err, client.ErrUnavailable):
		return "Server is unavailable, try again later"
	case errors.Is(err, client.ErrUnauthorized),
		errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return "Session expired, please log in again"
	default:
		return "Error: " + err.Error()
	}
}

func printError(err error) {
	printlnFn(userMessage(err))
}

// validationReason returns ": <reason>" for an error wrapping
// common.ErrValidation with a reason, or "" when there is none.
func validationReason(err error) string {
	msg := err.Error()
	marker := common.ErrValidation.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return ": " + msg[i+len(marker):]
	}
	return ""
}

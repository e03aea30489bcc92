// Package common contains shared constants, sentinel errors and small helpers
// used by both the balance server and the CLI.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token.
const AccessTokenHeaderName = "access_token"

// Message types accepted by the message store.
const (
	MessageTypeChat = "chat"
	MessageTypeMail = "mail"
)

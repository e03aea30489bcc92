// Package client is the CLI side of the balance transport.
//
// GRPCClient implements Client over the JSON-coded gRPC service in
// internal/rpc. It keeps the current token pair, attaches the access token
// to every call and, when the server reports an expired token, refreshes
// the pair once and retries. Status errors are mapped back to the
// sentinels of internal/common, plus ErrUnavailable and ErrUnauthorized.
//
// InitDatabase opens the local SQLite cache and applies its embedded goose
// migrations.
package client

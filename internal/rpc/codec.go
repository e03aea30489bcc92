// Package rpc describes the balance gRPC service: request/response types,
// the service descriptor, a typed client and a JSON wire codec.
//
// Messages are plain Go structs serialised as JSON. The codec is registered
// under the "json" content-subtype, so a server needs no extra options and
// clients select it with grpc.CallContentSubtype(CodecName), which the
// client returned by NewBalanceClient does on every call.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the JSON codec.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

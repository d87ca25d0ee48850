// Package rpc holds the Connect plumbing shared by the draft and trade
// services: the JSON codec, acting-user extraction, request validation and
// the mapping from domain errors to Connect errors.
package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec serves plain Go structs as JSON. It replaces Connect's protojson
// codec, which only accepts generated messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// HandlerOptions are applied to every handler the services register.
func HandlerOptions() []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(LoggingInterceptor()),
	}
}

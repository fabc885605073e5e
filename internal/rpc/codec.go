// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

// Package rpc implements the controller RPC surface of spec.md §6 on
// top of the real google.golang.org/grpc transport/stream stack, but
// without protobuf code generation: request/response payloads are
// plain JSON-tagged Go structs carried by a hand-registered
// encoding.Codec, and the service's method table is a hand-authored
// grpc.ServiceDesc instead of a *_grpc.pb.go file.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is negotiated over gRPC's content-subtype mechanism: both
// client and server register jsonCodec under this name and every call
// sets grpc.CallContentSubtype(codecName) so the wire format is JSON
// instead of protobuf.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json-marshaling rpc payload: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json-unmarshaling rpc payload: %w", err)
	}
	return nil
}

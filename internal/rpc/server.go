// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package rpc

import (
	"crypto/tls"

	"github.com/vanavreddy/mackenzie/internal/tracing"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

// NewServer builds a *grpc.Server secured with mutual TLS and
// instrumented with the OpenTelemetry unary server interceptor. The
// JSON codec negotiated by the client is picked up automatically by
// gRPC's content-subtype mechanism; no further wiring is needed here.
func NewServer(tlsConfig *tls.Config) *grpc.Server {
	return grpc.NewServer(
		grpc.Creds(credentials.NewTLS(tlsConfig)),
		grpc.UnaryInterceptor(tracing.UnaryServerInterceptor()),
	)
}

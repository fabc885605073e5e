// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// requestIDHeader carries a per-call id generated client-side, attached
// to the span and echoed into server-side logs so a call can be traced
// across process boundaries without a shared trace backend.
const requestIDHeader = "x-mackenzie-request-id"

// UnaryClientInterceptor injects the current span context into
// outgoing gRPC metadata, grounded on Lens/modules/core/pkg/trace's
// UnaryClientInterceptor.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		tracer := otel.Tracer("")
		ctx, span := tracer.Start(ctx, "gRPC.Client."+method, trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		requestID := uuid.NewString()
		span.SetAttributes(
			semconv.RPCMethod(method),
			semconv.RPCSystemGRPC,
			attribute.String("component", "grpc-client"),
			attribute.String("request_id", requestID),
		)

		md, ok := metadata.FromOutgoingContext(ctx)
		if !ok {
			md = metadata.New(nil)
		}
		md.Set(requestIDHeader, requestID)
		otel.GetTextMapPropagator().Inject(ctx, &metadataCarrier{md: &md})
		ctx = metadata.NewOutgoingContext(ctx, md)

		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

// UnaryServerInterceptor extracts a parent span context from incoming
// gRPC metadata.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			ctx = otel.GetTextMapPropagator().Extract(ctx, &metadataCarrier{md: &md})
		}

		requestID := requestIDFromIncoming(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		tracer := otel.Tracer("")
		ctx, span := tracer.Start(ctx, "gRPC.Server."+info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			semconv.RPCMethod(info.FullMethod),
			semconv.RPCSystemGRPC,
			attribute.String("component", "grpc-server"),
			attribute.String("request_id", requestID),
		)

		resp, err := handler(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return resp, err
	}
}

func requestIDFromIncoming(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(requestIDHeader)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// metadataCarrier adapts gRPC metadata.MD to propagation.TextMapCarrier.
type metadataCarrier struct {
	md *metadata.MD
}

func (c *metadataCarrier) Get(key string) string {
	values := (*c.md).Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (c *metadataCarrier) Set(key, val string) { (*c.md).Set(key, val) }

func (c *metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.md))
	for k := range *c.md {
		keys = append(keys, k)
	}
	return keys
}

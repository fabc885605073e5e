// Copyright (C) 2025-2025, mackenzie authors. All rights reserved.
// See LICENSE for license information.

package rpc

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gotest.tools/assert"
)

func TestIsConnectionLossDetectsEOFAndUnavailable(t *testing.T) {
	assert.Assert(t, isConnectionLoss(io.EOF))
	assert.Assert(t, isConnectionLoss(status.Error(codes.Unavailable, "transport is closing")))
	assert.Assert(t, !isConnectionLoss(status.Error(codes.NotFound, "no such setup")))
	assert.Assert(t, !isConnectionLoss(errors.New("boom")))
}

func TestWithReconnectRetriesConnectionLossThenSucceeds(t *testing.T) {
	origRetry, origInter := connectRetry, interRetry
	connectRetry, interRetry = time.Second, time.Millisecond
	defer func() { connectRetry, interRetry = origRetry, origInter }()

	attempts := 0
	result, err := withReconnect(context.Background(), "GetAllSetupNames", func(context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", io.EOF
		}
		return "ok", nil
	})
	assert.NilError(t, err)
	assert.Equal(t, result, "ok")
	assert.Equal(t, attempts, 3)
}

func TestWithReconnectDoesNotRetryPermanentError(t *testing.T) {
	attempts := 0
	notFound := status.Error(codes.NotFound, "no such setup")
	_, err := withReconnect(context.Background(), "GetSetupDirTar", func(context.Context) (string, error) {
		attempts++
		return "", notFound
	})
	assert.Assert(t, errors.Is(err, notFound))
	assert.Equal(t, attempts, 1)
}

func TestWithReconnectExhaustsEnvelope(t *testing.T) {
	origRetry, origInter := connectRetry, interRetry
	connectRetry, interRetry = 10*time.Millisecond, time.Millisecond
	defer func() { connectRetry, interRetry = origRetry, origInter }()

	_, err := withReconnect(context.Background(), "GetAllSetupNames", func(context.Context) (string, error) {
		return "", io.EOF
	})
	assert.ErrorContains(t, err, "exhausted reconnect envelope")
}

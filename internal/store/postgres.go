// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

// Package store provides database connectivity and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// DefaultConnectTimeout bounds the startup ping retries in Open.
const DefaultConnectTimeout = 15 * time.Second

// Open creates a pgx connection pool and verifies connectivity. The ping is
// retried with constant backoff until connectTimeout elapses; this is the
// only retry in the system — workflow-level storage failures surface
// immediately to the caller.
func Open(ctx context.Context, databaseURL string, connectTimeout time.Duration) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, oops.Code("STORE_NO_DATABASE_URL").Errorf("database URL is required")
	}
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_OPEN_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	backoff := retry.WithMaxDuration(connectTimeout, retry.NewConstant(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_PING_FAILED").
			With("operation", "ping database").
			With("timeout", connectTimeout.String()).
			Wrap(err)
	}

	return pool, nil
}

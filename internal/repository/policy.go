package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DefaultTimeout = 5 * time.Second
	readRetryDelay = 50 * time.Millisecond
)

// policy bounds every store call by a timeout. Reads get one retry on
// transient failures; writes are never retried so a lost ack cannot
// create a duplicate row.
type policy struct {
	timeout time.Duration
}

func newPolicy(timeout time.Duration) policy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return policy{timeout: timeout}
}

func (p policy) read(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	backoff := retry.WithMaxRetries(1, retry.NewConstant(readRetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || !transient(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

func (p policy) write(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return fn(ctx)
}

// transient reports whether a failed read may succeed if tried again:
// broken connections, lock contention and postgres retryable states.
// Missing rows, bad SQL and constraint errors fail the same way twice.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), // connection exception
			pgErr.Code == "40001", // serialization_failure
			pgErr.Code == "40P01", // deadlock_detected
			pgErr.Code == "57P01": // admin_shutdown
			return true
		}
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}

	return false
}

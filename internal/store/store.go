// Package store keeps submitted resumes for the retention window.
//
// Implementations must assign ids atomically, never reuse an id and make a
// record visible to Lookup as soon as Insert returns.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/resume-pdf/internal/types"
)

// Backend names accepted by configuration
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// ErrNotFound is returned when no record exists for an id, either because it
// was never issued or because it has been swept.
var ErrNotFound = errors.New("submission not found")

// Store is the submission persistence contract
type Store interface {
	// Insert stores a submission and returns its new id.
	Insert(ctx context.Context, raw []byte, token, templateID string) (int64, error)
	// Lookup returns the submission with the given id or ErrNotFound.
	Lookup(ctx context.Context, id int64) (*types.Submission, error)
	// Sweep deletes every submission older than maxAge and reports how many
	// were removed.
	Sweep(ctx context.Context, maxAge time.Duration) (int64, error)
	Close() error
}

// UnavailableError wraps a fault in the backing storage
type UnavailableError struct {
	Op    string
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

func unavailable(op string, err error) error {
	return &UnavailableError{Op: op, Cause: err}
}

// Option configures a backend
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used to stamp and age submissions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

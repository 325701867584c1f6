// Package audit records an append-only trail of successful mutations.
package audit

import (
	"context"
	"time"
)

// Entry describes one recorded mutation.
type Entry struct {
	OccurredAt time.Time
	Entity     string // "member", "book" or "borrow"
	EntityID   string
	Action     string // "create", "update" or "delete"
	Detail     string
}

// Recorder persists audit entries. Failures must never fail the mutation
// that triggered the entry; callers log and move on.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Close() error
}

// Nop discards all entries. Used when no audit backend is configured.
type Nop struct{}

func (Nop) Record(ctx context.Context, entry Entry) error { return nil }

func (Nop) Close() error { return nil }

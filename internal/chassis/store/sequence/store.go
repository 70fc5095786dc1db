// Package sequence provides the durable, prefix-keyed monotonic counters
// behind identifier issuance. One counter exists per key; no two
// identifiers issued against the same key may ever share a number.
//
// Keys are opaque strings. VIN issuance keys come from
// models.SequenceKey.String(); manufacturer chassis issuance keys come
// from the template skeleton.
package sequence

import (
	"context"
)

// Store allocates blocks of consecutive sequence numbers.
//
// Allocate must be atomic: the new high-water mark is persisted before the
// reserved range is handed to the caller, so a crash between persist and
// return burns numbers but never reuses them. On a failed persist the
// counter keeps its last known-good value and no numbers are returned.
type Store interface {
	// Allocate reserves count consecutive numbers for key and returns the
	// first. The reserved range is [first, first+count).
	Allocate(ctx context.Context, key string, count int) (first int64, err error)

	// Peek returns the last issued value for key without allocating.
	// Returns sentinel.ErrNotFound when the key has no counter yet.
	Peek(ctx context.Context, key string) (int64, error)

	// Reset drops the counter for key. Administrative action only: the
	// next Allocate after a Reset reissues numbers, which breaks the
	// non-collision guarantee for anything generated before it.
	Reset(ctx context.Context, key string) error
}

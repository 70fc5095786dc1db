// Package audit captures an append-only trail of identifier issuance.
// Events are transport-agnostic so stores and sinks can fan out; the
// publisher uses the storage layer for persistence so tests can swap
// sinks easily.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action names what happened to produce an event.
type Action string

const (
	ActionVINIssued     Action = "vin_issued"
	ActionChassisIssued Action = "chassis_issued"
	ActionSequenceReset Action = "sequence_reset"
)

// Event is one audit trail entry.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	SequenceKey string    `json:"sequence_key,omitempty"`
	Identifier  string    `json:"identifier,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// Appender is the write side of an event sink. The publisher depends on
// nothing more, so emission can be decoupled from persistence (see Sink).
type Appender interface {
	Append(ctx context.Context, e Event) error
}

// Store persists audit events and serves them back.
type Store interface {
	Appender
	List(ctx context.Context) ([]Event, error)
}

// Publisher stamps and records events.
type Publisher struct {
	store Appender
}

func NewPublisher(store Appender) *Publisher {
	return &Publisher{store: store}
}

// Emit assigns an ID and timestamp when absent and appends the event.
func (p *Publisher) Emit(ctx context.Context, e Event) error {
	if p == nil || p.store == nil {
		return nil
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return p.store.Append(ctx, e)
}

// MemoryStore is the in-process event sink.
type MemoryStore struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

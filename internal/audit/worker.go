package audit

import "context"

// Sink is a buffered, in-memory event queue implementing Appender. Emitters
// enqueue and move on; a Worker drains the queue into a durable store.
// Issuance latency therefore never waits on audit persistence.
type Sink struct {
	inbox chan Event
}

// NewSink creates a sink holding up to buffer undrained events.
func NewSink(buffer int) *Sink {
	return &Sink{inbox: make(chan Event, buffer)}
}

func (s *Sink) Append(ctx context.Context, e Event) error {
	select {
	case s.inbox <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inbox exposes the drain side for a Worker.
func (s *Sink) Inbox() <-chan Event { return s.inbox }

// Worker consumes audit events from an inbox and persists them.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

// Run drains the inbox until ctx is cancelled. A failed append stops the
// worker; the supervisor decides whether to restart.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

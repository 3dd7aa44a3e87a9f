package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"fieldbooking/internal/domain"
)

// eventCell guards one event. Writers serialise on mu; readers load the
// published snapshot without locking.
type eventCell struct {
	mu   sync.Mutex
	snap atomic.Pointer[domain.Event]
}

// EventStore is an in-process EventRepository. Different events are updated
// in parallel; updates to the same event are serialised.
type EventStore struct {
	mu    sync.RWMutex
	cells map[string]*eventCell
}

func NewEventStore() *EventStore {
	return &EventStore{cells: make(map[string]*eventCell)}
}

var _ domain.EventRepository = (*EventStore)(nil)

func (s *EventStore) Create(ctx context.Context, event *domain.Event) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	if event.ID == "" {
		return domain.NewValidationError("event id is required")
	}
	if err := event.CheckInvariants(); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cells[event.ID]; ok {
		return domain.NewConflictError("event %s already exists", event.ID)
	}
	c := &eventCell{}
	c.snap.Store(event.Clone())
	s.cells[event.ID] = c
	return nil
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	c := s.cell(id)
	if c == nil {
		return nil, domain.NewNotFoundError("event %s not found", id)
	}
	ev := c.snap.Load()
	if ev == nil {
		return nil, domain.NewNotFoundError("event %s not found", id)
	}
	return ev.Clone(), nil
}

func (s *EventStore) Update(ctx context.Context, id string, fn func(*domain.Event) error) (*domain.Event, error) {
	c := s.cell(id)
	if c == nil {
		return nil, domain.NewNotFoundError("event %s not found", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	cur := c.snap.Load()
	if cur == nil {
		return nil, domain.NewNotFoundError("event %s not found", id)
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	if err := work.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	work.ID = cur.ID
	work.Version = cur.Version + 1
	c.snap.Store(work)
	return work.Clone(), nil
}

func (s *EventStore) ListActive(ctx context.Context) ([]*domain.Event, error) {
	return s.list(ctx, func(ev *domain.Event) bool { return !ev.Status.Terminal() })
}

func (s *EventStore) ListTerminal(ctx context.Context, before time.Time) ([]*domain.Event, error) {
	return s.list(ctx, func(ev *domain.Event) bool {
		return ev.Status.Terminal() && ev.UpdatedAt.Before(before)
	})
}

func (s *EventStore) DeleteTerminal(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[id]
	if !ok {
		return domain.NewNotFoundError("event %s not found", id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ev := c.snap.Load()
	if ev == nil {
		return domain.NewNotFoundError("event %s not found", id)
	}
	if !ev.Status.Terminal() {
		return domain.NewStateError("event %s is %s and cannot be deleted", id, ev.Status)
	}
	c.snap.Store(nil)
	delete(s.cells, id)
	return nil
}

func (s *EventStore) cell(id string) *eventCell {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cells[id]
}

func (s *EventStore) list(ctx context.Context, keep func(*domain.Event) bool) ([]*domain.Event, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]*domain.Event, 0, len(s.cells))
	for _, c := range s.cells {
		if ev := c.snap.Load(); ev != nil && keep(ev) {
			out = append(out, ev.Clone())
		}
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *domain.Event) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// ctxErr reports a cancelled or expired context as a transient failure.
func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapTransient("event store unavailable", err)
	}
	return nil
}

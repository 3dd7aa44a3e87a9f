package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"fieldbooking/internal/domain"
)

var (
	testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	testNow    = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
)

const testTimeout = 2 * time.Second

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeFieldRepo is an in-memory FieldRepository that counts lookups.
type fakeFieldRepo struct {
	mu     sync.Mutex
	fields map[string]domain.Field
	failOn map[string]error
	calls  map[string]int
}

func newFakeFieldRepo(fields ...domain.Field) *fakeFieldRepo {
	f := &fakeFieldRepo{
		fields: make(map[string]domain.Field),
		failOn: make(map[string]error),
		calls:  make(map[string]int),
	}
	for _, fl := range fields {
		f.fields[fl.ID] = fl
	}
	return f
}

func (f *fakeFieldRepo) GetByID(ctx context.Context, id string) (*domain.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err, ok := f.failOn[id]; ok {
		return nil, err
	}
	fl, ok := f.fields[id]
	if !ok {
		return nil, domain.NewNotFoundError("field %s not found", id)
	}
	return &fl, nil
}

func (f *fakeFieldRepo) callsFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// fakeArchiver records archived events and fails for ids in failOn.
type fakeArchiver struct {
	mu       sync.Mutex
	archived []string
	failOn   map[string]bool
}

func (a *fakeArchiver) Archive(ctx context.Context, ev *domain.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failOn[ev.ID] {
		return domain.WrapTransient("bucket unavailable", context.DeadlineExceeded)
	}
	a.archived = append(a.archived, ev.ID)
	return nil
}

func ptr[T any](v T) *T { return &v }

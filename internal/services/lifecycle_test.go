package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldbooking/internal/domain"
	"fieldbooking/internal/repository/memory"
)

type lifecycleFixture struct {
	svc      domain.EventService
	repo     *memory.EventStore
	fields   *fakeFieldRepo
	archiver *fakeArchiver
	clock    *testClock
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	fx := &lifecycleFixture{
		repo: memory.NewEventStore(),
		fields: newFakeFieldRepo(
			domain.Field{ID: "field-1", BusinessName: "Cancha Los Olivos", TimeZone: "America/Lima"},
			domain.Field{ID: "field-utc", BusinessName: "Pitch One"},
		),
		archiver: &fakeArchiver{failOn: map[string]bool{}},
		clock:    newTestClock(testNow),
	}
	positions := NewPositionService(fx.repo, fx.clock.Now, testTimeout)
	fx.svc = NewEventService(fx.repo,
		NewFieldCache(fx.fields, time.Minute, fx.clock.Now),
		positions,
		fx.archiver,
		domain.StaticRosterCatalog(),
		DefaultLifecyclePolicy,
		fx.clock.Now,
		testLogger,
		testTimeout,
	)
	return fx
}

func (fx *lifecycleFixture) create(t *testing.T, ft domain.FieldType, at time.Time) *domain.Event {
	t.Helper()
	ev, err := fx.svc.CreateEvent(context.Background(), domain.CreateEventInput{
		FieldID:     "field-1",
		FieldType:   ft,
		ScheduledAt: at,
		HostID:      "host-1",
	})
	require.NoError(t, err)
	return ev
}

func TestEventService_CreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		in      domain.CreateEventInput
		wantErr error
		check   func(t *testing.T, ev *domain.Event)
	}{
		{
			name: "success defaults title to the field name",
			in:   domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol7, ScheduledAt: testNow.Add(time.Hour), HostID: "host-1"},
			check: func(t *testing.T, ev *domain.Event) {
				assert.NotEmpty(t, ev.ID)
				assert.Equal(t, "Cancha Los Olivos", ev.Title)
				assert.Equal(t, domain.StatusOpen, ev.Status)
				assert.Equal(t, 14, ev.Capacity)
				assert.Equal(t, 14, ev.AvailableSpaces())
			},
		},
		{
			name: "scheduled time normalised to UTC",
			in: domain.CreateEventInput{
				FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, Title: "Friday 5s", HostID: "host-1",
				ScheduledAt: time.Date(2025, 3, 10, 19, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			},
			check: func(t *testing.T, ev *domain.Event) {
				assert.Equal(t, "Friday 5s", ev.Title)
				assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), ev.ScheduledAt)
				assert.Equal(t, time.UTC, ev.ScheduledAt.Location())
			},
		},
		{
			name: "local date and time composed in the field's zone",
			in:   domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, LocalDate: "2025-03-10", LocalTime: "20:00", HostID: "host-1"},
			check: func(t *testing.T, ev *domain.Event) {
				assert.Equal(t, time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC), ev.ScheduledAt)
			},
		},
		{
			name: "local date and time default to UTC",
			in:   domain.CreateEventInput{FieldID: "field-utc", FieldType: domain.FieldTypeFutbol5, LocalDate: "2025-03-10", LocalTime: "20:00", HostID: "host-1"},
			check: func(t *testing.T, ev *domain.Event) {
				assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), ev.ScheduledAt)
			},
		},
		{
			name:    "exactly at minimum lead time",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, ScheduledAt: testNow.Add(10 * time.Minute), HostID: "host-1"},
			wantErr: nil,
		},
		{
			name:    "inside minimum lead time",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, ScheduledAt: testNow.Add(9 * time.Minute), HostID: "host-1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "in the past",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, ScheduledAt: testNow.Add(-time.Hour), HostID: "host-1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown field type",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeUnknown, ScheduledAt: testNow.Add(time.Hour), HostID: "host-1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown field",
			in:      domain.CreateEventInput{FieldID: "nowhere", FieldType: domain.FieldTypeFutbol5, ScheduledAt: testNow.Add(time.Hour), HostID: "host-1"},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "missing host",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, ScheduledAt: testNow.Add(time.Hour)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing schedule",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, HostID: "host-1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "malformed local time",
			in:      domain.CreateEventInput{FieldID: "field-1", FieldType: domain.FieldTypeFutbol5, LocalDate: "2025-03-10", LocalTime: "8pm", HostID: "host-1"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newLifecycleFixture(t)
			ev, err := fx.svc.CreateEvent(context.Background(), tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ev)
				return
			}
			require.NoError(t, err)
			require.NoError(t, ev.CheckInvariants())
			stored, err := fx.svc.GetEvent(context.Background(), ev.ID)
			require.NoError(t, err)
			assert.Equal(t, ev, stored)
			if tt.check != nil {
				tt.check(t, ev)
			}
		})
	}
}

func TestEventService_GetEventNotFound(t *testing.T) {
	fx := newLifecycleFixture(t)
	_, err := fx.svc.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_StartWindow(t *testing.T) {
	ctx := context.Background()
	fx := newLifecycleFixture(t)
	ev := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))

	// 16 minutes before kick-off is too early.
	fx.clock.Advance(44 * time.Minute)
	_, err := fx.svc.StartEvent(ctx, ev.ID, "host-1")
	require.ErrorIs(t, err, domain.ErrState)

	fx.clock.Advance(time.Minute)
	started, err := fx.svc.StartEvent(ctx, ev.ID, "host-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
	assert.Equal(t, fx.clock.Now(), *started.StartedAt)

	_, err = fx.svc.StartEvent(ctx, ev.ID, "host-1")
	require.ErrorIs(t, err, domain.ErrState)
}

func TestEventService_HostOnly(t *testing.T) {
	ctx := context.Background()
	fx := newLifecycleFixture(t)
	ev := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))
	fx.clock.Advance(time.Hour)

	_, err := fx.svc.StartEvent(ctx, ev.ID, "someone-else")
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = fx.svc.CancelEvent(ctx, ev.ID, "")
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = fx.svc.CompleteEvent(ctx, ev.ID, "someone-else", nil)
	require.ErrorIs(t, err, domain.ErrForbidden)

	got, err := fx.svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
	assert.Equal(t, 0, got.Version)

	_, err = fx.svc.StartEvent(ctx, "missing", "host-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	fx := newLifecycleFixture(t)
	ev := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))

	_, err := fx.svc.JoinSlot(ctx, ev.ID, "a-gk-1", "keeper")
	require.NoError(t, err)
	_, err = fx.svc.JoinSlot(ctx, ev.ID, "b-fwd-1", "striker")
	require.NoError(t, err)
	_, err = fx.svc.JoinSlot(ctx, ev.ID, "a-def-1", "back")
	require.NoError(t, err)
	_, err = fx.svc.LeaveSlot(ctx, ev.ID, "a-def-1", "back")
	require.NoError(t, err)

	fx.clock.Advance(time.Hour)
	_, err = fx.svc.StartEvent(ctx, ev.ID, "host-1")
	require.NoError(t, err)

	// Once started nobody can join or leave.
	_, err = fx.svc.JoinSlot(ctx, ev.ID, "a-def-1", "late")
	require.ErrorIs(t, err, domain.ErrState)
	_, err = fx.svc.LeaveSlot(ctx, ev.ID, "a-gk-1", "keeper")
	require.ErrorIs(t, err, domain.ErrState)
	_, err = fx.svc.CancelEvent(ctx, ev.ID, "host-1")
	require.ErrorIs(t, err, domain.ErrState)

	fx.clock.Advance(time.Hour)
	done, err := fx.svc.CompleteEvent(ctx, ev.ID, "host-1", []string{"striker"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, done.Status)
	assert.Equal(t, []domain.AttendeeRecord{
		{PlayerID: "keeper", SlotID: "a-gk-1", Attended: false},
		{PlayerID: "striker", SlotID: "b-fwd-1", Attended: true},
	}, done.Attendance)
	assert.Equal(t, 2, done.RegisteredPlayers())
}

func TestEventService_CompleteRejectsUnknownAttendee(t *testing.T) {
	ctx := context.Background()
	fx := newLifecycleFixture(t)
	ev := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))
	_, err := fx.svc.JoinSlot(ctx, ev.ID, "a-gk-1", "keeper")
	require.NoError(t, err)
	fx.clock.Advance(time.Hour)
	_, err = fx.svc.StartEvent(ctx, ev.ID, "host-1")
	require.NoError(t, err)

	_, err = fx.svc.CompleteEvent(ctx, ev.ID, "host-1", []string{"keeper", "ghost"})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := fx.svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Empty(t, got.Attendance)
}

func TestEventService_Cancel(t *testing.T) {
	ctx := context.Background()
	fx := newLifecycleFixture(t)
	ev := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))

	cancelled, err := fx.svc.CancelEvent(ctx, ev.ID, "host-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = fx.svc.JoinSlot(ctx, ev.ID, "a-gk-1", "p1")
	require.ErrorIs(t, err, domain.ErrState)
	_, err = fx.svc.StartEvent(ctx, ev.ID, "host-1")
	require.ErrorIs(t, err, domain.ErrState)
	_, err = fx.svc.CancelEvent(ctx, ev.ID, "host-1")
	require.ErrorIs(t, err, domain.ErrState)
}

func TestEventService_ArchiveTerminal(t *testing.T) {
	ctx := context.Background()
	fx := newLifecycleFixture(t)
	kept := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))
	first := fx.create(t, domain.FieldTypeFutbol5, testNow.Add(time.Hour))
	second := fx.create(t, domain.FieldTypeFutbol7, testNow.Add(time.Hour))
	for _, ev := range []*domain.Event{first, second} {
		_, err := fx.svc.CancelEvent(ctx, ev.ID, "host-1")
		require.NoError(t, err)
	}
	fx.archiver.failOn[second.ID] = true

	n, err := fx.svc.ArchiveTerminal(ctx, testNow.Add(time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{first.ID}, fx.archiver.archived)

	_, err = fx.svc.GetEvent(ctx, first.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = fx.svc.GetEvent(ctx, second.ID)
	require.NoError(t, err, "failed export keeps the event")
	_, err = fx.svc.GetEvent(ctx, kept.ID)
	require.NoError(t, err)

	delete(fx.archiver.failOn, second.ID)
	n, err = fx.svc.ArchiveTerminal(ctx, testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fieldbooking/internal/domain"
)

// LifecyclePolicy holds the timing rules applied to event transitions.
type LifecyclePolicy struct {
	// StartWindow is how early before ScheduledAt the host may start.
	StartWindow time.Duration
	// MinLeadTime is the minimum gap between creation and ScheduledAt.
	MinLeadTime time.Duration
	// DefaultLocation composes local schedules for fields without a time zone.
	DefaultLocation *time.Location
}

// DefaultLifecyclePolicy is used when no policy is configured.
var DefaultLifecyclePolicy = LifecyclePolicy{
	StartWindow:     15 * time.Minute,
	MinLeadTime:     10 * time.Minute,
	DefaultLocation: time.UTC,
}

type eventService struct {
	eventRepo      domain.EventRepository
	fields         FieldLookup
	positions      domain.PositionService
	archiver       domain.Archiver
	roster         domain.RosterCatalog
	policy         LifecyclePolicy
	now            Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	fields FieldLookup,
	positions domain.PositionService,
	archiver domain.Archiver,
	roster domain.RosterCatalog,
	policy LifecyclePolicy,
	clock Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	if clock == nil {
		clock = SystemClock
	}
	if roster == nil {
		roster = domain.StaticRosterCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		eventRepo:      eventRepo,
		fields:         fields,
		positions:      positions,
		archiver:       archiver,
		roster:         roster,
		policy:         policy,
		now:            clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput) (ev *domain.Event, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "events.Create", trace.WithAttributes(
		attribute.String("field.id", in.FieldID),
		attribute.String("field.type", in.FieldType.String()),
	))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(in.HostID) == "" {
		return nil, domain.NewValidationError("host id is required")
	}
	if strings.TrimSpace(in.FieldID) == "" {
		return nil, domain.NewValidationError("field id is required")
	}
	tmpl, err := s.roster.Template(in.FieldType)
	if err != nil {
		return nil, err
	}
	if in.ScheduledAt.IsZero() && in.LocalDate == "" {
		return nil, domain.NewValidationError("scheduled time is required")
	}

	field, err := s.fields.Get(ctx, in.FieldID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFoundError("field %s not found", in.FieldID)
		}
		return nil, fmt.Errorf("load field: %w", err)
	}

	scheduled := in.ScheduledAt.UTC()
	if in.ScheduledAt.IsZero() {
		loc, err := domain.LoadLocation(field.TimeZone, s.policy.DefaultLocation)
		if err != nil {
			return nil, err
		}
		if scheduled, err = domain.ComposeSchedule(in.LocalDate, in.LocalTime, loc); err != nil {
			return nil, err
		}
	}
	now := s.now()
	if scheduled.Before(now.Add(s.policy.MinLeadTime)) {
		return nil, domain.NewValidationError("event must be scheduled at least %s ahead", s.policy.MinLeadTime)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = field.BusinessName
	}
	ev = domain.NewEvent(field.ID, title, in.HostID, tmpl, scheduled, now)
	ev.ID = uuid.NewString()
	if err := s.eventRepo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.InfoContext(ctx, "event created",
		"event_id", ev.ID, "field_id", ev.FieldID, "field_type", ev.FieldType.String(), "scheduled_at", ev.ScheduledAt)
	return ev, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (s *eventService) JoinSlot(ctx context.Context, eventID, slotID, playerID string) (*domain.Event, error) {
	return s.positions.Join(ctx, eventID, slotID, playerID)
}

func (s *eventService) LeaveSlot(ctx context.Context, eventID, slotID, playerID string) (*domain.Event, error) {
	return s.positions.Leave(ctx, eventID, slotID, playerID)
}

func (s *eventService) StartEvent(ctx context.Context, eventID, hostID string) (*domain.Event, error) {
	return s.transition(ctx, "start", eventID, hostID, func(ev *domain.Event) error {
		return ev.Start(s.now(), s.policy.StartWindow)
	})
}

func (s *eventService) CompleteEvent(ctx context.Context, eventID, hostID string, attendeeIDs []string) (*domain.Event, error) {
	return s.transition(ctx, "complete", eventID, hostID, func(ev *domain.Event) error {
		return ev.Complete(attendeeIDs, s.now())
	})
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, hostID string) (*domain.Event, error) {
	return s.transition(ctx, "cancel", eventID, hostID, func(ev *domain.Event) error {
		return ev.Cancel(s.now())
	})
}

// transition applies a host-only status change inside the event's update.
func (s *eventService) transition(ctx context.Context, op, eventID, hostID string, apply func(*domain.Event) error) (ev *domain.Event, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "events."+op, trace.WithAttributes(attribute.String("event.id", eventID)))
	defer func() { endSpan(span, err) }()

	ev, err = s.eventRepo.Update(ctx, eventID, func(e *domain.Event) error {
		if hostID == "" || e.HostID != hostID {
			return domain.NewForbiddenError("only the host can %s event %s", op, e.ID)
		}
		return apply(e)
	})
	if err != nil {
		return nil, fmt.Errorf("%s event: %w", op, err)
	}
	s.logger.InfoContext(ctx, "event status changed", "event_id", ev.ID, "status", ev.Status.String())
	return ev, nil
}

func (s *eventService) ArchiveTerminal(ctx context.Context, before time.Time) (int, error) {
	if s.archiver == nil {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListTerminal(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("list terminal events: %w", err)
	}
	var (
		archived int
		errs     []error
	)
	for _, ev := range events {
		if err := s.archiver.Archive(ctx, ev); err != nil {
			errs = append(errs, fmt.Errorf("archive event %s: %w", ev.ID, err))
			continue
		}
		if err := s.eventRepo.DeleteTerminal(ctx, ev.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete event %s: %w", ev.ID, err))
			continue
		}
		archived++
	}
	return archived, errors.Join(errs...)
}

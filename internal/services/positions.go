package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fieldbooking/internal/domain"
)

type positionService struct {
	eventRepo      domain.EventRepository
	now            Clock
	contextTimeout time.Duration
}

// NewPositionService returns the slot assignment service. Atomicity comes from
// EventRepository.Update, which serialises writers of the same event.
func NewPositionService(eventRepo domain.EventRepository, clock Clock, timeout time.Duration) domain.PositionService {
	if clock == nil {
		clock = SystemClock
	}
	return &positionService{
		eventRepo:      eventRepo,
		now:            clock,
		contextTimeout: timeout,
	}
}

func (s *positionService) Join(ctx context.Context, eventID, slotID, playerID string) (ev *domain.Event, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "positions.Join", trace.WithAttributes(
		attribute.String("event.id", eventID),
		attribute.String("slot.id", slotID),
	))
	defer func() { endSpan(span, err) }()

	if playerID == "" {
		return nil, domain.NewValidationError("player id is required")
	}
	ev, err = s.eventRepo.Update(ctx, eventID, func(e *domain.Event) error {
		return e.Occupy(slotID, playerID, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("join slot: %w", err)
	}
	return ev, nil
}

func (s *positionService) Leave(ctx context.Context, eventID, slotID, playerID string) (ev *domain.Event, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "positions.Leave", trace.WithAttributes(
		attribute.String("event.id", eventID),
		attribute.String("slot.id", slotID),
	))
	defer func() { endSpan(span, err) }()

	if playerID == "" {
		return nil, domain.NewValidationError("player id is required")
	}
	ev, err = s.eventRepo.Update(ctx, eventID, func(e *domain.Event) error {
		return e.Vacate(slotID, playerID, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("leave slot: %w", err)
	}
	return ev, nil
}

package domain

import (
	"context"
	"time"
)

// CreateEventInput carries the host's request to schedule an event. When
// ScheduledAt is zero, LocalDate ("2006-01-02") and LocalTime ("15:04") are
// composed in the field's time zone.
type CreateEventInput struct {
	FieldID     string
	FieldType   FieldType
	ScheduledAt time.Time
	LocalDate   string
	LocalTime   string
	Title       string
	HostID      string
}

// PositionService claims and releases slots. Every call is atomic with
// respect to the event it touches.
type PositionService interface {
	Join(ctx context.Context, eventID, slotID, playerID string) (*Event, error)
	Leave(ctx context.Context, eventID, slotID, playerID string) (*Event, error)
}

// EventService is the command and lookup surface for events. It is the single
// writer of event status.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	JoinSlot(ctx context.Context, eventID, slotID, playerID string) (*Event, error)
	LeaveSlot(ctx context.Context, eventID, slotID, playerID string) (*Event, error)
	StartEvent(ctx context.Context, eventID, hostID string) (*Event, error)
	CompleteEvent(ctx context.Context, eventID, hostID string, attendeeIDs []string) (*Event, error)
	CancelEvent(ctx context.Context, eventID, hostID string) (*Event, error)
	// ArchiveTerminal exports and removes terminal events last updated before
	// the cutoff. It returns how many events were archived.
	ArchiveTerminal(ctx context.Context, before time.Time) (int, error)
}

// AvailabilityService answers discovery queries from a derived read model.
type AvailabilityService interface {
	ListAvailable(ctx context.Context, filter AvailabilityFilter) ([]AvailabilityEntry, error)
	// ListNear applies a strict radius around point and sorts by distance.
	ListNear(ctx context.Context, point GeoPoint, radiusKm float64, filter AvailabilityFilter) ([]AvailabilityEntry, error)
	GroupByField(ctx context.Context, filter AvailabilityFilter) ([]FieldSummary, error)
	// Refresh rebuilds the read model from the event store.
	Refresh(ctx context.Context) error
}

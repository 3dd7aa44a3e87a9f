package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus int

const (
	StatusUnknown EventStatus = iota
	StatusOpen
	StatusFull
	StatusInProgress
	StatusFinished
	StatusCancelled
)

var statusNames = map[EventStatus]struct{ api, code string }{
	StatusOpen:       {"open", "OPEN"},
	StatusFull:       {"full", "FULL"},
	StatusInProgress: {"in_progress", "IN_PROGRESS"},
	StatusFinished:   {"finished", "FINISHED"},
	StatusCancelled:  {"cancelled", "CANCELLED"},
}

// ParseEventStatus maps an API name ("in_progress") to a status.
func ParseEventStatus(s string) (EventStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for st, n := range statusNames {
		if n.api == name {
			return st, nil
		}
	}
	return StatusUnknown, NewValidationError("unknown event status %q", s)
}

// EventStatusFromCode maps a storage code ("IN_PROGRESS") to a status.
func EventStatusFromCode(code string) (EventStatus, error) {
	for st, n := range statusNames {
		if n.code == code {
			return st, nil
		}
	}
	return StatusUnknown, NewValidationError("unknown event status code %q", code)
}

func (s EventStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n.api
	}
	return fmt.Sprintf("EventStatus(%d)", int(s))
}

// Code returns the storage code.
func (s EventStatus) Code() string {
	n, ok := statusNames[s]
	if !ok {
		panic(fmt.Sprintf("domain: no storage code for %s", s))
	}
	return n.code
}

// Terminal reports whether no further transition is possible.
func (s EventStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// Started reports whether the host has started the event (it may have ended since).
func (s EventStatus) Started() bool {
	return s == StatusInProgress || s == StatusFinished
}

func (s EventStatus) MarshalJSON() ([]byte, error) {
	if _, ok := statusNames[s]; !ok {
		return nil, NewValidationError("cannot encode invalid status %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *EventStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseEventStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PositionSlot is one claimable seat of an event's roster.
// swagger:model PositionSlot
type PositionSlot struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Side       Side   `json:"side"`
	Index      int    `json:"index"`
	OccupantID string `json:"occupant_id,omitempty"`
}

func (s PositionSlot) Occupied() bool {
	return s.OccupantID != ""
}

// AttendeeRecord reports, for an occupied slot, whether its occupant was
// marked present when the event was completed.
// swagger:model AttendeeRecord
type AttendeeRecord struct {
	PlayerID string `json:"player_id"`
	SlotID   string `json:"slot_id"`
	Attended bool   `json:"attended"`
}

// Event is the authoritative state of one scheduled session. All times are UTC.
// swagger:model Event
type Event struct {
	ID          string           `json:"id"`
	FieldID     string           `json:"field_id"`
	FieldType   FieldType        `json:"field_type"`
	Title       string           `json:"title"`
	HostID      string           `json:"host_id"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	Status      EventStatus      `json:"status"`
	Capacity    int              `json:"capacity"`
	Slots       []PositionSlot   `json:"slots"`
	Attendance  []AttendeeRecord `json:"attendance,omitempty"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	FinishedAt  *time.Time       `json:"finished_at,omitempty"`
	CancelledAt *time.Time       `json:"cancelled_at,omitempty"`
}

// NewEvent builds an Open event whose slots and capacity come from tmpl.
// ID is typically set by the caller before the event is stored.
func NewEvent(fieldID, title, hostID string, tmpl FieldTemplate, scheduledAt, now time.Time) *Event {
	slots := make([]PositionSlot, len(tmpl.Slots))
	for i, d := range tmpl.Slots {
		slots[i] = PositionSlot{ID: d.SlotID(), Role: d.Role, Side: d.Side, Index: d.Index}
	}
	return &Event{
		FieldID:     fieldID,
		FieldType:   tmpl.FieldType,
		Title:       title,
		HostID:      hostID,
		ScheduledAt: scheduledAt.UTC(),
		Status:      StatusOpen,
		Capacity:    tmpl.Capacity,
		Slots:       slots,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}
}

// RegisteredPlayers is the number of occupied slots.
func (e *Event) RegisteredPlayers() int {
	n := 0
	for _, s := range e.Slots {
		if s.Occupied() {
			n++
		}
	}
	return n
}

// AvailableSpaces is Capacity minus RegisteredPlayers.
func (e *Event) AvailableSpaces() int {
	return e.Capacity - e.RegisteredPlayers()
}

// MarshalJSON adds the derived counters.
func (e *Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(struct {
		*alias
		RegisteredPlayers int `json:"registered_players"`
		AvailableSpaces   int `json:"available_spaces"`
	}{(*alias)(e), e.RegisteredPlayers(), e.AvailableSpaces()})
}

func (e *Event) slotIndex(slotID string) int {
	for i := range e.Slots {
		if e.Slots[i].ID == slotID {
			return i
		}
	}
	return -1
}

// Slot returns the slot with the given id.
func (e *Event) Slot(slotID string) (PositionSlot, bool) {
	if i := e.slotIndex(slotID); i >= 0 {
		return e.Slots[i], true
	}
	return PositionSlot{}, false
}

// SlotOf returns the slot occupied by playerID, if any.
func (e *Event) SlotOf(playerID string) (PositionSlot, bool) {
	for _, s := range e.Slots {
		if s.OccupantID == playerID {
			return s, true
		}
	}
	return PositionSlot{}, false
}

// Occupy seats playerID in slotID. Join is only legal while Open; a Full event
// rejects with a conflict since the caller lost the race for the last seat.
func (e *Event) Occupy(slotID, playerID string, now time.Time) error {
	if playerID == "" {
		return NewValidationError("player id is required")
	}
	switch e.Status {
	case StatusOpen:
	case StatusFull:
		return NewConflictError("no free slots in event %s", e.ID)
	default:
		return NewStateError("cannot join event %s while %s", e.ID, e.Status)
	}
	i := e.slotIndex(slotID)
	if i < 0 {
		return NewNotFoundError("slot %s not found in event %s", slotID, e.ID)
	}
	if e.Slots[i].Occupied() {
		return NewConflictError("slot %s is already occupied", slotID)
	}
	if s, ok := e.SlotOf(playerID); ok {
		return NewConflictError("player %s already occupies slot %s", playerID, s.ID)
	}
	e.Slots[i].OccupantID = playerID
	e.syncOccupancyStatus()
	e.touch(now)
	return nil
}

// Vacate frees slotID, which must be held by playerID. Leaving is not allowed
// once the event has started.
func (e *Event) Vacate(slotID, playerID string, now time.Time) error {
	if e.Status != StatusOpen && e.Status != StatusFull {
		return NewStateError("cannot leave event %s while %s", e.ID, e.Status)
	}
	i := e.slotIndex(slotID)
	if i < 0 {
		return NewNotFoundError("slot %s not found in event %s", slotID, e.ID)
	}
	if e.Slots[i].OccupantID != playerID || playerID == "" {
		return NewConflictError("slot %s is not occupied by player %s", slotID, playerID)
	}
	e.Slots[i].OccupantID = ""
	e.syncOccupancyStatus()
	e.touch(now)
	return nil
}

// Start moves an Open or Full event to InProgress. The host may start at most
// window before ScheduledAt.
func (e *Event) Start(now time.Time, window time.Duration) error {
	if e.Status != StatusOpen && e.Status != StatusFull {
		return NewStateError("cannot start event %s while %s", e.ID, e.Status)
	}
	earliest := e.ScheduledAt.Add(-window)
	if now.Before(earliest) {
		return NewStateError("event %s cannot start before %s", e.ID, earliest.UTC().Format(time.RFC3339))
	}
	e.Status = StatusInProgress
	t := now.UTC()
	e.StartedAt = &t
	e.touch(now)
	return nil
}

// Complete finishes an InProgress event and records attendance. Every attendee
// must occupy a slot; occupancy itself is left unchanged.
func (e *Event) Complete(attendeeIDs []string, now time.Time) error {
	if e.Status != StatusInProgress {
		return NewStateError("cannot complete event %s while %s", e.ID, e.Status)
	}
	present := make(map[string]struct{}, len(attendeeIDs))
	for _, id := range attendeeIDs {
		if _, ok := e.SlotOf(id); !ok || id == "" {
			return NewValidationError("attendee %q does not occupy a slot in event %s", id, e.ID)
		}
		present[id] = struct{}{}
	}
	records := make([]AttendeeRecord, 0, e.RegisteredPlayers())
	for _, s := range e.Slots {
		if !s.Occupied() {
			continue
		}
		_, ok := present[s.OccupantID]
		records = append(records, AttendeeRecord{PlayerID: s.OccupantID, SlotID: s.ID, Attended: ok})
	}
	e.Attendance = records
	e.Status = StatusFinished
	t := now.UTC()
	e.FinishedAt = &t
	e.touch(now)
	return nil
}

// Cancel moves an Open or Full event to Cancelled.
func (e *Event) Cancel(now time.Time) error {
	if e.Status != StatusOpen && e.Status != StatusFull {
		return NewStateError("cannot cancel event %s while %s", e.ID, e.Status)
	}
	e.Status = StatusCancelled
	t := now.UTC()
	e.CancelledAt = &t
	e.touch(now)
	return nil
}

// syncOccupancyStatus is the only place Open and Full are assigned after creation.
func (e *Event) syncOccupancyStatus() {
	if e.Status != StatusOpen && e.Status != StatusFull {
		return
	}
	if e.AvailableSpaces() == 0 {
		e.Status = StatusFull
	} else {
		e.Status = StatusOpen
	}
}

func (e *Event) touch(now time.Time) {
	e.UpdatedAt = now.UTC()
}

// CheckInvariants validates the aggregate against its roster template. Stores
// call it before persisting any change.
func (e *Event) CheckInvariants() error {
	tmpl, err := Template(e.FieldType)
	if err != nil {
		return err
	}
	if e.Capacity != tmpl.Capacity || len(e.Slots) != tmpl.Capacity {
		return fmt.Errorf("event %s: capacity %d, %d slots, template capacity %d", e.ID, e.Capacity, len(e.Slots), tmpl.Capacity)
	}
	seen := make(map[string]string, len(e.Slots))
	for i, s := range e.Slots {
		if s.ID != tmpl.Slots[i].SlotID() {
			return fmt.Errorf("event %s: slot %d is %s, want %s", e.ID, i, s.ID, tmpl.Slots[i].SlotID())
		}
		if !s.Occupied() {
			continue
		}
		if other, dup := seen[s.OccupantID]; dup {
			return fmt.Errorf("event %s: player %s occupies %s and %s", e.ID, s.OccupantID, other, s.ID)
		}
		seen[s.OccupantID] = s.ID
	}
	avail := e.AvailableSpaces()
	if avail < 0 || avail > e.Capacity {
		return fmt.Errorf("event %s: available spaces %d out of range", e.ID, avail)
	}
	switch e.Status {
	case StatusOpen:
		if avail == 0 {
			return fmt.Errorf("event %s: open with no available spaces", e.ID)
		}
	case StatusFull:
		if avail != 0 {
			return fmt.Errorf("event %s: full with %d available spaces", e.ID, avail)
		}
	case StatusInProgress, StatusFinished, StatusCancelled:
	default:
		return fmt.Errorf("event %s: invalid status %d", e.ID, int(e.Status))
	}
	return nil
}

// Clone returns a deep copy.
func (e *Event) Clone() *Event {
	c := *e
	c.Slots = append([]PositionSlot(nil), e.Slots...)
	if e.Attendance != nil {
		c.Attendance = append([]AttendeeRecord(nil), e.Attendance...)
	}
	c.StartedAt = cloneTime(e.StartedAt)
	c.FinishedAt = cloneTime(e.FinishedAt)
	c.CancelledAt = cloneTime(e.CancelledAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// EventRepository is the authoritative event store.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	// GetByID returns a snapshot; mutating it does not affect the store.
	GetByID(ctx context.Context, id string) (*Event, error)
	// Update runs fn on a private copy of the event while holding the event's
	// write lock and persists the copy only if fn returns nil and the result
	// passes CheckInvariants. The stored snapshot is returned.
	Update(ctx context.Context, id string, fn func(*Event) error) (*Event, error)
	// ListActive returns snapshots of all non-terminal events.
	ListActive(ctx context.Context) ([]*Event, error)
	// ListTerminal returns terminal events last updated before the cutoff.
	ListTerminal(ctx context.Context, before time.Time) ([]*Event, error)
	// DeleteTerminal removes a terminal event. Non-terminal events are never
	// deleted; the call fails with a state error.
	DeleteTerminal(ctx context.Context, id string) error
}

// Archiver exports terminal events before they are removed from the store.
type Archiver interface {
	Archive(ctx context.Context, event *Event) error
}

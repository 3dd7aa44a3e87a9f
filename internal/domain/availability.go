package domain

import (
	"math"
	"strings"
	"time"
)

// DateBucket narrows discovery to a calendar window in the discovery time zone.
type DateBucket string

const (
	DateBucketAny      DateBucket = ""
	DateBucketToday    DateBucket = "today"
	DateBucketTomorrow DateBucket = "tomorrow"
	DateBucketWeek     DateBucket = "week"
)

func ParseDateBucket(s string) (DateBucket, error) {
	switch b := DateBucket(strings.ToLower(strings.TrimSpace(s))); b {
	case DateBucketAny, DateBucketToday, DateBucketTomorrow, DateBucketWeek:
		return b, nil
	}
	return "", NewValidationError("unknown date bucket %q", s)
}

// Range returns the [from, to) window of the bucket relative to now, computed
// in loc. ok is false for DateBucketAny.
func (b DateBucket) Range(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch b {
	case DateBucketToday:
		return midnight, midnight.AddDate(0, 0, 1), true
	case DateBucketTomorrow:
		return midnight.AddDate(0, 0, 1), midnight.AddDate(0, 0, 2), true
	case DateBucketWeek:
		return midnight, midnight.AddDate(0, 0, 7), true
	}
	return time.Time{}, time.Time{}, false
}

// SortOrder selects the ordering of discovery results.
type SortOrder string

const (
	SortByTime     SortOrder = "time"
	SortByDistance SortOrder = "distance"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortByTime, nil
	case SortByTime, SortByDistance:
		return o, nil
	}
	return "", NewValidationError("unknown sort order %q", s)
}

// AvailabilityFilter holds the optional discovery predicates. Zero values
// disable a predicate.
type AvailabilityFilter struct {
	FieldType    FieldType
	DateBucket   DateBucket
	Location     *GeoPoint
	RadiusKm     float64
	StrictRadius bool
	MaxPrice     *float64
	MinFreeSlots int
	Text         string
	// IncludeStarted also lists events that are already in progress.
	IncludeStarted bool
	Sort           SortOrder
}

// Validate checks the filter's internal consistency.
func (f AvailabilityFilter) Validate() error {
	if f.FieldType != FieldTypeUnknown && !f.FieldType.Valid() {
		return NewValidationError("unsupported field type %s", f.FieldType)
	}
	if f.Location != nil && !f.Location.Valid() {
		return NewValidationError("location out of range")
	}
	if !finite(f.RadiusKm) || f.RadiusKm < 0 {
		return NewValidationError("radius must be a non-negative number")
	}
	if f.RadiusKm > 0 && f.Location == nil {
		return NewValidationError("radius requires a location")
	}
	if f.Sort == SortByDistance && f.Location == nil {
		return NewValidationError("distance sort requires a location")
	}
	if f.MaxPrice != nil && (!finite(*f.MaxPrice) || *f.MaxPrice < 0) {
		return NewValidationError("max price must be a non-negative number")
	}
	if f.MinFreeSlots < 0 {
		return NewValidationError("min free slots must not be negative")
	}
	return nil
}

// AvailabilityEntry is the discovery projection of a non-terminal event. It is
// never authoritative.
// swagger:model AvailabilityEntry
type AvailabilityEntry struct {
	EventID           string      `json:"event_id"`
	FieldID           string      `json:"field_id"`
	FieldType         FieldType   `json:"field_type"`
	Title             string      `json:"title"`
	ScheduledAt       time.Time   `json:"scheduled_at"`
	Status            EventStatus `json:"status"`
	Capacity          int         `json:"capacity"`
	RegisteredPlayers int         `json:"registered_players"`
	AvailableSpaces   int         `json:"available_spaces"`
	// FieldKnown is false when the field metadata could not be loaded; the
	// fields below are then empty.
	FieldKnown     bool      `json:"field_known"`
	BusinessName   string    `json:"business_name,omitempty"`
	Address        string    `json:"address,omitempty"`
	Location       *GeoPoint `json:"location,omitempty"`
	PricePerPlayer *float64  `json:"price_per_player,omitempty"`
	Rating         *float64  `json:"rating,omitempty"`
	DistanceKm     *float64  `json:"distance_km,omitempty"`
}

// FieldSummary groups the listed events of one hosting field.
// swagger:model FieldSummary
type FieldSummary struct {
	FieldID        string              `json:"field_id"`
	BusinessName   string              `json:"business_name,omitempty"`
	Address        string              `json:"address,omitempty"`
	Location       *GeoPoint           `json:"location,omitempty"`
	DistanceKm     *float64            `json:"distance_km,omitempty"`
	TotalOpenSlots int                 `json:"total_open_slots"`
	NextEventAt    time.Time           `json:"next_event_at"`
	Events         []AvailabilityEntry `json:"events"`
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

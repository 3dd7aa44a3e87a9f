package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fieldbooking/internal/domain"
)

// metadataConcurrency bounds parallel field lookups during a rebuild.
const metadataConcurrency = 8

type availabilitySnapshot struct {
	builtAt time.Time
	entries []domain.AvailabilityEntry
}

type availabilityIndex struct {
	eventRepo       domain.EventRepository
	fields          FieldLookup
	loc             *time.Location
	refreshInterval time.Duration
	now             Clock
	logger          *slog.Logger
	contextTimeout  time.Duration

	snap  atomic.Pointer[availabilitySnapshot]
	group singleflight.Group
}

// NewAvailabilityService returns the discovery read model. Snapshots older
// than refreshInterval are rebuilt on the next query; zero rebuilds on every
// query. Date buckets are evaluated in loc.
func NewAvailabilityService(eventRepo domain.EventRepository,
	fields FieldLookup,
	loc *time.Location,
	refreshInterval time.Duration,
	clock Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &availabilityIndex{
		eventRepo:       eventRepo,
		fields:          fields,
		loc:             loc,
		refreshInterval: refreshInterval,
		now:             clock,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (a *availabilityIndex) ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.AvailabilityEntry, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	snap, err := a.current(ctx)
	if err != nil {
		return nil, err
	}
	return a.apply(snap.entries, filter), nil
}

func (a *availabilityIndex) ListNear(ctx context.Context, point domain.GeoPoint, radiusKm float64, filter domain.AvailabilityFilter) ([]domain.AvailabilityEntry, error) {
	if !(radiusKm > 0) || math.IsInf(radiusKm, 1) {
		return nil, domain.NewValidationError("radius must be a positive number")
	}
	filter.Location = &point
	filter.RadiusKm = radiusKm
	filter.StrictRadius = true
	filter.Sort = domain.SortByDistance
	return a.ListAvailable(ctx, filter)
}

func (a *availabilityIndex) GroupByField(ctx context.Context, filter domain.AvailabilityFilter) ([]domain.FieldSummary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	sort := filter.Sort
	filter.Sort = domain.SortByTime
	entries, err := a.ListAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}

	byField := make(map[string]*domain.FieldSummary)
	var order []string
	for _, e := range entries {
		g, ok := byField[e.FieldID]
		if !ok {
			g = &domain.FieldSummary{
				FieldID:      e.FieldID,
				BusinessName: e.BusinessName,
				Address:      e.Address,
				Location:     e.Location,
				DistanceKm:   e.DistanceKm,
				NextEventAt:  e.ScheduledAt,
			}
			byField[e.FieldID] = g
			order = append(order, e.FieldID)
		}
		g.TotalOpenSlots += e.AvailableSpaces
		if e.ScheduledAt.Before(g.NextEventAt) {
			g.NextEventAt = e.ScheduledAt
		}
		g.Events = append(g.Events, e)
	}

	out := make([]domain.FieldSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byField[id])
	}
	byDistance := filter.Location != nil || sort == domain.SortByDistance
	slices.SortStableFunc(out, func(x, y domain.FieldSummary) int {
		if byDistance {
			if c := compareDistance(x.DistanceKm, y.DistanceKm); c != 0 {
				return c
			}
		}
		if c := x.NextEventAt.Compare(y.NextEventAt); c != 0 {
			return c
		}
		return cmp.Compare(x.FieldID, y.FieldID)
	})
	return out, nil
}

func (a *availabilityIndex) Refresh(ctx context.Context) error {
	_, err := a.rebuild(ctx)
	return err
}

// current returns a snapshot no older than the refresh interval.
func (a *availabilityIndex) current(ctx context.Context) (*availabilitySnapshot, error) {
	if s := a.snap.Load(); s != nil && a.refreshInterval > 0 && a.now().Sub(s.builtAt) < a.refreshInterval {
		return s, nil
	}
	return a.rebuild(ctx)
}

// rebuild collapses concurrent rebuilds into one.
func (a *availabilityIndex) rebuild(ctx context.Context) (*availabilitySnapshot, error) {
	v, err, _ := a.group.Do("rebuild", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.contextTimeout)
		defer cancel()
		s, err := a.build(ctx)
		if err != nil {
			return nil, err
		}
		a.snap.Store(s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*availabilitySnapshot), nil
}

func (a *availabilityIndex) build(ctx context.Context) (_ *availabilitySnapshot, err error) {
	ctx, span := tracer.Start(ctx, "availability.Rebuild")
	defer func() { endSpan(span, err) }()

	builtAt := a.now()
	events, err := a.eventRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	fields := a.loadFields(ctx, events)

	entries := make([]domain.AvailabilityEntry, 0, len(events))
	for _, ev := range events {
		if ev.Status.Terminal() {
			continue
		}
		entries = append(entries, newEntry(ev, fields[ev.FieldID]))
	}
	return &availabilitySnapshot{builtAt: builtAt, entries: entries}, nil
}

// loadFields fetches metadata for each distinct field. Failed lookups are
// logged and left out; their events are listed without field data.
func (a *availabilityIndex) loadFields(ctx context.Context, events []*domain.Event) map[string]*domain.Field {
	var (
		mu  sync.Mutex
		out = make(map[string]*domain.Field)
		g   errgroup.Group
	)
	g.SetLimit(metadataConcurrency)
	seen := make(map[string]struct{})
	for _, ev := range events {
		if _, ok := seen[ev.FieldID]; ok {
			continue
		}
		seen[ev.FieldID] = struct{}{}
		fieldID := ev.FieldID
		g.Go(func() error {
			f, err := a.fields.Get(ctx, fieldID)
			if err != nil {
				a.logger.WarnContext(ctx, "field metadata unavailable", "field_id", fieldID, "error", err)
				return nil
			}
			mu.Lock()
			out[fieldID] = f
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func newEntry(ev *domain.Event, f *domain.Field) domain.AvailabilityEntry {
	e := domain.AvailabilityEntry{
		EventID:           ev.ID,
		FieldID:           ev.FieldID,
		FieldType:         ev.FieldType,
		Title:             ev.Title,
		ScheduledAt:       ev.ScheduledAt,
		Status:            ev.Status,
		Capacity:          ev.Capacity,
		RegisteredPlayers: ev.RegisteredPlayers(),
		AvailableSpaces:   ev.AvailableSpaces(),
	}
	if f == nil {
		return e
	}
	e.FieldKnown = true
	e.BusinessName = f.BusinessName
	e.Address = f.Address
	if f.Location != nil {
		loc := *f.Location
		e.Location = &loc
	}
	if f.PricePerPlayer != nil {
		p := *f.PricePerPlayer
		e.PricePerPlayer = &p
	}
	if f.Rating != nil {
		r := *f.Rating
		e.Rating = &r
	}
	return e
}

// apply filters and sorts a copy of entries.
func (a *availabilityIndex) apply(entries []domain.AvailabilityEntry, f domain.AvailabilityFilter) []domain.AvailabilityEntry {
	from, to, bounded := f.DateBucket.Range(a.now(), a.loc)
	out := make([]domain.AvailabilityEntry, 0, len(entries))
	for _, e := range entries {
		if !f.IncludeStarted && e.Status != domain.StatusOpen && e.Status != domain.StatusFull {
			continue
		}
		if f.FieldType != domain.FieldTypeUnknown && e.FieldType != f.FieldType {
			continue
		}
		if bounded && (e.ScheduledAt.Before(from) || !e.ScheduledAt.Before(to)) {
			continue
		}
		if f.MinFreeSlots > 0 && e.AvailableSpaces < f.MinFreeSlots {
			continue
		}
		if f.MaxPrice != nil && (e.PricePerPlayer == nil || *e.PricePerPlayer > *f.MaxPrice) {
			continue
		}
		if !matchesText(f.Text, e.Title, e.BusinessName, e.Address) {
			continue
		}
		e.DistanceKm = nil
		if f.Location != nil && e.Location != nil {
			d := haversineKm(*f.Location, *e.Location)
			e.DistanceKm = &d
		}
		if f.RadiusKm > 0 {
			if e.DistanceKm == nil {
				if f.StrictRadius {
					continue
				}
			} else if *e.DistanceKm > f.RadiusKm {
				continue
			}
		}
		out = append(out, e)
	}

	slices.SortStableFunc(out, func(x, y domain.AvailabilityEntry) int {
		switch {
		case f.Sort == domain.SortByDistance:
			if c := compareDistance(x.DistanceKm, y.DistanceKm); c != 0 {
				return c
			}
		case f.RadiusKm > 0 && (x.DistanceKm == nil) != (y.DistanceKm == nil):
			// Entries kept without coordinates trail the ones inside the radius.
			if x.DistanceKm == nil {
				return 1
			}
			return -1
		}
		if c := x.ScheduledAt.Compare(y.ScheduledAt); c != 0 {
			return c
		}
		return cmp.Compare(x.EventID, y.EventID)
	})
	return out
}

// compareDistance orders known distances ascending with unknown ones last.
func compareDistance(x, y *float64) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return 1
	case y == nil:
		return -1
	}
	return cmp.Compare(*x, *y)
}

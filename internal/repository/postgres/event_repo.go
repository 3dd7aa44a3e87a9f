package postgres

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lib/pq"

	"fieldbooking/internal/domain"
)

const eventColumns = `id, field_id, field_type, title, host_id, scheduled_at, status, capacity, version,
		created_at, updated_at, started_at, finished_at, cancelled_at`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns an EventRepository backed by Postgres. Update
// locks the event row with SELECT ... FOR UPDATE for the duration of the
// callback; the partial unique index on event_slots backs the one seat per
// player rule.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		return domain.NewValidationError("event id is required")
	}
	if err := e.CheckInvariants(); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin create event", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := tx.ExecContext(ctx, query,
		e.ID, e.FieldID, e.FieldType.Code(), e.Title, e.HostID, e.ScheduledAt.UTC(), e.Status.Code(), e.Capacity, e.Version,
		e.CreatedAt.UTC(), e.UpdatedAt.UTC(), nullTime(e.StartedAt), nullTime(e.FinishedAt), nullTime(e.CancelledAt),
	); err != nil {
		return classify("insert event", err)
	}
	for i, s := range e.Slots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_slots (event_id, slot_id, position, role, side, idx, occupant_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, e.ID, s.ID, i, string(s.Role), string(s.Side), s.Index, nullString(s.OccupantID)); err != nil {
			return classify("insert event slot", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return classify("commit create event", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, err := loadEvent(ctx, r.DB, id, false)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, fn func(*domain.Event) error) (*domain.Event, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin update event", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := loadEvent(ctx, tx, id, true)
	if err != nil {
		return nil, err
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

	if _, err := tx.ExecContext(ctx, `
		UPDATE events
		SET title = $1, status = $2, version = $3, updated_at = $4, started_at = $5, finished_at = $6, cancelled_at = $7
		WHERE id = $8
	`, work.Title, work.Status.Code(), work.Version, work.UpdatedAt.UTC(),
		nullTime(work.StartedAt), nullTime(work.FinishedAt), nullTime(work.CancelledAt), work.ID,
	); err != nil {
		return nil, classify("update event", err)
	}

	// Release seats before claiming new ones so the unique index never sees
	// a player twice mid-statement.
	for _, pass := range []bool{false, true} {
		for i, s := range work.Slots {
			before := cur.Slots[i].OccupantID
			if s.OccupantID == before || s.Occupied() != pass {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE event_slots SET occupant_id = $1 WHERE event_id = $2 AND slot_id = $3`,
				nullString(s.OccupantID), work.ID, s.ID,
			); err != nil {
				return nil, classify("update event slot", err)
			}
		}
	}

	if !slices.Equal(cur.Attendance, work.Attendance) {
		if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendance WHERE event_id = $1`, work.ID); err != nil {
			return nil, classify("clear attendance", err)
		}
		for _, a := range work.Attendance {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO event_attendance (event_id, player_id, slot_id, attended)
				VALUES ($1, $2, $3, $4)
			`, work.ID, a.PlayerID, a.SlotID, a.Attended); err != nil {
				return nil, classify("insert attendance", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("commit update event", err)
	}
	return work, nil
}

func (r *eventRepository) ListActive(ctx context.Context) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status IN ('OPEN', 'FULL', 'IN_PROGRESS')
		ORDER BY scheduled_at, id
	`
	return r.list(ctx, query)
}

func (r *eventRepository) ListTerminal(ctx context.Context, before time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status IN ('FINISHED', 'CANCELLED') AND updated_at < $1
		ORDER BY scheduled_at, id
	`
	return r.list(ctx, query, before.UTC())
}

func (r *eventRepository) DeleteTerminal(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM events WHERE id = $1 AND status IN ('FINISHED', 'CANCELLED')`, id)
	if err != nil {
		return classify("delete event", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return classify("delete event", err)
	}
	if n > 0 {
		return nil
	}
	var code string
	err = r.DB.QueryRowContext(ctx, `SELECT status FROM events WHERE id = $1`, id).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("event %s not found", id)
	}
	if err != nil {
		return classify("get event status", err)
	}
	return domain.NewStateError("event %s is %s and cannot be deleted", id, code)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list events", err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	ids := make([]string, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list events", err)
	}
	if len(ids) == 0 {
		return events, nil
	}

	occupants, err := loadOccupants(ctx, r.DB,
		`SELECT event_id, slot_id, occupant_id FROM event_slots WHERE event_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	attendance, err := loadAttendance(ctx, r.DB,
		`SELECT event_id, player_id, slot_id, attended FROM event_attendance WHERE event_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if err := fillEvent(e, occupants[e.ID], attendance[e.ID]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// loadEvent reads an event with its slots and attendance. With forUpdate the
// event row stays locked until q's transaction ends.
func loadEvent(ctx context.Context, q queryer, id string, forUpdate bool) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("event %s not found", id)
		}
		return nil, err
	}
	occupants, err := loadOccupants(ctx, q,
		`SELECT event_id, slot_id, occupant_id FROM event_slots WHERE event_id = $1`, id)
	if err != nil {
		return nil, err
	}
	attendance, err := loadAttendance(ctx, q,
		`SELECT event_id, player_id, slot_id, attended FROM event_attendance WHERE event_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := fillEvent(e, occupants[id], attendance[id]); err != nil {
		return nil, err
	}
	return e, nil
}

func scanEvent(s scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		fieldType, status                  string
		startedAt, finishedAt, cancelledAt sql.NullTime
	)
	err := s.Scan(&e.ID, &e.FieldID, &fieldType, &e.Title, &e.HostID, &e.ScheduledAt, &status, &e.Capacity, &e.Version,
		&e.CreatedAt, &e.UpdatedAt, &startedAt, &finishedAt, &cancelledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, classify("scan event", err)
	}
	if e.FieldType, err = domain.FieldTypeFromCode(fieldType); err != nil {
		return nil, fmt.Errorf("event %s: %w", e.ID, err)
	}
	if e.Status, err = domain.EventStatusFromCode(status); err != nil {
		return nil, fmt.Errorf("event %s: %w", e.ID, err)
	}
	e.ScheduledAt = e.ScheduledAt.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	e.StartedAt = timePtr(startedAt)
	e.FinishedAt = timePtr(finishedAt)
	e.CancelledAt = timePtr(cancelledAt)
	return e, nil
}

// loadOccupants returns slot occupancy keyed by event id then slot id.
func loadOccupants(ctx context.Context, q queryer, query string, args ...any) (map[string]map[string]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list event slots", err)
	}
	defer rows.Close()
	out := make(map[string]map[string]string)
	for rows.Next() {
		var eventID, slotID string
		var occupant sql.NullString
		if err := rows.Scan(&eventID, &slotID, &occupant); err != nil {
			return nil, classify("scan event slot", err)
		}
		if out[eventID] == nil {
			out[eventID] = make(map[string]string)
		}
		out[eventID][slotID] = occupant.String
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list event slots", err)
	}
	return out, nil
}

func loadAttendance(ctx context.Context, q queryer, query string, args ...any) (map[string][]domain.AttendeeRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list attendance", err)
	}
	defer rows.Close()
	out := make(map[string][]domain.AttendeeRecord)
	for rows.Next() {
		var eventID string
		var a domain.AttendeeRecord
		if err := rows.Scan(&eventID, &a.PlayerID, &a.SlotID, &a.Attended); err != nil {
			return nil, classify("scan attendance", err)
		}
		out[eventID] = append(out[eventID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list attendance", err)
	}
	return out, nil
}

// fillEvent rebuilds the slot list from the roster template and applies the
// stored occupancy. Attendance is ordered like the slots.
func fillEvent(e *domain.Event, occupants map[string]string, attendance []domain.AttendeeRecord) error {
	tmpl, err := domain.Template(e.FieldType)
	if err != nil {
		return err
	}
	if len(occupants) != len(tmpl.Slots) {
		return fmt.Errorf("event %s: %d stored slots, template has %d", e.ID, len(occupants), len(tmpl.Slots))
	}
	e.Slots = make([]domain.PositionSlot, len(tmpl.Slots))
	position := make(map[string]int, len(tmpl.Slots))
	for i, d := range tmpl.Slots {
		id := d.SlotID()
		occupant, ok := occupants[id]
		if !ok {
			return fmt.Errorf("event %s: slot %s missing", e.ID, id)
		}
		e.Slots[i] = domain.PositionSlot{ID: id, Role: d.Role, Side: d.Side, Index: d.Index, OccupantID: occupant}
		position[id] = i
	}
	if len(attendance) > 0 {
		sorted := make([]domain.AttendeeRecord, len(attendance))
		copy(sorted, attendance)
		slices.SortStableFunc(sorted, func(a, b domain.AttendeeRecord) int {
			return cmp.Compare(position[a.SlotID], position[b.SlotID])
		})
		e.Attendance = sorted
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

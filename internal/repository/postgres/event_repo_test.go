package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"fieldbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow       = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	testScheduled = testNow.Add(2 * time.Hour)
	eventCols     = []string{"id", "field_id", "field_type", "title", "host_id", "scheduled_at", "status", "capacity",
		"version", "created_at", "updated_at", "started_at", "finished_at", "cancelled_at"}
)

func eventRows(rows ...[]driver.Value) *sqlmock.Rows {
	r := sqlmock.NewRows(eventCols)
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func openEventRow(id, fieldType string, capacity, version int) []driver.Value {
	return []driver.Value{id, "field-1", fieldType, "Pickup", "host-1", testScheduled, "OPEN", capacity, version,
		testNow, testNow, nil, nil, nil}
}

// slotRows returns the stored slots of an event of type ft; occupants maps
// slot id to player.
func slotRows(t *testing.T, eventID string, ft domain.FieldType, occupants map[string]string) *sqlmock.Rows {
	t.Helper()
	tmpl, err := domain.Template(ft)
	require.NoError(t, err)
	rows := sqlmock.NewRows([]string{"event_id", "slot_id", "occupant_id"})
	for _, d := range tmpl.Slots {
		var occupant any
		if p, ok := occupants[d.SlotID()]; ok {
			occupant = p
		}
		rows.AddRow(eventID, d.SlotID(), occupant)
	}
	return rows
}

func emptyAttendance() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"event_id", "player_id", "slot_id", "attended"})
}

func expectLoad(t *testing.T, mock sqlmock.Sqlmock, forUpdate bool, occupants map[string]string) {
	t.Helper()
	q := `SELECT id, field_id, field_type, .* FROM events WHERE id = \$1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	mock.ExpectQuery(q).WithArgs("ev-1").WillReturnRows(eventRows(openEventRow("ev-1", "F5", 10, 3)))
	mock.ExpectQuery(`SELECT event_id, slot_id, occupant_id FROM event_slots WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(slotRows(t, "ev-1", domain.FieldTypeFutbol5, occupants))
	mock.ExpectQuery(`SELECT event_id, player_id, slot_id, attended FROM event_attendance WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(emptyAttendance())
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	tmpl, err := domain.Template(domain.FieldTypeFutbol5)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events \(id, field_id, field_type`).
					WithArgs("ev-1", "field-1", "F5", "Pickup", "host-1", testScheduled, "OPEN", 10, 0,
						testNow, testNow, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				for i, d := range tmpl.Slots {
					mock.ExpectExec(`INSERT INTO event_slots`).
						WithArgs("ev-1", d.SlotID(), i, string(d.Role), string(d.Side), d.Index, sqlmock.AnyArg()).
						WillReturnResult(sqlmock.NewResult(0, 1))
				}
				mock.ExpectCommit()
			},
		},
		{
			name: "duplicate id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO events`).WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "connection lost",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			wantErr: domain.ErrTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			ev := domain.NewEvent("field-1", "Pickup", "host-1", tmpl, testScheduled, testNow)
			ev.ID = "ev-1"
			err = NewEventRepository(db).Create(ctx, ev)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_CreateRejectsInvalidEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = NewEventRepository(db).Create(context.Background(), &domain.Event{})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		expectLoad(t, mock, false, map[string]string{"a-gk-1": "p1", "b-fwd-1": "p2"})
		ev, err := NewEventRepository(db).GetByID(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, "ev-1", ev.ID)
		assert.Equal(t, domain.FieldTypeFutbol5, ev.FieldType)
		assert.Equal(t, domain.StatusOpen, ev.Status)
		assert.Equal(t, 3, ev.Version)
		assert.Equal(t, testScheduled, ev.ScheduledAt)
		assert.Equal(t, 2, ev.RegisteredPlayers())
		assert.Equal(t, 8, ev.AvailableSpaces())
		assert.Equal(t, "p1", ev.Slots[0].OccupantID)
		assert.Nil(t, ev.StartedAt)
		require.NoError(t, ev.CheckInvariants())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, field_id, field_type`).WithArgs("ev-missing").WillReturnError(sql.ErrNoRows)
		_, err = NewEventRepository(db).GetByID(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown status code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		row := openEventRow("ev-1", "F5", 10, 0)
		row[6] = "PAUSED"
		mock.ExpectQuery(`SELECT id, field_id, field_type`).WithArgs("ev-1").WillReturnRows(eventRows(row))
		_, err = NewEventRepository(db).GetByID(ctx, "ev-1")
		require.Error(t, err)
	})

	t.Run("missing slot rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, field_id, field_type`).WithArgs("ev-1").
			WillReturnRows(eventRows(openEventRow("ev-1", "F5", 10, 0)))
		mock.ExpectQuery(`FROM event_slots`).WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "slot_id", "occupant_id"}).AddRow("ev-1", "a-gk-1", nil))
		mock.ExpectQuery(`FROM event_attendance`).WithArgs("ev-1").WillReturnRows(emptyAttendance())
		_, err = NewEventRepository(db).GetByID(ctx, "ev-1")
		require.Error(t, err)
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("join persists the claimed slot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectLoad(t, mock, true, map[string]string{"a-gk-1": "p1"})
		mock.ExpectExec(`UPDATE events SET title = \$1, status = \$2, version = \$3`).
			WithArgs("Pickup", "OPEN", 4, testNow.Add(time.Minute), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE event_slots SET occupant_id = \$1`).
			WithArgs("p2", "ev-1", "b-gk-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ev, err := NewEventRepository(db).Update(ctx, "ev-1", func(e *domain.Event) error {
			return e.Occupy("b-gk-1", "p2", testNow.Add(time.Minute))
		})
		require.NoError(t, err)
		assert.Equal(t, 4, ev.Version)
		assert.Equal(t, 2, ev.RegisteredPlayers())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("complete writes attendance", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		row := openEventRow("ev-1", "F5", 10, 7)
		row[6] = "IN_PROGRESS"
		row[11] = testScheduled
		mock.ExpectQuery(`FROM events WHERE id = \$1 FOR UPDATE`).WithArgs("ev-1").WillReturnRows(eventRows(row))
		mock.ExpectQuery(`FROM event_slots`).WithArgs("ev-1").
			WillReturnRows(slotRows(t, "ev-1", domain.FieldTypeFutbol5, map[string]string{"a-gk-1": "p1", "b-gk-1": "p2"}))
		mock.ExpectQuery(`FROM event_attendance`).WithArgs("ev-1").WillReturnRows(emptyAttendance())
		mock.ExpectExec(`UPDATE events SET`).
			WithArgs("Pickup", "FINISHED", 8, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM event_attendance WHERE event_id = \$1`).WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO event_attendance`).WithArgs("ev-1", "p1", "a-gk-1", true).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO event_attendance`).WithArgs("ev-1", "p2", "b-gk-1", false).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ev, err := NewEventRepository(db).Update(ctx, "ev-1", func(e *domain.Event) error {
			return e.Complete([]string{"p1"}, testScheduled.Add(time.Hour))
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFinished, ev.Status)
		assert.Len(t, ev.Attendance, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejected callback rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectLoad(t, mock, true, map[string]string{"a-gk-1": "p1"})
		mock.ExpectRollback()

		_, err = NewEventRepository(db).Update(ctx, "ev-1", func(e *domain.Event) error {
			return e.Occupy("a-gk-1", "p2", testNow)
		})
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent seat claim hits the unique index", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		expectLoad(t, mock, true, nil)
		mock.ExpectExec(`UPDATE events SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE event_slots`).WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		_, err = NewEventRepository(db).Update(ctx, "ev-1", func(e *domain.Event) error {
			return e.Occupy("a-gk-1", "p1", testNow)
		})
		require.ErrorIs(t, err, domain.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE`).WithArgs("ev-1").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = NewEventRepository(db).Update(ctx, "ev-1", func(*domain.Event) error { return nil })
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM events WHERE status IN \('OPEN', 'FULL', 'IN_PROGRESS'\) ORDER BY scheduled_at, id`).
		WillReturnRows(eventRows(openEventRow("ev-1", "F5", 10, 0), openEventRow("ev-2", "F7", 14, 2)))
	slots := slotRows(t, "ev-1", domain.FieldTypeFutbol5, map[string]string{"a-gk-1": "p1"})
	tmpl7, err := domain.Template(domain.FieldTypeFutbol7)
	require.NoError(t, err)
	for _, d := range tmpl7.Slots {
		slots.AddRow("ev-2", d.SlotID(), nil)
	}
	mock.ExpectQuery(`FROM event_slots WHERE event_id = ANY\(\$1\)`).
		WithArgs(pq.Array([]string{"ev-1", "ev-2"})).
		WillReturnRows(slots)
	mock.ExpectQuery(`FROM event_attendance WHERE event_id = ANY\(\$1\)`).
		WithArgs(pq.Array([]string{"ev-1", "ev-2"})).
		WillReturnRows(emptyAttendance())

	events, err := NewEventRepository(db).ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].RegisteredPlayers())
	assert.Equal(t, domain.FieldTypeFutbol7, events[1].FieldType)
	assert.Equal(t, 14, events[1].AvailableSpaces())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_ListTerminalEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE status IN \('FINISHED', 'CANCELLED'\) AND updated_at < \$1`).
		WithArgs(testNow).
		WillReturnRows(eventRows())

	events, err := NewEventRepository(db).ListTerminal(context.Background(), testNow)
	require.NoError(t, err)
	assert.Empty(t, events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_DeleteTerminal(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "deleted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1 AND status IN`).WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "still active",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT status FROM events`).WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("OPEN"))
			},
			wantErr: domain.ErrState,
		},
		{
			name: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WithArgs("ev-1").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT status FROM events`).WithArgs("ev-1").WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).DeleteTerminal(context.Background(), "ev-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

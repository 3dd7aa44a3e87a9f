package services

import (
	"context"
	"log/slog"
	"time"

	"fieldbooking/internal/domain"
)

// Maintenance runs the periodic background jobs: rebuilding the availability
// index and archiving old terminal events.
type Maintenance struct {
	Availability    domain.AvailabilityService
	Events          domain.EventService
	RefreshInterval time.Duration
	ArchiveInterval time.Duration
	// Retention is how long a terminal event stays in the store after its last update.
	Retention time.Duration
	Now       Clock
	Logger    *slog.Logger
}

// Run blocks until ctx is done. A zero interval disables that job.
func (m *Maintenance) Run(ctx context.Context) {
	now := m.Now
	if now == nil {
		now = SystemClock
	}
	refresh, stopRefresh := tick(m.RefreshInterval)
	defer stopRefresh()
	archive, stopArchive := tick(m.ArchiveInterval)
	defer stopArchive()
	m.Logger.Info("maintenance started",
		slog.Duration("refresh_interval", m.RefreshInterval),
		slog.Duration("archive_interval", m.ArchiveInterval),
	)

	for {
		select {
		case <-ctx.Done():
			m.Logger.Info("maintenance stopped")
			return
		case <-refresh:
			if err := m.Availability.Refresh(ctx); err != nil && ctx.Err() == nil {
				m.Logger.Error("availability refresh failed", slog.Any("error", err))
			}
		case <-archive:
			m.archive(ctx, now().Add(-m.Retention))
		}
	}
}

func (m *Maintenance) archive(ctx context.Context, before time.Time) {
	n, err := m.Events.ArchiveTerminal(ctx, before)
	if err != nil && ctx.Err() == nil {
		m.Logger.Error("archive run failed", slog.Int("archived", n), slog.Any("error", err))
		return
	}
	if n > 0 {
		m.Logger.Info("archived terminal events", slog.Int("archived", n), slog.Time("before", before))
	}
}

// tick returns a nil channel when d is not positive, so its select case never fires.
func tick(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(d)
	return t.C, t.Stop
}

package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"pitwall/internal/logging"
	"pitwall/internal/metrics"
	"pitwall/internal/models"
	"pitwall/internal/repositories"
)

// LapSource loads the raw laps of one F1 session.
type LapSource interface {
	SessionLaps(ctx context.Context, year int, circuit, session string) ([]models.LapRecord, error)
}

// SessionService loads a session, keeps the requested drivers and exports
// the reformatted laps to the lap repository.
type SessionService struct {
	source LapSource
	laps   repositories.LapRepository
	events EventPublisher
}

// NewSessionService creates a new SessionService. events may be nil.
func NewSessionService(source LapSource, laps repositories.LapRepository, events EventPublisher) *SessionService {
	return &SessionService{
		source: source,
		laps:   laps,
		events: events,
	}
}

// ExportSession runs load, filter and export for req and returns the rows
// written to the lap repository.
func (s *SessionService) ExportSession(ctx context.Context, req models.SessionRequest) ([]models.FilteredLap, error) {
	log := logging.Logger().With().
		Int("year", req.Year).
		Str("circuit", req.Circuit).
		Str("session", req.Session).
		Strs("drivers", req.Drivers).
		Logger()

	records, err := s.source.SessionLaps(ctx, req.Year, req.Circuit, req.Session)
	if err != nil {
		metrics.SessionExportsTotal.WithLabelValues("source_error").Inc()
		return nil, err
	}
	if len(records) == 0 {
		metrics.SessionExportsTotal.WithLabelValues("empty").Inc()
		return nil, ErrNoLapData
	}
	log.Debug().Int("laps", len(records)).Msg("session loaded")

	filtered := FilterByDrivers(records, req.Drivers)
	if len(filtered) == 0 {
		metrics.SessionExportsTotal.WithLabelValues("no_drivers").Inc()
		return nil, fmt.Errorf("%w: %s", ErrDriversNotFound, strings.Join(req.Drivers, ", "))
	}

	rows := ToFilteredLaps(filtered)
	if err := s.laps.ReplaceAll(rows); err != nil {
		metrics.SessionExportsTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("failed to save filtered laps: %w", err)
	}

	metrics.SessionExportsTotal.WithLabelValues("ok").Inc()
	log.Info().Int("laps", len(rows)).Msg("session exported")
	publish(s.events, EventSessionExported, map[string]interface{}{
		"year":    req.Year,
		"circuit": req.Circuit,
		"session": req.Session,
		"drivers": req.Drivers,
		"laps":    len(rows),
	})
	return rows, nil
}

// FilterByDrivers keeps the laps whose driver abbreviation or number is in
// drivers. Matching ignores case.
func FilterByDrivers(records []models.LapRecord, drivers []string) []models.LapRecord {
	wanted := make(map[string]bool, len(drivers))
	for _, d := range drivers {
		wanted[strings.ToUpper(strings.TrimSpace(d))] = true
	}

	filtered := make([]models.LapRecord, 0, len(records))
	for _, r := range records {
		if wanted[strings.ToUpper(r.Driver)] || wanted[r.DriverNumber] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ToFilteredLaps drops the session-time columns and formats the lap and
// sector durations.
func ToFilteredLaps(records []models.LapRecord) []models.FilteredLap {
	rows := make([]models.FilteredLap, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.FilteredLap{
			Time:         formatOptional(r.Time),
			Driver:       r.Driver,
			DriverNumber: r.DriverNumber,
			LapTime:      formatOptional(r.LapTime),
			LapNumber:    r.LapNumber,
			Stint:        r.Stint,
			IsPitOutLap:  r.IsPitOutLap,
			Sector1Time:  formatOptional(r.Sector1Time),
			Sector2Time:  formatOptional(r.Sector2Time),
			Sector3Time:  formatOptional(r.Sector3Time),
			SpeedI1:      r.SpeedI1,
			SpeedI2:      r.SpeedI2,
			SpeedST:      r.SpeedST,
			Compound:     r.Compound,
			TyreLife:     r.TyreLife,
			FreshTyre:    r.FreshTyre,
			Team:         r.Team,
		})
	}
	return rows
}

// FormatLapDuration renders d as whole minutes, a colon and the remaining
// seconds with three decimals: 106.25s becomes "1:46.250", 65.5s "1:5.500".
func FormatLapDuration(d time.Duration) string {
	total := d.Seconds()
	minutes := math.Floor(total / 60)
	return fmt.Sprintf("%d:%.3f", int(minutes), total-minutes*60)
}

func formatOptional(d *time.Duration) *string {
	if d == nil {
		return nil
	}
	s := FormatLapDuration(*d)
	return &s
}

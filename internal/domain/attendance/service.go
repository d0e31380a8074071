package attendance

import (
	"context"
	"time"
)

// Service is the attendance ledger: a two-state machine per employee
// (clocked out / clocked in) backed by the store's open-record invariant.
type Service struct {
	Store StoreAPI
	// Loc pins date and weekday derivation to one reference timezone so
	// calendar output does not depend on server configuration.
	Loc *time.Location

	now func() time.Time
}

func NewService(store StoreAPI, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{Store: store, Loc: loc, now: time.Now}
}

func (s *Service) IsClockedIn(ctx context.Context, employeeID string) (bool, error) {
	return s.Store.HasOpen(ctx, employeeID)
}

// ClockIn opens a session. An employee with a session already open fails
// with ErrAlreadyClockedIn; the store guard also holds under concurrent
// calls.
func (s *Service) ClockIn(ctx context.Context, employeeID, location string, mode WorkMode) (ClockRecord, error) {
	if mode == "" {
		mode = WorkModeOffice
	}
	return s.Store.Insert(ctx, employeeID, s.now().UTC(), location, mode)
}

// ClockOut closes the open session, failing with ErrNoOpenSession when there
// is none. Nothing is mutated on failure.
func (s *Service) ClockOut(ctx context.Context, employeeID string) (ClockRecord, error) {
	return s.Store.CloseOpen(ctx, employeeID, s.now().UTC())
}

// Calendar returns the employee's records newest first, each with the
// derived date and weekday name.
func (s *Service) Calendar(ctx context.Context, employeeID string) ([]CalendarEntry, error) {
	records, err := s.Store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return BuildCalendar(records, s.Loc), nil
}

// CloseStaleOpen force-closes open sessions older than the given age. It
// backs the optional sweeper job for deployments migrating data from systems
// that allowed sessions to stay open indefinitely.
func (s *Service) CloseStaleOpen(ctx context.Context, olderThan time.Duration) (int, error) {
	now := s.now().UTC()
	return s.Store.CloseOlderThan(ctx, now.Add(-olderThan), now)
}

// BuildCalendar derives calendar entries from clock records. Date and
// weekday come from the clock-in instant rendered in loc.
func BuildCalendar(records []ClockRecord, loc *time.Location) []CalendarEntry {
	if loc == nil {
		loc = time.UTC
	}
	entries := make([]CalendarEntry, 0, len(records))
	for _, rec := range records {
		local := rec.ClockIn.In(loc)
		entries = append(entries, CalendarEntry{
			Date:     local.Format("2006-01-02"),
			DayName:  local.Weekday().String(),
			ClockIn:  rec.ClockIn,
			ClockOut: rec.ClockOut,
			Location: rec.Location,
			WorkMode: rec.WorkMode,
		})
	}
	return entries
}

package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	// Insert creates an open record. The store enforces the at-most-one-open
	// invariant and returns ErrAlreadyClockedIn when a session is open, so
	// two racing clock-ins cannot both succeed.
	Insert(ctx context.Context, employeeID string, clockIn time.Time, location string, mode WorkMode) (ClockRecord, error)
	// CloseOpen closes the oldest open record for the employee at the given
	// instant, or fails with ErrNoOpenSession. Closing the oldest first means
	// any stray extra open records left by earlier systems drain
	// deterministically.
	CloseOpen(ctx context.Context, employeeID string, at time.Time) (ClockRecord, error)
	HasOpen(ctx context.Context, employeeID string) (bool, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]ClockRecord, error)
	// CloseOlderThan closes every open record whose clock-in is before cutoff
	// and reports how many were closed.
	CloseOlderThan(ctx context.Context, cutoff, at time.Time) (int, error)
}

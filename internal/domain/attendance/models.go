package attendance

import (
	"fmt"
	"time"
)

// WorkMode tags where a shift is worked. Empty input defaults to office.
type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
)

func ParseWorkMode(value string) (WorkMode, error) {
	switch WorkMode(value) {
	case "":
		return WorkModeOffice, nil
	case WorkModeOffice, WorkModeRemote, WorkModeHybrid:
		return WorkMode(value), nil
	default:
		return "", fmt.Errorf("invalid work mode %q", value)
	}
}

// ClockRecord is one clock-in/clock-out pair. ClockOut nil means the session
// is still open; once set the record never changes again.
type ClockRecord struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employeeId"`
	ClockIn    time.Time  `json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut"`
	Location   string     `json:"location,omitempty"`
	WorkMode   WorkMode   `json:"workFromType"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (r ClockRecord) Open() bool {
	return r.ClockOut == nil
}

// CalendarEntry is a clock record enriched with the calendar date and weekday
// name derived from the clock-in instant in the reference timezone.
type CalendarEntry struct {
	Date     string     `json:"date"`
	DayName  string     `json:"dayName"`
	ClockIn  time.Time  `json:"clockIn"`
	ClockOut *time.Time `json:"clockOut"`
	Location string     `json:"location,omitempty"`
	WorkMode WorkMode   `json:"workFromType"`
}

package attendance

import "errors"

var (
	// ErrAlreadyClockedIn means the employee already has an open session.
	ErrAlreadyClockedIn = errors.New("employee already clocked in")
	// ErrNoOpenSession means clock-out was called with nothing open.
	ErrNoOpenSession = errors.New("no open attendance session")
)

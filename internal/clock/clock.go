// Package clock supplies the wall-clock time used to date history entries
// and to pick the day of the daily agenda.
package clock

import "time"

// Clock returns the current local time.
type Clock interface {
	Now() time.Time
}

// System is the Clock backed by time.Now.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Today formats c's current calendar day as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format("2006-01-02")
}

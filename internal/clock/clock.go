// Package clock provides the date source for streak computation. Streaks
// compare calendar days at UTC granularity, so the only operation the
// engine needs is "today as YYYY-MM-DD"; injecting it keeps the streak
// rules testable without sleeping across midnight.
package clock

import (
	"time"
)

const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func System() Clock {
	return systemClock{}
}

// Date formats t as a UTC calendar date.
func Date(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

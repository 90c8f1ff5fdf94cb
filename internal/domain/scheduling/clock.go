package scheduling

import "time"

// Clock supplies the current time. Injecting it keeps past/future checks and
// cancellation timestamps testable against a pinned "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock used outside of tests.
var SystemClock Clock = systemClock{}

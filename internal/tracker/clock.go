package tracker

import "time"

// Clock abstracts wall time so elapsed computation is testable without
// sleeping through real seconds.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

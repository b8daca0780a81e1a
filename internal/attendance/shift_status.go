package attendance

import "time"

// ShiftConfig carries the punctuality thresholds as minutes since local
// midnight. It is a value so per-team schedules can be introduced later
// without touching call sites.
type ShiftConfig struct {
	LateMinute    int // first minute that counts as late
	HalfDayMinute int // last minute that still counts as late
}

// DefaultShiftConfig: on-time before 09:00, late from 09:00 through 10:30
// inclusive, half-day after 10:30.
var DefaultShiftConfig = ShiftConfig{
	LateMinute:    9 * 60,
	HalfDayMinute: 10*60 + 30,
}

// Classify maps a check-in instant to its punctuality status using the
// local wall clock. Exactly 09:00 is late, exactly 10:30 is still late.
func (c ShiftConfig) Classify(checkIn time.Time) Status {
	m := checkIn.Hour()*60 + checkIn.Minute()

	if m < c.LateMinute {
		return StatusOnTime
	}
	if m <= c.HalfDayMinute {
		return StatusLate
	}
	return StatusHalfDay
}

func ClassifyCheckIn(checkIn time.Time) Status {
	return DefaultShiftConfig.Classify(checkIn)
}

package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 8, 24, hour, minute, 0, 0, time.Local)
}

func TestClassifyCheckIn(t *testing.T) {
	cases := []struct {
		name    string
		checkIn time.Time
		want    Status
	}{
		{"early morning", at(6, 30), StatusOnTime},
		{"last on-time minute", at(8, 59), StatusOnTime},
		{"boundary 09:00 is late", at(9, 0), StatusLate},
		{"mid late window", at(9, 45), StatusLate},
		{"boundary 10:30 is still late", at(10, 30), StatusLate},
		{"first half-day minute", at(10, 31), StatusHalfDay},
		{"afternoon", at(14, 0), StatusHalfDay},
		{"just before midnight", at(23, 59), StatusHalfDay},
		{"midnight", at(0, 0), StatusOnTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyCheckIn(tc.checkIn))
		})
	}
}

func TestClassify_SecondsDoNotMatter(t *testing.T) {
	// 08:59:59 is still inside the on-time window
	checkIn := time.Date(2026, 8, 24, 8, 59, 59, 999_000_000, time.Local)
	assert.Equal(t, StatusOnTime, ClassifyCheckIn(checkIn))
}

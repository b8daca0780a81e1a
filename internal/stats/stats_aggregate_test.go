package stats

import (
	"testing"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/employee"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", value, time.Local)
	assert.NoError(t, err)
	return d
}

func record(empID uuid.UUID, workDate time.Time, status attendance.Status, duration int64, open bool) attendance.AttendanceRecord {
	r := attendance.AttendanceRecord{
		ID:         uuid.New(),
		EmployeeID: empID,
		WorkDate:   workDate,
		CheckIn:    workDate.Add(9 * time.Hour),
		Duration:   duration,
		Status:     status,
	}
	if !open {
		out := r.CheckIn.Add(time.Duration(duration) * time.Second)
		r.CheckOut = &out
	}
	return r
}

func TestComputeOverview(t *testing.T) {
	now := day(t, "2026-08-28").Add(11 * time.Hour)
	today := day(t, "2026-08-28")
	yesterday := day(t, "2026-08-27")
	emp := uuid.New()

	t.Run("empty dataset yields zero rates not NaN", func(t *testing.T) {
		o := ComputeOverview(now, 6, nil)
		assert.Equal(t, 6, o.TotalEmployees)
		assert.Zero(t, o.ActiveNow)
		assert.Zero(t, o.LateToday)
		assert.Zero(t, o.OnTimeRate)
		assert.Zero(t, o.AverageHours)
	})

	t.Run("mixed snapshot", func(t *testing.T) {
		records := []attendance.AttendanceRecord{
			record(emp, today, attendance.StatusOnTime, 0, true),
			record(emp, today, attendance.StatusLate, 3600, false),
			record(emp, today, attendance.StatusHalfDay, 7200, false),
			record(emp, yesterday, attendance.StatusOnTime, 28800, false),
		}

		o := ComputeOverview(now, 6, records)

		assert.Equal(t, 1, o.ActiveNow)
		assert.Equal(t, 2, o.LateToday)
		assert.InDelta(t, 50.0, o.OnTimeRate, 0.001)
		// (0+3600+7200+28800)/3600/4 = 2.75 -> 2.8
		assert.InDelta(t, 2.8, o.AverageHours, 0.001)
	})

	t.Run("yesterdays open record is not active now", func(t *testing.T) {
		records := []attendance.AttendanceRecord{
			record(emp, yesterday, attendance.StatusOnTime, 0, true),
		}
		o := ComputeOverview(now, 1, records)
		assert.Zero(t, o.ActiveNow)
	})
}

func TestComputeWeekly(t *testing.T) {
	// Friday 2026-08-28; window is Sat 08-22 .. Fri 08-28
	now := day(t, "2026-08-28").Add(15 * time.Hour)
	emp := uuid.New()

	records := []attendance.AttendanceRecord{
		record(emp, day(t, "2026-08-22"), attendance.StatusOnTime, 100, false),
		record(emp, day(t, "2026-08-28"), attendance.StatusOnTime, 100, false),
		record(emp, day(t, "2026-08-28"), attendance.StatusLate, 100, false),
		// outside the window, must be ignored
		record(emp, day(t, "2026-08-20"), attendance.StatusOnTime, 100, false),
	}

	buckets := ComputeWeekly(now, records)

	assert.Len(t, buckets, 7)
	assert.Equal(t, "Sat", buckets[0].Name)
	assert.Equal(t, "Fri", buckets[6].Name)

	assert.Equal(t, 1, buckets[0].Active)
	assert.Equal(t, 2, buckets[6].Active)
	for i := 1; i < 6; i++ {
		assert.Zero(t, buckets[i].Active, "bucket %d (%s)", i, buckets[i].Name)
	}
}

func TestComputeDistribution(t *testing.T) {
	emp := uuid.New()
	d := day(t, "2026-08-28")

	dist := ComputeDistribution([]attendance.AttendanceRecord{
		record(emp, d, attendance.StatusOnTime, 100, false),
		record(emp, d, attendance.StatusOnTime, 100, false),
		record(emp, d, attendance.StatusLate, 100, false),
		record(emp, d, attendance.StatusHalfDay, 100, false),
	})

	assert.Equal(t, 2, dist.OnTime)
	assert.Equal(t, 1, dist.Late)
	assert.Equal(t, 1, dist.HalfDay)
}

func TestComputeRoster(t *testing.T) {
	now := day(t, "2026-08-28").Add(11 * time.Hour)
	today := day(t, "2026-08-28")
	yesterday := day(t, "2026-08-27")

	alice := employee.Employee{ID: uuid.New(), FullName: "Alex Johnson", BadgeNumber: "EMP-000001", Department: "Engineering"}
	bob := employee.Employee{ID: uuid.New(), FullName: "David Miller", BadgeNumber: "EMP-000005", Department: "Sales"}

	// newest first, as the repository returns them
	records := []attendance.AttendanceRecord{
		record(alice.ID, today, attendance.StatusOnTime, 0, true),
		record(alice.ID, yesterday, attendance.StatusLate, 7200, false),
		record(alice.ID, yesterday, attendance.StatusHalfDay, 3600, false),
	}

	entries := ComputeRoster(now, []employee.Employee{alice, bob}, records)

	assert.Len(t, entries, 2)

	a := entries[0]
	assert.Equal(t, alice.ID.String(), a.EmployeeID)
	assert.Equal(t, 3, a.TotalSessions)
	assert.Equal(t, 1, a.OnTimeCount)
	assert.Equal(t, 2, a.LateCount)
	assert.True(t, a.ClockedIn)
	assert.NotNil(t, a.TodaysRecord)
	assert.Equal(t, "on-time", a.TodaysRecord.Status)
	// (0+7200+3600)/3600/3 = 1.0
	assert.InDelta(t, 1.0, a.AverageHours, 0.001)

	b := entries[1]
	assert.Equal(t, bob.ID.String(), b.EmployeeID)
	assert.Zero(t, b.TotalSessions)
	assert.False(t, b.ClockedIn)
	assert.Nil(t, b.TodaysRecord)
}

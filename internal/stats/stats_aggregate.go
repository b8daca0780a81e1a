package stats

import (
	"math"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/employee"
)

// Overview is the headline card row of the admin dashboard.
type Overview struct {
	TotalEmployees int     `json:"total_employees"`
	ActiveNow      int     `json:"active_now"`
	LateToday      int     `json:"late_today"`
	OnTimeRate     float64 `json:"on_time_rate"`
	AverageHours   float64 `json:"average_hours"`
}

type WeeklyBucket struct {
	Name   string `json:"name"`
	Active int    `json:"active"`
}

type StatusDistribution struct {
	OnTime  int `json:"on_time"`
	Late    int `json:"late"`
	HalfDay int `json:"half_day"`
}

type TodayRecord struct {
	CheckIn  string  `json:"check_in"`
	CheckOut *string `json:"check_out,omitempty"`
	Duration int64   `json:"duration"`
	Status   string  `json:"status"`
}

// RosterEntry is the per-employee rollup behind the admin roster table.
type RosterEntry struct {
	EmployeeID    string       `json:"employee_id"`
	FullName      string       `json:"full_name"`
	Department    string       `json:"department,omitempty"`
	BadgeNumber   string       `json:"badge_number"`
	TotalSessions int          `json:"total_sessions"`
	OnTimeCount   int          `json:"on_time_count"`
	LateCount     int          `json:"late_count"`
	AverageHours  float64      `json:"average_hours"`
	ClockedIn     bool         `json:"clocked_in"`
	TodaysRecord  *TodayRecord `json:"todays_record,omitempty"`
}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func sameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ComputeOverview derives the headline metrics from a full record snapshot.
// Rates are 0 rather than NaN on an empty dataset.
func ComputeOverview(now time.Time, totalEmployees int, records []attendance.AttendanceRecord) Overview {
	var activeNow, lateToday, onTime int
	var totalSeconds int64

	for _, r := range records {
		if sameLocalDay(r.WorkDate, now) {
			if r.CheckOut == nil {
				activeNow++
			}
			if r.Status == attendance.StatusLate || r.Status == attendance.StatusHalfDay {
				lateToday++
			}
		}
		if r.Status == attendance.StatusOnTime {
			onTime++
		}
		totalSeconds += r.Duration
	}

	var onTimeRate, avgHours float64
	if len(records) > 0 {
		onTimeRate = roundTenth(float64(onTime) / float64(len(records)) * 100)
		avgHours = roundTenth(float64(totalSeconds) / 3600 / float64(len(records)))
	}

	return Overview{
		TotalEmployees: totalEmployees,
		ActiveNow:      activeNow,
		LateToday:      lateToday,
		OnTimeRate:     onTimeRate,
		AverageHours:   avgHours,
	}
}

// ComputeWeekly buckets records into the last seven local days, oldest
// first, today last. Records older than the window are ignored.
func ComputeWeekly(now time.Time, records []attendance.AttendanceRecord) []WeeklyBucket {
	buckets := make([]WeeklyBucket, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i-6)
		buckets[i].Name = dayNames[day.Weekday()]
		for _, r := range records {
			if sameLocalDay(r.WorkDate, day) {
				buckets[i].Active++
			}
		}
	}
	return buckets
}

func ComputeDistribution(records []attendance.AttendanceRecord) StatusDistribution {
	var dist StatusDistribution
	for _, r := range records {
		switch r.Status {
		case attendance.StatusOnTime:
			dist.OnTime++
		case attendance.StatusLate:
			dist.Late++
		case attendance.StatusHalfDay:
			dist.HalfDay++
		}
	}
	return dist
}

// ComputeRoster rolls every employee's records up in a single pass over
// the record snapshot.
func ComputeRoster(now time.Time, employees []employee.Employee, records []attendance.AttendanceRecord) []RosterEntry {
	type rollup struct {
		sessions int
		onTime   int
		late     int
		seconds  int64
		today    *attendance.AttendanceRecord
	}

	byEmployee := make(map[string]*rollup, len(employees))
	for i := range records {
		r := &records[i]
		id := r.EmployeeID.String()
		agg, ok := byEmployee[id]
		if !ok {
			agg = &rollup{}
			byEmployee[id] = agg
		}
		agg.sessions++
		switch r.Status {
		case attendance.StatusOnTime:
			agg.onTime++
		case attendance.StatusLate, attendance.StatusHalfDay:
			agg.late++
		}
		agg.seconds += r.Duration
		if sameLocalDay(r.WorkDate, now) && agg.today == nil {
			agg.today = r
		}
	}

	entries := make([]RosterEntry, len(employees))
	for i, e := range employees {
		entry := RosterEntry{
			EmployeeID:  e.ID.String(),
			FullName:    e.FullName,
			Department:  e.Department,
			BadgeNumber: e.BadgeNumber,
		}
		if agg, ok := byEmployee[e.ID.String()]; ok {
			entry.TotalSessions = agg.sessions
			entry.OnTimeCount = agg.onTime
			entry.LateCount = agg.late
			if agg.sessions > 0 {
				entry.AverageHours = roundTenth(float64(agg.seconds) / 3600 / float64(agg.sessions))
			}
			if agg.today != nil {
				entry.ClockedIn = agg.today.CheckOut == nil
				today := TodayRecord{
					CheckIn:  agg.today.CheckIn.Format(time.RFC3339),
					Duration: agg.today.Duration,
					Status:   string(agg.today.Status),
				}
				if agg.today.CheckOut != nil {
					v := agg.today.CheckOut.Format(time.RFC3339)
					today.CheckOut = &v
				}
				entry.TodaysRecord = &today
			}
		}
		entries[i] = entry
	}
	return entries
}

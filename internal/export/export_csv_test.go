package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/attendance"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWriteCSV(t *testing.T) {
	workDate := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	checkIn := workDate.Add(8*time.Hour + 45*time.Minute)
	checkOut := checkIn.Add(2*time.Hour + 30*time.Second)
	empID := uuid.New()

	records := []attendance.AttendanceRecord{
		{
			ID:           uuid.New(),
			EmployeeID:   empID,
			EmployeeName: "Alex Johnson",
			WorkDate:     workDate,
			CheckIn:      checkIn,
			CheckOut:     &checkOut,
			Duration:     7230,
			Status:       attendance.StatusOnTime,
		},
		{
			ID:           uuid.New(),
			EmployeeID:   empID,
			EmployeeName: "Alex Johnson",
			WorkDate:     workDate,
			CheckIn:      workDate.Add(10*time.Hour + 31*time.Minute),
			Duration:     0,
			Status:       attendance.StatusHalfDay,
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, records))

	raw := buf.Bytes()
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "output must start with the UTF-8 BOM")

	rows, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Date", "Employee ID", "Employee Name", "Check-In Time",
		"Check-Out Time", "Duration", "Status", "Shift Status",
	}, rows[0])

	closed := rows[1]
	assert.Equal(t, "2026-08-24", closed[0])
	assert.Equal(t, empID.String(), closed[1])
	assert.Equal(t, "Alex Johnson", closed[2])
	assert.Equal(t, "08:45:00", closed[3])
	assert.Equal(t, "10:45:30", closed[4])
	assert.Equal(t, "02:00:30", closed[5])
	assert.Equal(t, "ON-TIME", closed[6])
	assert.Equal(t, "COMPLETED", closed[7])

	open := rows[2]
	assert.Equal(t, "", open[4])
	assert.Equal(t, "00:00:00", open[5])
	assert.Equal(t, "HALF-DAY", open[6])
	assert.Equal(t, "ACTIVE NOW", open[7])
}

func TestWriteCSV_QuotesCommasInNames(t *testing.T) {
	workDate := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	records := []attendance.AttendanceRecord{
		{
			ID:           uuid.New(),
			EmployeeID:   uuid.New(),
			EmployeeName: "Johnson, Alex",
			WorkDate:     workDate,
			CheckIn:      workDate.Add(9 * time.Hour),
			Status:       attendance.StatusLate,
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, records))
	assert.Contains(t, buf.String(), `"Johnson, Alex"`)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 24, 14, 3, 9, 0, time.Local)
	name := Filename("workforce_report", now)
	assert.Equal(t, "workforce_report_2026-08-24.csv", name)
	assert.True(t, strings.HasSuffix(name, ".csv"))
}

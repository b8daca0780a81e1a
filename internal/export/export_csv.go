package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/attendance"
	"github.com/aakifsaf/precision-attendance/internal/tracker"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// utf8BOM makes spreadsheet tools detect the encoding instead of
// falling back to their locale default.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{
	"Date",
	"Employee ID",
	"Employee Name",
	"Check-In Time",
	"Check-Out Time",
	"Duration",
	"Status",
	"Shift Status",
}

var upper = cases.Upper(language.English)

// WriteCSV renders the record snapshot as a spreadsheet-friendly CSV.
func WriteCSV(w io.Writer, records []attendance.AttendanceRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		checkOut := ""
		shiftStatus := "ACTIVE NOW"
		if r.CheckOut != nil {
			checkOut = r.CheckOut.Format("15:04:05")
			shiftStatus = "COMPLETED"
		}

		row := []string{
			r.WorkDate.Format("2006-01-02"),
			r.EmployeeID.String(),
			r.EmployeeName,
			r.CheckIn.Format("15:04:05"),
			checkOut,
			tracker.FormatElapsed(r.Duration),
			upper.String(string(r.Status)),
			shiftStatus,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename stamps the base name with the report date.
func Filename(base string, now time.Time) string {
	return base + "_" + now.Format("2006-01-02") + ".csv"
}

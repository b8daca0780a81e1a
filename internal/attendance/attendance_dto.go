package attendance

import "time"

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	CheckIn      string  `json:"check_in"`
	CheckOut     *string `json:"check_out,omitempty"`
	Duration     int64   `json:"duration"`
	Status       string  `json:"status"`
}

type SessionResponse struct {
	EmployeeID     string `json:"employee_id"`
	StartTime      string `json:"start_time"`
	LastPing       string `json:"last_ping,omitempty"`
	Status         string `json:"status"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

func mapToResponse(r AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           r.ID.String(),
		EmployeeID:   r.EmployeeID.String(),
		EmployeeName: r.EmployeeName,
		Date:         r.WorkDate.Format("2006-01-02"),
		CheckIn:      r.CheckIn.Format(time.RFC3339),
		Duration:     r.Duration,
		Status:       string(r.Status),
	}
	if r.CheckOut != nil {
		v := r.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}

package model

// Band is the qualitative label attached to an attendance percentage.
type Band string

const (
	BandExcellent Band = "Excellent"
	BandGood      Band = "Good"
	BandAtRisk    Band = "At Risk"
)

// AttendanceStats is derived on every query and never stored.
type AttendanceStats struct {
	StudentID     string `json:"student_id"`
	PresentCount  int    `json:"present_count"`
	TotalSessions int    `json:"total_sessions"`
	Percentage    int    `json:"percentage"`
	Band          Band   `json:"band"`
}

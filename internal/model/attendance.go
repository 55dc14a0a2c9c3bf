package model

import "time"

// DayLayout formats AttendanceRecord.Day.
const DayLayout = "2006-01-02"

// AttendanceRecord is one recorded presence of a student at a subject session.
// Records are immutable once written.
type AttendanceRecord struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Subject    string    `json:"subject"`
	MarkedBy   string    `json:"marked_by"`
	RecordedAt time.Time `json:"recorded_at"`
	// Day is the calendar day (YYYY-MM-DD in the attendance timezone) the record counts for.
	Day string `json:"attendance_date"`
}

// MarkAttendanceRequest is the payload for recording attendance.
// MarkedBy defaults to the caller when omitted.
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" binding:"required,notblank,max=64"`
	Subject   string `json:"subject" binding:"required,notblank,max=100"`
	MarkedBy  string `json:"marked_by" binding:"omitempty,max=64"`
}

// AttendanceEvent is pushed to live feed subscribers.
type AttendanceEvent struct {
	Type   string           `json:"type"`
	Record AttendanceRecord `json:"record"`
}

const AttendanceEventRecorded = "attendance.recorded"

package websocket

import "github.com/stemsi/attendance-portal/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is the only client message shape on the feed.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventPong       Event = "pong"
	EventReady      Event = "ready"
	EventAttendance Event = "attendance"
)

// ReadyResponse is sent once the subscription is live.
type ReadyResponse struct {
	Event Event  `json:"event"`
	Day   string `json:"attendance_date"`
}

// AttendanceResponse carries one newly recorded mark.
type AttendanceResponse struct {
	Event  Event                  `json:"event"`
	Type   string                 `json:"type"`
	Record model.AttendanceRecord `json:"record"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

package audit

import "time"

// Action names an audited step of the check workflow.
type Action string

const (
	ActionCheckConfigured Action = "check_configured"
	ActionCheckSubmitted  Action = "check_submitted"
	ActionCheckRejected   Action = "check_rejected"
)

// Event records who did what to which client's check. It is transport
// agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Timestamp time.Time
	Action    Action
	RequestID string
	StaffID   string
	FirmID    string
	ClientID  string
	CheckType string
	Reference string
	Detail    map[string]string
}

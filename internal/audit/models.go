package audit

import "time"

// Actions recorded by the intake engine.
const (
	ActionCommitted = "submission_committed"
	ActionApproved  = "submission_approved"
	ActionRejected  = "submission_rejected"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out to memory or Kafka.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	SubmissionID string    `json:"submission_id"`
	FormKind     string    `json:"form_kind"`
	Actor        string    `json:"actor,omitempty"`
	Decision     string    `json:"decision,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// Package submission holds the immutable intake records produced by a
// finalized wizard and the registry that persists them. A record is created
// exactly once per session; after commit only the moderation decision may
// change.
package submission

import (
	"time"

	"assetgate/internal/form"
)

// Status is the moderation state of a submission. The state machine is
// strictly one-way: pending is the only non-terminal state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus validates a status supplied by a caller (e.g. a search filter).
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

// Decision is the mutable moderation sub-record. ApprovalArtifact is an
// opaque token from the signer; the engine never interprets it.
type Decision struct {
	Status           Status     `json:"status"`
	Feedback         string     `json:"feedback,omitempty"`
	ApprovalArtifact string     `json:"approval_artifact,omitempty"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	DecidedBy        string     `json:"decided_by,omitempty"`
}

// Submission is the committed intake record.
type Submission struct {
	ID          string            `json:"id"`
	FormKind    form.Kind         `json:"form_kind"`
	Fields      map[string]string `json:"fields"`
	Media       []form.Attachment `json:"media"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Decision    Decision          `json:"decision"`
}

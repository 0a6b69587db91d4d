// Package form defines the two intake schemas and their step-by-step
// validation rules. Both wizards run on the same engine; only the step lists
// differ, so the definitions live here as data built once at startup.
package form

import (
	"fmt"

	"assetgate/internal/capture"
)

// Kind identifies which intake workflow a session belongs to.
type Kind string

const (
	KindFinancing    Kind = "financing_application"
	KindTokenization Kind = "asset_tokenization"
)

// ParseKind validates a form kind supplied by a caller.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindFinancing, KindTokenization:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown form kind %q", s)
}

// Media roles used by the media steps.
const (
	RoleSelfie     = "selfie"
	RoleAssetPhoto = "asset_photo"
)

// Attachment binds a captured image to the role the step that collected it
// requires.
type Attachment struct {
	Role  string        `json:"role"`
	Media capture.Media `json:"media"`
}

// State is the validatable content of a wizard session: the field values
// entered so far and the media captured so far.
type State struct {
	Fields map[string]string `json:"fields"`
	Media  []Attachment      `json:"media"`
}

// Field returns a field value, with the zero value standing in for unset.
func (s State) Field(id string) string {
	return s.Fields[id]
}

// MediaCount counts attachments captured for a role.
func (s State) MediaCount(role string) int {
	n := 0
	for _, a := range s.Media {
		if a.Role == role {
			n++
		}
	}
	return n
}

// StepKind distinguishes data-entry steps from capture steps.
type StepKind string

const (
	StepFields StepKind = "fields"
	StepMedia  StepKind = "media"
)

// StepDefinition describes one wizard step. Definitions are immutable; the
// engine derives completeness exclusively by re-running Validate over live
// state, never from cached flags.
type StepDefinition struct {
	ID        int
	Name      string
	Kind      StepKind
	MediaRole string // set for media steps
	Validate  func(State) error
}

// ValidationError reports a field-scoped step failure. FieldID is empty for
// media steps where the step as a whole is incomplete.
type ValidationError struct {
	StepID  int
	FieldID string
	Message string
}

func (e *ValidationError) Error() string {
	if e.FieldID != "" {
		return fmt.Sprintf("step %d field %q: %s", e.StepID, e.FieldID, e.Message)
	}
	return fmt.Sprintf("step %d: %s", e.StepID, e.Message)
}

// Steps returns the ordered step list for a form kind. The returned slice is
// shared and must not be mutated.
func Steps(kind Kind) []StepDefinition {
	switch kind {
	case KindFinancing:
		return financingSteps
	case KindTokenization:
		return tokenizationSteps
	}
	return nil
}

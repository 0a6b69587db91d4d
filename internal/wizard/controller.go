// Package wizard drives one multi-step intake session: step gating, draft
// autosave, media capture, and the single finalize that turns the session
// into an immutable submission.
package wizard

import (
	"context"
	"fmt"
	"log/slog"

	"assetgate/internal/capture"
	"assetgate/internal/form"
	"assetgate/internal/submission"
	"assetgate/pkg/platform/sentinel"
)

// IncompleteStepsError aborts a finalize while any step is invalid. Steps
// holds the failing step indices in order.
type IncompleteStepsError struct {
	Steps []int
}

func (e *IncompleteStepsError) Error() string {
	return fmt.Sprintf("steps incomplete: %v", e.Steps)
}

// IncompleteSteps recomputes the failing step indices from live state.
// Completeness is always derived here, never read from cached flags, so edits
// to an earlier step cannot leave stale "complete" marks behind.
func IncompleteSteps(kind form.Kind, state form.State) []int {
	var incomplete []int
	for _, step := range form.Steps(kind) {
		if err := step.Validate(state); err != nil {
			incomplete = append(incomplete, step.ID)
		}
	}
	return incomplete
}

// Committer is the slice of the submission registry the controller needs.
type Committer interface {
	Commit(ctx context.Context, kind form.Kind, frozen form.State) (*submission.Submission, error)
}

// Controller owns one session. It is confined to a single caller at a time
// (one live session per form kind); it does not lock internally.
type Controller struct {
	kind       form.Kind
	steps      []form.StepDefinition
	current    int
	state      form.State
	committed  bool
	drafts     *DraftStore
	normalizer *capture.Normalizer
	registry   Committer
	logger     *slog.Logger
}

func NewController(kind form.Kind, drafts *DraftStore, normalizer *capture.Normalizer, registry Committer, logger *slog.Logger) *Controller {
	return &Controller{
		kind:       kind,
		steps:      form.Steps(kind),
		state:      form.State{Fields: make(map[string]string)},
		drafts:     drafts,
		normalizer: normalizer,
		registry:   registry,
		logger:     logger,
	}
}

// Resume restores a saved draft if one exists. Called once at wizard start.
func (c *Controller) Resume(ctx context.Context) error {
	draft, err := c.drafts.Load(ctx, c.kind)
	if err != nil {
		return err
	}
	if draft == nil {
		return nil
	}
	if draft.CurrentStep < 0 || draft.CurrentStep >= len(c.steps) {
		c.logger.WarnContext(ctx, "discarding draft with out-of-range step",
			"form_kind", c.kind,
			"step", draft.CurrentStep,
		)
		return nil
	}
	c.current = draft.CurrentStep
	c.state = draft.State
	if c.state.Fields == nil {
		c.state.Fields = make(map[string]string)
	}
	c.logger.InfoContext(ctx, "draft resumed", "form_kind", c.kind, "step", c.current)
	return nil
}

// CurrentStep returns the active step definition.
func (c *Controller) CurrentStep() form.StepDefinition {
	return c.steps[c.current]
}

// State returns a copy of the session state for read-only presentation.
func (c *Controller) State() form.State {
	fields := make(map[string]string, len(c.state.Fields))
	for k, v := range c.state.Fields {
		fields[k] = v
	}
	return form.State{Fields: fields, Media: append([]form.Attachment(nil), c.state.Media...)}
}

// SetFields merges step input into the session before validation.
func (c *Controller) SetFields(values map[string]string) {
	for k, v := range values {
		c.state.Fields[k] = v
	}
}

// Next validates the current step and advances. On a validation failure the
// session is unchanged and the field-scoped error is returned. A draft save
// failure also leaves the position unchanged so in-memory state never runs
// ahead of what was durably written.
func (c *Controller) Next(ctx context.Context) error {
	step := c.steps[c.current]
	if err := step.Validate(c.state); err != nil {
		return err
	}

	next := c.current
	if next < len(c.steps)-1 {
		next++
	}
	if err := c.drafts.Save(ctx, c.kind, Draft{CurrentStep: next, State: c.state}); err != nil {
		return err
	}
	c.current = next
	return nil
}

// Prev moves backward unconditionally; no validation is required to revisit.
func (c *Controller) Prev(ctx context.Context) error {
	if c.current == 0 {
		return nil
	}
	if err := c.drafts.Save(ctx, c.kind, Draft{CurrentStep: c.current - 1, State: c.state}); err != nil {
		return err
	}
	c.current--
	return nil
}

// JumpTo moves to step i when it is a revisit (i <= current) or the immediate
// next step with the current one valid. Anything else is a no-op.
func (c *Controller) JumpTo(ctx context.Context, i int) error {
	switch {
	case i < 0 || i >= len(c.steps):
		return nil
	case i <= c.current:
		if err := c.drafts.Save(ctx, c.kind, Draft{CurrentStep: i, State: c.state}); err != nil {
			return err
		}
		c.current = i
		return nil
	case i == c.current+1:
		return c.Next(ctx)
	default:
		return nil
	}
}

// CaptureFromFile normalizes an upload and attaches it to the current media
// step.
func (c *Controller) CaptureFromFile(ctx context.Context, data []byte, mimeType string) error {
	step := c.steps[c.current]
	if step.Kind != form.StepMedia {
		return fmt.Errorf("step %d accepts no media: %w", step.ID, sentinel.ErrInvalidState)
	}
	media, err := c.normalizer.AcquireFromFile(ctx, data, mimeType)
	if err != nil {
		return err
	}
	return c.attach(ctx, step.MediaRole, media)
}

// CaptureFromCamera captures a frame from the scoped device and attaches it
// to the current media step. The device handle is managed entirely inside the
// normalizer and never outlives this call.
func (c *Controller) CaptureFromCamera(ctx context.Context, cam capture.Camera) error {
	step := c.steps[c.current]
	if step.Kind != form.StepMedia {
		return fmt.Errorf("step %d accepts no media: %w", step.ID, sentinel.ErrInvalidState)
	}
	media, err := c.normalizer.AcquireFromCamera(ctx, cam)
	if err != nil {
		return err
	}
	return c.attach(ctx, step.MediaRole, media)
}

func (c *Controller) attach(ctx context.Context, role string, media capture.Media) error {
	c.state.Media = append(c.state.Media, form.Attachment{Role: role, Media: media})
	if err := c.drafts.Save(ctx, c.kind, Draft{CurrentStep: c.current, State: c.state}); err != nil {
		c.state.Media = c.state.Media[:len(c.state.Media)-1]
		return err
	}
	return nil
}

// Finalize re-validates every step against live state, commits the frozen
// session, and clears the draft. The draft clear is ordered strictly after
// the commit; a clear failure leaves a stale draft behind, which a later
// Resume may discard, so it is logged rather than failing the commit.
func (c *Controller) Finalize(ctx context.Context) (*submission.Submission, error) {
	if c.committed {
		return nil, fmt.Errorf("session already committed: %w", sentinel.ErrInvalidState)
	}

	if incomplete := IncompleteSteps(c.kind, c.state); len(incomplete) > 0 {
		return nil, &IncompleteStepsError{Steps: incomplete}
	}

	sub, err := c.registry.Commit(ctx, c.kind, c.State())
	if err != nil {
		return nil, err
	}
	c.committed = true

	if err := c.drafts.Clear(ctx, c.kind); err != nil {
		c.logger.WarnContext(ctx, "draft clear failed after commit",
			"form_kind", c.kind,
			"submission_id", sub.ID,
			"error", err,
		)
	}
	return sub, nil
}

// Committed reports whether this session already produced its submission.
func (c *Controller) Committed() bool {
	return c.committed
}

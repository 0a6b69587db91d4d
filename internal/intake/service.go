// Package intake manages live wizard sessions: one per form kind per process.
// The service serializes access to each controller, so the wizard itself stays
// lock-free.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"assetgate/internal/capture"
	"assetgate/internal/form"
	"assetgate/internal/intake/metrics"
	"assetgate/internal/submission"
	"assetgate/internal/wizard"
	"assetgate/pkg/platform/sentinel"
)

// Snapshot is the read-only view of a session handed to presentation layers.
type Snapshot struct {
	FormKind   form.Kind         `json:"form_kind"`
	StepID     int               `json:"step_id"`
	StepName   string            `json:"step_name"`
	StepKind   form.StepKind     `json:"step_kind"`
	TotalSteps int               `json:"total_steps"`
	Fields     map[string]string `json:"fields"`
	MediaCount int               `json:"media_count"`
	Incomplete []int             `json:"incomplete_steps"`
	Committed  bool              `json:"committed"`
}

// Service owns the per-kind session table. A session is created on Start,
// survives across requests, and is retired once finalized so the next Start
// opens a fresh one.
type Service struct {
	mu         sync.Mutex
	sessions   map[form.Kind]*wizard.Controller
	drafts     *wizard.DraftStore
	normalizer *capture.Normalizer
	registry   wizard.Committer
	camera     capture.Camera
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewService wires the session manager. camera may be nil; camera capture then
// reports permission denied while file uploads keep working.
func NewService(drafts *wizard.DraftStore, normalizer *capture.Normalizer, registry wizard.Committer, camera capture.Camera, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		sessions:   make(map[form.Kind]*wizard.Controller),
		drafts:     drafts,
		normalizer: normalizer,
		registry:   registry,
		camera:     camera,
		logger:     logger,
		metrics:    m,
	}
}

// Start opens a session for the form kind, resuming any saved draft. Calling
// Start on an already-open session returns its current snapshot unchanged, so
// the client can always recover its position with one call.
func (s *Service) Start(ctx context.Context, kind form.Kind) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctrl, ok := s.sessions[kind]; ok {
		return s.snapshot(kind, ctrl), nil
	}

	ctrl := wizard.NewController(kind, s.drafts, s.normalizer, s.registry, s.logger)
	if err := ctrl.Resume(ctx); err != nil {
		return Snapshot{}, err
	}
	s.sessions[kind] = ctrl
	s.metrics.IncrementSessionsStarted(string(kind))
	return s.snapshot(kind, ctrl), nil
}

// Next merges the given field values into the session and advances past the
// current step if it validates.
func (s *Service) Next(ctx context.Context, kind form.Kind, fields map[string]string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.session(kind)
	if err != nil {
		return Snapshot{}, err
	}
	ctrl.SetFields(fields)
	if err := ctrl.Next(ctx); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(kind, ctrl), nil
}

// Prev steps backward without validation.
func (s *Service) Prev(ctx context.Context, kind form.Kind) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.session(kind)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctrl.Prev(ctx); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(kind, ctrl), nil
}

// Jump moves to a previously visited step, or the immediate next one when the
// current step is valid.
func (s *Service) Jump(ctx context.Context, kind form.Kind, step int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.session(kind)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctrl.JumpTo(ctx, step); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(kind, ctrl), nil
}

// AttachUpload normalizes an uploaded image and attaches it to the current
// media step.
func (s *Service) AttachUpload(ctx context.Context, kind form.Kind, data []byte, mimeType string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.session(kind)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctrl.CaptureFromFile(ctx, data, mimeType); err != nil {
		return Snapshot{}, err
	}
	s.metrics.IncrementCaptures(string(kind), string(capture.SourceUpload))
	return s.snapshot(kind, ctrl), nil
}

// CaptureFromCamera grabs one frame from the configured device and attaches it
// to the current media step.
func (s *Service) CaptureFromCamera(ctx context.Context, kind form.Kind) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.session(kind)
	if err != nil {
		return Snapshot{}, err
	}
	if s.camera == nil {
		return Snapshot{}, fmt.Errorf("no camera configured: %w", capture.ErrPermissionDenied)
	}
	if err := ctrl.CaptureFromCamera(ctx, s.camera); err != nil {
		return Snapshot{}, err
	}
	s.metrics.IncrementCaptures(string(kind), string(capture.SourceCamera))
	return s.snapshot(kind, ctrl), nil
}

// Finalize commits the session. On success the session is retired, so a later
// Start opens a fresh wizard for the same kind.
func (s *Service) Finalize(ctx context.Context, kind form.Kind) (*submission.Submission, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveFinalizeLatency(time.Since(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctrl, err := s.session(kind)
	if err != nil {
		return nil, err
	}
	sub, err := ctrl.Finalize(ctx)
	if err != nil {
		return nil, err
	}
	delete(s.sessions, kind)
	s.metrics.IncrementCommits(string(kind))
	return sub, nil
}

// Draft reports the resumable state for a form kind without opening a session.
// A live session wins over whatever is persisted; with neither, found is false.
func (s *Service) Draft(ctx context.Context, kind form.Kind) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctrl, ok := s.sessions[kind]; ok {
		return s.snapshot(kind, ctrl), true, nil
	}

	draft, err := s.drafts.Load(ctx, kind)
	if err != nil {
		return Snapshot{}, false, err
	}
	if draft == nil {
		return Snapshot{}, false, nil
	}

	steps := form.Steps(kind)
	if draft.CurrentStep < 0 || draft.CurrentStep >= len(steps) {
		return Snapshot{}, false, nil
	}
	step := steps[draft.CurrentStep]
	return Snapshot{
		FormKind:   kind,
		StepID:     step.ID,
		StepName:   step.Name,
		StepKind:   step.Kind,
		TotalSteps: len(steps),
		Fields:     draft.State.Fields,
		MediaCount: len(draft.State.Media),
		Incomplete: wizard.IncompleteSteps(kind, draft.State),
	}, true, nil
}

func (s *Service) session(kind form.Kind) (*wizard.Controller, error) {
	ctrl, ok := s.sessions[kind]
	if !ok {
		return nil, fmt.Errorf("no active %s session: %w", kind, sentinel.ErrInvalidState)
	}
	return ctrl, nil
}

func (s *Service) snapshot(kind form.Kind, ctrl *wizard.Controller) Snapshot {
	step := ctrl.CurrentStep()
	state := ctrl.State()
	return Snapshot{
		FormKind:   kind,
		StepID:     step.ID,
		StepName:   step.Name,
		StepKind:   step.Kind,
		TotalSteps: len(form.Steps(kind)),
		Fields:     state.Fields,
		MediaCount: len(state.Media),
		Incomplete: wizard.IncompleteSteps(kind, state),
		Committed:  ctrl.Committed(),
	}
}

// Package moderation enforces the review state machine over committed
// submissions: pending is the only non-terminal state, and every mutation
// re-checks it at decision time so repeated clicks and stale UI state are
// harmless.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assetgate/internal/audit"
	"assetgate/internal/form"
	"assetgate/internal/moderation/metrics"
	"assetgate/internal/signer"
	"assetgate/internal/submission"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/requestcontext"
)

// ErrNotPending signals a decision attempted on a submission that already
// reached a terminal state. The record is left untouched.
var ErrNotPending = errors.New("submission is not pending")

// Action is a reviewer decision.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// SortOrder directs search result ordering by submission time.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Registry is the slice of the submission registry the engine needs. All
// decision mutations flow through it; callers never touch records directly.
type Registry interface {
	GetByID(ctx context.Context, id string) (*submission.Submission, error)
	ListAll(ctx context.Context, kind form.Kind) ([]*submission.Submission, error)
	UpdateDecision(ctx context.Context, sub *submission.Submission) error
}

// Engine coordinates decisions and review search.
type Engine struct {
	registry Registry
	signer   signer.Signer
	audit    *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func NewEngine(registry Registry, sgn signer.Signer, publisher *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		registry: registry,
		signer:   sgn,
		audit:    publisher,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("assetgate/moderation"),
	}
}

// Decide applies a one-way transition out of pending. Approval attaches the
// signer's opaque artifact; rejection requires non-empty feedback. A decision
// on a non-pending record returns ErrNotPending without mutating anything.
func (e *Engine) Decide(ctx context.Context, id string, action Action, feedback string) (*submission.Decision, error) {
	start := time.Now()
	defer func() { e.metrics.ObserveDecideLatency(time.Since(start)) }()

	ctx, span := e.tracer.Start(ctx, "moderation.decide")
	defer span.End()
	span.SetAttributes(
		attribute.String("submission_id", id),
		attribute.String("action", string(action)),
	)

	if action != ActionApprove && action != ActionReject {
		e.metrics.IncrementDecision(string(action), "invalid")
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown action: "+string(action))
	}
	if action == ActionReject && strings.TrimSpace(feedback) == "" {
		e.metrics.IncrementDecision(string(action), "invalid")
		return nil, dErrors.New(dErrors.CodeValidation, "rejection requires feedback")
	}

	sub, err := e.registry.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Status is re-checked here, at the moment of mutation, never trusted
	// from whatever the reviewer's UI cached.
	if sub.Decision.Status != submission.StatusPending {
		e.metrics.IncrementDecision(string(action), "not_pending")
		return nil, dErrors.Wrap(dErrors.CodeNotPending,
			fmt.Sprintf("submission %s is already %s", id, sub.Decision.Status), ErrNotPending)
	}

	now := requestcontext.Now(ctx).UTC()
	decision := submission.Decision{
		Feedback:  strings.TrimSpace(feedback),
		DecidedAt: &now,
		DecidedBy: requestcontext.ReviewerID(ctx),
	}

	switch action {
	case ActionApprove:
		artifact, err := e.signer.SignApproval(ctx, sub.ID)
		if err != nil {
			return nil, fmt.Errorf("sign approval: %w", err)
		}
		decision.Status = submission.StatusApproved
		decision.ApprovalArtifact = artifact
	case ActionReject:
		decision.Status = submission.StatusRejected
	}

	sub.Decision = decision
	if err := e.registry.UpdateDecision(ctx, sub); err != nil {
		return nil, err
	}

	e.metrics.IncrementDecision(string(action), "applied")
	e.logger.InfoContext(ctx, "submission decided",
		"submission_id", sub.ID,
		"form_kind", sub.FormKind,
		"status", decision.Status,
		"reviewer", decision.DecidedBy,
	)
	e.emitAudit(ctx, sub, decision)

	return &decision, nil
}

func (e *Engine) emitAudit(ctx context.Context, sub *submission.Submission, decision submission.Decision) {
	if e.audit == nil {
		return
	}
	action := audit.ActionApproved
	if decision.Status == submission.StatusRejected {
		action = audit.ActionRejected
	}
	event := audit.Event{
		Action:       action,
		SubmissionID: sub.ID,
		FormKind:     string(sub.FormKind),
		Actor:        decision.DecidedBy,
		Decision:     string(decision.Status),
		Reason:       decision.Feedback,
	}
	if err := e.audit.Emit(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "audit emit failed",
			"submission_id", sub.ID,
			"error", err,
		)
	}
}

// Search filters a form kind's submissions with a case-insensitive substring
// match over the applicant name, email, national ID, and submission ID, ANDed
// with an optional status filter, ordered by submission time. Ties break by
// ID ascending so paging stays deterministic.
func (e *Engine) Search(ctx context.Context, kind form.Kind, query string, statusFilter submission.Status, order SortOrder) ([]*submission.Submission, error) {
	subs, err := e.registry.ListAll(ctx, kind)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	matched := make([]*submission.Submission, 0, len(subs))
	for _, sub := range subs {
		if statusFilter != "" && sub.Decision.Status != statusFilter {
			continue
		}
		if q != "" && !matchesQuery(sub, q) {
			continue
		}
		matched = append(matched, sub)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.ID < b.ID
		}
		if order == SortDesc {
			return a.SubmittedAt.After(b.SubmittedAt)
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})
	return matched, nil
}

func matchesQuery(sub *submission.Submission, q string) bool {
	candidates := []string{
		sub.ID,
		sub.Fields[form.FieldFullName],
		sub.Fields[form.FieldEmail],
		sub.Fields[form.FieldNationalID],
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}

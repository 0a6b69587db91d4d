package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"assetgate/internal/blobstore"
	"assetgate/internal/form"
	"assetgate/pkg/platform/sentinel"
	"assetgate/pkg/requestcontext"
)

// Registry persists submissions through the blobstore port. Each record is
// written under submission:<id> for direct lookup and its ID is appended to
// the submissions:<kind> index, which preserves insertion order. The registry
// is the single writer for both keys.
type Registry struct {
	store  blobstore.Store
	logger *slog.Logger
	tracer trace.Tracer
}

func NewRegistry(store blobstore.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("assetgate/submission"),
	}
}

func recordKey(id string) string {
	return "submission:" + id
}

func indexKey(kind form.Kind) string {
	return "submissions:" + string(kind)
}

// Commit turns a frozen wizard state into a pending submission. The record
// write and the index write stay consistent: if the index append fails, the
// record is rolled back and the caller gets a retryable error with nothing
// half-applied.
func (r *Registry) Commit(ctx context.Context, kind form.Kind, frozen form.State) (*Submission, error) {
	ctx, span := r.tracer.Start(ctx, "registry.commit")
	defer span.End()
	span.SetAttributes(attribute.String("form_kind", string(kind)))

	sub := &Submission{
		ID:          uuid.NewString(),
		FormKind:    kind,
		Fields:      frozen.Fields,
		Media:       frozen.Media,
		SubmittedAt: requestcontext.Now(ctx).UTC(),
		Decision:    Decision{Status: StatusPending},
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	if err := r.store.Set(ctx, recordKey(sub.ID), raw); err != nil {
		return nil, fmt.Errorf("write submission record: %w", err)
	}

	ids, err := r.readIndex(ctx, kind)
	if err == nil {
		ids = append(ids, sub.ID)
		err = r.writeIndex(ctx, kind, ids)
	}
	if err != nil {
		// Keep both keys consistent: a record that never made the index must
		// not stay retrievable.
		if delErr := r.store.Delete(ctx, recordKey(sub.ID)); delErr != nil {
			r.logger.ErrorContext(ctx, "commit rollback failed",
				"submission_id", sub.ID,
				"error", delErr,
			)
		}
		return nil, fmt.Errorf("write submission index: %w", err)
	}

	r.logger.InfoContext(ctx, "submission committed",
		"submission_id", sub.ID,
		"form_kind", kind,
	)
	return sub, nil
}

// GetByID loads a single submission, returning sentinel.ErrNotFound when the
// ID is unknown.
func (r *Registry) GetByID(ctx context.Context, id string) (*Submission, error) {
	raw, err := r.store.Get(ctx, recordKey(id))
	if err != nil {
		return nil, fmt.Errorf("load submission %s: %w", id, err)
	}
	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w", id, err)
	}
	return &sub, nil
}

// ListAll returns a form kind's submissions in insertion order.
func (r *Registry) ListAll(ctx context.Context, kind form.Kind) ([]*Submission, error) {
	ids, err := r.readIndex(ctx, kind)
	if err != nil {
		return nil, err
	}

	subs := make([]*Submission, 0, len(ids))
	for _, id := range ids {
		sub, err := r.GetByID(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			// An indexed ID without a record means a rollback raced a crash;
			// surface it in logs rather than failing the whole listing.
			r.logger.WarnContext(ctx, "indexed submission missing", "submission_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// UpdateDecision rewrites the stored record after a moderation transition.
// The structural fields are taken from sub unchanged; callers must only have
// mutated the decision.
func (r *Registry) UpdateDecision(ctx context.Context, sub *Submission) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	if err := r.store.Set(ctx, recordKey(sub.ID), raw); err != nil {
		return fmt.Errorf("write submission record: %w", err)
	}
	return nil
}

func (r *Registry) readIndex(ctx context.Context, kind form.Kind) ([]string, error) {
	raw, err := r.store.Get(ctx, indexKey(kind))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load submission index: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode submission index: %w", err)
	}
	return ids, nil
}

func (r *Registry) writeIndex(ctx context.Context, kind form.Kind, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal submission index: %w", err)
	}
	return r.store.Set(ctx, indexKey(kind), raw)
}

package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"assetgate/internal/blobstore"
	"assetgate/internal/form"
	"assetgate/pkg/platform/sentinel"
)

// Draft is the persisted snapshot of an in-progress session.
type Draft struct {
	CurrentStep int        `json:"current_step"`
	State       form.State `json:"state"`
}

// DraftStore persists resumable wizard snapshots under draft:<kind>. Writes
// are last-write-wins; only one session per form kind is live at a time.
type DraftStore struct {
	store  blobstore.Store
	logger *slog.Logger
}

func NewDraftStore(store blobstore.Store, logger *slog.Logger) *DraftStore {
	return &DraftStore{store: store, logger: logger}
}

func draftKey(kind form.Kind) string {
	return "draft:" + string(kind)
}

// Save snapshots the session after a successful step transition.
func (d *DraftStore) Save(ctx context.Context, kind form.Kind, draft Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := d.store.Set(ctx, draftKey(kind), raw); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load restores a draft. A missing or undecodable draft returns (nil, nil):
// a corrupt snapshot degrades to "no draft" instead of blocking a new wizard.
func (d *DraftStore) Load(ctx context.Context, kind form.Kind) (*Draft, error) {
	raw, err := d.store.Get(ctx, draftKey(kind))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		d.logger.WarnContext(ctx, "discarding undecodable draft",
			"form_kind", kind,
			"error", err,
		)
		return nil, nil
	}
	return &draft, nil
}

// Clear removes the draft after a successful commit.
func (d *DraftStore) Clear(ctx context.Context, kind form.Kind) error {
	if err := d.store.Delete(ctx, draftKey(kind)); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// Package handler exposes the intake wizard over HTTP. Handlers stay thin:
// parse the form kind, call the service, translate domain errors at the edge.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetgate/internal/capture"
	"assetgate/internal/form"
	"assetgate/internal/intake"
	"assetgate/internal/submission"
	"assetgate/internal/wizard"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/httputil"
	"assetgate/pkg/platform/sentinel"
	"assetgate/pkg/requestcontext"
)

// Service defines the interface for intake session operations.
type Service interface {
	Start(ctx context.Context, kind form.Kind) (intake.Snapshot, error)
	Next(ctx context.Context, kind form.Kind, fields map[string]string) (intake.Snapshot, error)
	Prev(ctx context.Context, kind form.Kind) (intake.Snapshot, error)
	Jump(ctx context.Context, kind form.Kind, step int) (intake.Snapshot, error)
	AttachUpload(ctx context.Context, kind form.Kind, data []byte, mimeType string) (intake.Snapshot, error)
	CaptureFromCamera(ctx context.Context, kind form.Kind) (intake.Snapshot, error)
	Finalize(ctx context.Context, kind form.Kind) (*submission.Submission, error)
	Draft(ctx context.Context, kind form.Kind) (intake.Snapshot, bool, error)
}

// Handler wires intake endpoints to the session service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an intake handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts intake endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/intake/{kind}", func(r chi.Router) {
		r.Post("/start", h.handleStart)
		r.Post("/next", h.handleNext)
		r.Post("/prev", h.handlePrev)
		r.Post("/jump", h.handleJump)
		r.Post("/media", h.handleMedia)
		r.Post("/finalize", h.handleFinalize)
		r.Get("/draft", h.handleDraft)
	})
}

type nextRequest struct {
	Fields map[string]string `json:"fields"`
}

type jumpRequest struct {
	Step int `json:"step"`
}

type draftResponse struct {
	Found bool             `json:"found"`
	Draft *intake.Snapshot `json:"draft,omitempty"`
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Start(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, "start session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[nextRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	snap, err := h.service.Next(ctx, kind, req.Fields)
	if err != nil {
		h.writeError(w, r, "advance step", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handlePrev(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	snap, err := h.service.Prev(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, "step back", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleJump(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[jumpRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	snap, err := h.service.Jump(ctx, kind, req.Step)
	if err != nil {
		h.writeError(w, r, "jump to step", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

// handleMedia attaches media to the current step. ?source=camera captures from
// the scoped device; otherwise the raw request body is treated as the uploaded
// image and Content-Type as its MIME type.
func (h *Handler) handleMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}

	var snap intake.Snapshot
	var err error
	if r.URL.Query().Get("source") == string(capture.SourceCamera) {
		snap, err = h.service.CaptureFromCamera(ctx, kind)
	} else {
		var data []byte
		data, err = io.ReadAll(io.LimitReader(r.Body, capture.MaxUploadBytes+1))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unreadable request body"))
			return
		}
		snap, err = h.service.AttachUpload(ctx, kind, data, r.Header.Get("Content-Type"))
	}
	if err != nil {
		h.writeError(w, r, "attach media", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snap)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	sub, err := h.service.Finalize(ctx, kind)
	if err != nil {
		h.writeError(w, r, "finalize session", err)
		return
	}

	h.logger.InfoContext(ctx, "intake finalized",
		"request_id", requestcontext.RequestID(ctx),
		"form_kind", kind,
		"submission_id", sub.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	snap, found, err := h.service.Draft(r.Context(), kind)
	if err != nil {
		h.writeError(w, r, "load draft", err)
		return
	}
	resp := draftResponse{Found: found}
	if found {
		resp.Draft = &snap
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseKind(w http.ResponseWriter, r *http.Request) (form.Kind, bool) {
	kind, err := form.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, err.Error()))
		return "", false
	}
	return kind, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, "intake request failed",
		"request_id", requestcontext.RequestID(ctx),
		"op", op,
		"error", err,
	)
	httputil.WriteError(w, translate(err))
}

// translate maps intake domain errors onto coded errors so httputil can pick
// the status. Coded and infrastructure errors pass through untouched.
func translate(err error) error {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return dErrors.Wrap(dErrors.CodeValidation,
			fmt.Sprintf("step %d: %s: %s", ve.StepID, ve.FieldID, ve.Message), err)
	}
	var ie *wizard.IncompleteStepsError
	if errors.As(err, &ie) {
		return dErrors.Wrap(dErrors.CodeIncomplete, ie.Error(), err)
	}
	switch {
	case errors.Is(err, capture.ErrUnsupportedFormat):
		return dErrors.Wrap(dErrors.CodeUnsupportedType, "unsupported image format", err)
	case errors.Is(err, capture.ErrSizeExceeded):
		return dErrors.Wrap(dErrors.CodeTooLarge, "image exceeds the upload limit", err)
	case errors.Is(err, capture.ErrPermissionDenied):
		return dErrors.Wrap(dErrors.CodePermission, "camera access denied", err)
	case errors.Is(err, capture.ErrReadFailure):
		return dErrors.Wrap(dErrors.CodeBadRequest, "device read failed", err)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(dErrors.CodeBadRequest, err.Error(), err)
	}
	return err
}

// Package handler exposes the moderation queue over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"assetgate/internal/form"
	"assetgate/internal/moderation"
	"assetgate/internal/submission"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/httputil"
	"assetgate/pkg/requestcontext"
)

// Service defines the interface for moderation operations.
type Service interface {
	Decide(ctx context.Context, id string, action moderation.Action, feedback string) (*submission.Decision, error)
	Search(ctx context.Context, kind form.Kind, query string, status submission.Status, order moderation.SortOrder) ([]*submission.Submission, error)
}

// Handler wires moderation endpoints to the moderation engine.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a moderation handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts moderation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/submissions/{kind}", h.handleSearch)
	r.Post("/submissions/{id}/decision", h.handleDecision)
}

type decisionRequest struct {
	Action   string `json:"action"`
	Feedback string `json:"feedback,omitempty"`
}

type searchResponse struct {
	Submissions []*submission.Submission `json:"submissions"`
	Total       int                      `json:"total"`
}

// handleSearch handles GET /submissions/{kind}?q=&status=&sort= requests.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kind, err := form.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, err.Error()))
		return
	}

	var status submission.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := submission.ParseStatus(raw)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown status: "+raw))
			return
		}
		status = parsed
	}

	order := moderation.SortAsc
	switch raw := r.URL.Query().Get("sort"); raw {
	case "", "asc":
	case "desc":
		order = moderation.SortDesc
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sort must be asc or desc"))
		return
	}

	subs, err := h.service.Search(ctx, kind, r.URL.Query().Get("q"), status, order)
	if err != nil {
		h.logger.ErrorContext(ctx, "submission search failed",
			"request_id", requestcontext.RequestID(ctx),
			"form_kind", kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, searchResponse{Submissions: subs, Total: len(subs)})
}

// handleDecision handles POST /submissions/{id}/decision requests.
func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	id := chi.URLParam(r, "id")

	req, ok := httputil.Decode[decisionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.service.Decide(ctx, id, moderation.Action(req.Action), req.Feedback)
	if err != nil {
		h.logger.WarnContext(ctx, "decision rejected",
			"request_id", requestID,
			"submission_id", id,
			"action", req.Action,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "decision applied",
		"request_id", requestID,
		"submission_id", id,
		"status", decision.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, decision)
}

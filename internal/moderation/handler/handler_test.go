package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"assetgate/internal/form"
	"assetgate/internal/moderation"
	"assetgate/internal/moderation/handler/mocks"
	"assetgate/internal/submission"
	dErrors "assetgate/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/moderation-mocks.go -package=mocks Service
type ModerationHandlerSuite struct {
	suite.Suite
}

func TestModerationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ModerationHandlerSuite))
}

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger).Register(r)
	return r, mockService
}

func (s *ModerationHandlerSuite) TestHandleSearch() {
	r, mockService := newTestRouter(s.T())
	submitted := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	mockService.EXPECT().Search(gomock.Any(), form.KindFinancing, "maria", submission.StatusApproved, moderation.SortDesc).
		Return([]*submission.Submission{{
			ID:          "sub-1",
			FormKind:    form.KindFinancing,
			SubmittedAt: submitted,
			Decision:    submission.Decision{Status: submission.StatusApproved},
		}}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/financing_application?q=maria&status=approved&sort=desc", nil))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), float64(1), resp["total"])
}

func (s *ModerationHandlerSuite) TestHandleSearchDefaults() {
	r, mockService := newTestRouter(s.T())
	mockService.EXPECT().Search(gomock.Any(), form.KindTokenization, "", submission.Status(""), moderation.SortAsc).
		Return(nil, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/asset_tokenization", nil))

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *ModerationHandlerSuite) TestHandleSearchBadParams() {
	s.Run("unknown kind", func() {
		r, _ := newTestRouter(s.T())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/mystery_form", nil))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})

	s.Run("unknown status", func() {
		r, _ := newTestRouter(s.T())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/financing_application?status=parked", nil))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})

	s.Run("unknown sort", func() {
		r, _ := newTestRouter(s.T())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/submissions/financing_application?sort=sideways", nil))
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}

func (s *ModerationHandlerSuite) TestHandleDecisionApprove() {
	r, mockService := newTestRouter(s.T())
	decidedAt := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	mockService.EXPECT().Decide(gomock.Any(), "sub-1", moderation.ActionApprove, "").
		Return(&submission.Decision{
			Status:           submission.StatusApproved,
			ApprovalArtifact: "signed-token",
			DecidedAt:        &decidedAt,
		}, nil)

	body := []byte(`{"action":"approve"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submissions/sub-1/decision", bytes.NewReader(body)))

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var decision submission.Decision
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &decision))
	assert.Equal(s.T(), submission.StatusApproved, decision.Status)
	assert.Equal(s.T(), "signed-token", decision.ApprovalArtifact)
}

func (s *ModerationHandlerSuite) TestHandleDecisionErrors() {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"already decided", dErrors.Wrap(dErrors.CodeNotPending, "submission sub-1 is already approved", moderation.ErrNotPending), http.StatusConflict},
		{"missing feedback", dErrors.New(dErrors.CodeValidation, "rejection requires feedback"), http.StatusBadRequest},
		{"unknown action", dErrors.New(dErrors.CodeBadRequest, "unknown action: escalate"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			r, mockService := newTestRouter(s.T())
			mockService.EXPECT().Decide(gomock.Any(), "sub-1", gomock.Any(), gomock.Any()).
				Return(nil, tc.err)

			body := []byte(`{"action":"reject"}`)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submissions/sub-1/decision", bytes.NewReader(body)))

			assert.Equal(s.T(), tc.wantStatus, w.Code)
		})
	}
}

func (s *ModerationHandlerSuite) TestHandleDecisionBadBody() {
	r, _ := newTestRouter(s.T())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submissions/sub-1/decision", bytes.NewReader([]byte("{not json"))))

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

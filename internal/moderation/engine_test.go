package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"assetgate/internal/audit"
	"assetgate/internal/blobstore"
	"assetgate/internal/form"
	"assetgate/internal/submission"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/requestcontext"
)

type fakeSigner struct {
	fail bool
}

func (f *fakeSigner) SignApproval(_ context.Context, submissionID string) (string, error) {
	if f.fail {
		return "", errors.New("signer offline")
	}
	return "artifact-for-" + submissionID, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type EngineSuite struct {
	suite.Suite
	store    *blobstore.Memory
	registry *submission.Registry
	sink     *audit.MemorySink
	engine   *Engine
}

func (s *EngineSuite) SetupTest() {
	s.store = blobstore.NewMemory()
	s.registry = submission.NewRegistry(s.store, discardLogger())
	s.sink = audit.NewMemorySink()
	s.engine = NewEngine(s.registry, &fakeSigner{}, audit.NewPublisher(s.sink), discardLogger(), nil)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) commit(name, email string, at time.Time) *submission.Submission {
	ctx := requestcontext.WithTime(context.Background(), at)
	sub, err := s.registry.Commit(ctx, form.KindFinancing, form.State{Fields: map[string]string{
		form.FieldFullName:   name,
		form.FieldEmail:      email,
		form.FieldNationalID: "AB-123456",
	}})
	s.Require().NoError(err)
	return sub
}

func (s *EngineSuite) TestApprove() {
	ctx := context.Background()
	sub := s.commit("Maria Santos", "maria@example.com", time.Now())

	s.Run("approval attaches the artifact and stamps the decision", func() {
		decision, err := s.engine.Decide(ctx, sub.ID, ActionApprove, "")
		s.Require().NoError(err)
		s.Equal(submission.StatusApproved, decision.Status)
		s.Equal("artifact-for-"+sub.ID, decision.ApprovalArtifact)
		s.Require().NotNil(decision.DecidedAt)

		stored, err := s.registry.GetByID(ctx, sub.ID)
		s.Require().NoError(err)
		s.Equal(submission.StatusApproved, stored.Decision.Status)
	})

	s.Run("decisions are monotonic", func() {
		for _, action := range []Action{ActionApprove, ActionReject} {
			_, err := s.engine.Decide(ctx, sub.ID, action, "try again")
			s.Require().ErrorIs(err, ErrNotPending)
			s.Equal(dErrors.CodeNotPending, dErrors.CodeOf(err))
		}

		stored, err := s.registry.GetByID(ctx, sub.ID)
		s.Require().NoError(err)
		s.Equal(submission.StatusApproved, stored.Decision.Status)
		s.Equal("artifact-for-"+sub.ID, stored.Decision.ApprovalArtifact)
	})

	s.Run("approval is audited", func() {
		events := s.sink.Events()
		s.Require().Len(events, 1)
		s.Equal(audit.ActionApproved, events[0].Action)
		s.Equal(sub.ID, events[0].SubmissionID)
	})
}

func (s *EngineSuite) TestReject() {
	ctx := context.Background()

	s.Run("rejection without feedback is a validation error", func() {
		sub := s.commit("Maria Santos", "maria@example.com", time.Now())

		_, err := s.engine.Decide(ctx, sub.ID, ActionReject, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
		s.NotErrorIs(err, ErrNotPending)

		stored, err := s.registry.GetByID(ctx, sub.ID)
		s.Require().NoError(err)
		s.Equal(submission.StatusPending, stored.Decision.Status)
	})

	s.Run("rejection with a reason succeeds without an artifact", func() {
		sub := s.commit("Joao Pereira", "joao@example.com", time.Now())

		decision, err := s.engine.Decide(ctx, sub.ID, ActionReject, "insufficient documentation")
		s.Require().NoError(err)
		s.Equal(submission.StatusRejected, decision.Status)
		s.Equal("insufficient documentation", decision.Feedback)
		s.Empty(decision.ApprovalArtifact)
		s.Require().NotNil(decision.DecidedAt)
	})
}

func (s *EngineSuite) TestDecideEdgeCases() {
	ctx := context.Background()

	s.Run("unknown action is a bad request", func() {
		sub := s.commit("Maria Santos", "maria@example.com", time.Now())

		_, err := s.engine.Decide(ctx, sub.ID, Action("escalate"), "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
	})

	s.Run("unknown submission bubbles not found", func() {
		_, err := s.engine.Decide(ctx, "missing", ActionApprove, "")
		s.Require().Error(err)
	})

	s.Run("signer failure leaves the record pending", func() {
		sub := s.commit("Maria Santos", "maria2@example.com", time.Now())
		engine := NewEngine(s.registry, &fakeSigner{fail: true}, audit.NewPublisher(s.sink), discardLogger(), nil)

		_, err := engine.Decide(ctx, sub.ID, ActionApprove, "")
		s.Require().Error(err)

		stored, err := s.registry.GetByID(ctx, sub.ID)
		s.Require().NoError(err)
		s.Equal(submission.StatusPending, stored.Decision.Status)
	})

	s.Run("reviewer identity is recorded from context", func() {
		sub := s.commit("Maria Santos", "maria3@example.com", time.Now())
		rctx := requestcontext.WithReviewerID(ctx, "reviewer-7")

		decision, err := s.engine.Decide(rctx, sub.ID, ActionReject, "blurry selfie")
		s.Require().NoError(err)
		s.Equal("reviewer-7", decision.DecidedBy)
	})
}

func (s *EngineSuite) TestSearch() {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	older := s.commit("Maria Santos", "maria@example.com", base)
	newer := s.commit("Maria Lopes", "mlopes@example.com", base.Add(2*time.Hour))
	other := s.commit("John Doe", "john@example.com", base.Add(time.Hour))

	_, err := s.engine.Decide(ctx, older.ID, ActionApprove, "")
	s.Require().NoError(err)
	_, err = s.engine.Decide(ctx, newer.ID, ActionApprove, "")
	s.Require().NoError(err)
	_, err = s.engine.Decide(ctx, other.ID, ActionApprove, "")
	s.Require().NoError(err)

	s.Run("query with status filter, newest first", func() {
		got, err := s.engine.Search(ctx, form.KindFinancing, "maria", submission.StatusApproved, SortDesc)
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(newer.ID, got[0].ID)
		s.Equal(older.ID, got[1].ID)
	})

	s.Run("matching is case-insensitive", func() {
		got, err := s.engine.Search(ctx, form.KindFinancing, "MARIA", "", SortAsc)
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("status filter excludes non-matching records", func() {
		got, err := s.engine.Search(ctx, form.KindFinancing, "", submission.StatusPending, SortAsc)
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("query can match the submission ID", func() {
		got, err := s.engine.Search(ctx, form.KindFinancing, other.ID, "", SortAsc)
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(other.ID, got[0].ID)
	})

	s.Run("timestamp ties break by ID ascending", func() {
		store := blobstore.NewMemory()
		registry := submission.NewRegistry(store, discardLogger())
		engine := NewEngine(registry, &fakeSigner{}, nil, discardLogger(), nil)

		at := requestcontext.WithTime(ctx, base)
		for i := 0; i < 3; i++ {
			_, err := registry.Commit(at, form.KindFinancing, form.State{})
			s.Require().NoError(err)
		}

		got, err := engine.Search(ctx, form.KindFinancing, "", "", SortDesc)
		s.Require().NoError(err)
		s.Require().Len(got, 3)
		for i := 1; i < len(got); i++ {
			s.Less(got[i-1].ID, got[i].ID)
		}
	})
}

func (s *EngineSuite) TestAuditCarriesRejectionReason() {
	ctx := context.Background()
	sub := s.commit("Maria Santos", "maria@example.com", time.Now())

	_, err := s.engine.Decide(ctx, sub.ID, ActionReject, "expired national ID")
	s.Require().NoError(err)

	events := s.sink.Events()
	s.Require().Len(events, 1)
	s.Equal(audit.ActionRejected, events[0].Action)
	s.Equal("expired national ID", events[0].Reason)
}

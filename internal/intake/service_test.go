package intake

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"assetgate/internal/blobstore"
	"assetgate/internal/capture"
	"assetgate/internal/form"
	"assetgate/internal/submission"
	"assetgate/internal/wizard"
	"assetgate/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	store    *blobstore.Memory
	registry *submission.Registry
	service  *Service
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = blobstore.NewMemory()
	s.registry = submission.NewRegistry(s.store, logger)
	s.service = s.newService(nil)
}

func (s *ServiceSuite) newService(cam capture.Camera) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	drafts := wizard.NewDraftStore(s.store, logger)
	return NewService(drafts, capture.NewNormalizer(), s.registry, cam, logger, nil)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func testJPEG(t interface{ Helper() }, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func applicantFields() map[string]string {
	return map[string]string{
		form.FieldFullName:   "Maria Santos",
		form.FieldEmail:      "maria@example.com",
		form.FieldNationalID: "AB-123456",
	}
}

func financingFields() map[string]string {
	return map[string]string{
		form.FieldAssetDescription: "warehouse refit",
		form.FieldAmountRequested:  "25000",
		form.FieldTermMonths:       "48",
	}
}

func (s *ServiceSuite) TestStart() {
	ctx := context.Background()

	s.Run("fresh session begins at the first step", func() {
		snap, err := s.service.Start(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.Equal(0, snap.StepID)
		s.Equal(3, snap.TotalSteps)
		s.False(snap.Committed)
	})

	s.Run("start on a live session keeps its position", func() {
		_, err := s.service.Next(ctx, form.KindFinancing, applicantFields())
		s.Require().NoError(err)

		snap, err := s.service.Start(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.Equal(1, snap.StepID)
		s.Equal("Maria Santos", snap.Fields[form.FieldFullName])
	})

	s.Run("kinds do not share sessions", func() {
		snap, err := s.service.Start(ctx, form.KindTokenization)
		s.Require().NoError(err)
		s.Equal(0, snap.StepID)
		s.Equal(4, snap.TotalSteps)
	})
}

func (s *ServiceSuite) TestOperationsRequireSession() {
	ctx := context.Background()

	_, err := s.service.Next(ctx, form.KindFinancing, nil)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.service.AttachUpload(ctx, form.KindFinancing, testJPEG(s.T(), 64, 64), "image/jpeg")
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	_, err = s.service.Finalize(ctx, form.KindFinancing)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *ServiceSuite) TestFullFinancingFlow() {
	ctx := context.Background()

	_, err := s.service.Start(ctx, form.KindFinancing)
	s.Require().NoError(err)

	snap, err := s.service.Next(ctx, form.KindFinancing, applicantFields())
	s.Require().NoError(err)
	s.Equal(1, snap.StepID)

	snap, err = s.service.Next(ctx, form.KindFinancing, financingFields())
	s.Require().NoError(err)
	s.Equal(2, snap.StepID)
	s.Equal(form.StepMedia, snap.StepKind)

	snap, err = s.service.AttachUpload(ctx, form.KindFinancing, testJPEG(s.T(), 640, 480), "image/jpeg")
	s.Require().NoError(err)
	s.Equal(1, snap.MediaCount)
	s.Empty(snap.Incomplete)

	sub, err := s.service.Finalize(ctx, form.KindFinancing)
	s.Require().NoError(err)
	s.Equal(submission.StatusPending, sub.Decision.Status)
	s.Equal("Maria Santos", sub.Fields[form.FieldFullName])
	s.Len(sub.Media, 1)

	s.Run("finalize retires the session", func() {
		snap, err := s.service.Start(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.Equal(0, snap.StepID)
		s.Empty(snap.Fields)
	})
}

func (s *ServiceSuite) TestFinalizeIncomplete() {
	ctx := context.Background()

	_, err := s.service.Start(ctx, form.KindFinancing)
	s.Require().NoError(err)
	_, err = s.service.Next(ctx, form.KindFinancing, applicantFields())
	s.Require().NoError(err)

	_, err = s.service.Finalize(ctx, form.KindFinancing)
	s.Require().Error(err)

	// The session stays open for the client to fix and retry.
	snap, err := s.service.Start(ctx, form.KindFinancing)
	s.Require().NoError(err)
	s.Equal(1, snap.StepID)
}

func (s *ServiceSuite) TestDraft() {
	ctx := context.Background()

	s.Run("no draft and no session", func() {
		_, found, err := s.service.Draft(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.False(found)
	})

	s.Run("live session is reported", func() {
		_, err := s.service.Start(ctx, form.KindFinancing)
		s.Require().NoError(err)
		_, err = s.service.Next(ctx, form.KindFinancing, applicantFields())
		s.Require().NoError(err)

		snap, found, err := s.service.Draft(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.True(found)
		s.Equal(1, snap.StepID)
	})

	s.Run("a new service sees the persisted draft", func() {
		restarted := s.newService(nil)

		snap, found, err := restarted.Draft(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.True(found)
		s.Equal(1, snap.StepID)
		s.Equal("maria@example.com", snap.Fields[form.FieldEmail])

		started, err := restarted.Start(ctx, form.KindFinancing)
		s.Require().NoError(err)
		s.Equal(snap.StepID, started.StepID)
	})
}

type stubCamera struct {
	frame []byte
}

func (c *stubCamera) Open(context.Context) (capture.Handle, error) {
	return &stubHandle{frame: c.frame}, nil
}

type stubHandle struct {
	frame []byte
}

func (h *stubHandle) Read(context.Context) ([]byte, error) { return h.frame, nil }
func (h *stubHandle) Close() error                         { return nil }

func (s *ServiceSuite) TestCameraCapture() {
	ctx := context.Background()

	s.Run("without a device capture is denied", func() {
		_, err := s.service.Start(ctx, form.KindFinancing)
		s.Require().NoError(err)

		_, err = s.service.CaptureFromCamera(ctx, form.KindFinancing)
		s.Require().ErrorIs(err, capture.ErrPermissionDenied)
	})

	s.Run("configured device attaches a frame", func() {
		service := s.newService(&stubCamera{frame: testJPEG(s.T(), 640, 480)})

		_, err := service.Start(ctx, form.KindTokenization)
		s.Require().NoError(err)
		for _, fields := range []map[string]string{
			applicantFields(),
			{
				form.FieldAssetName:      "Press line",
				form.FieldAssetType:      "equipment",
				form.FieldEstimatedValue: "120000",
				form.FieldSerialNumber:   "PL-0099",
			},
		} {
			_, err = service.Next(ctx, form.KindTokenization, fields)
			s.Require().NoError(err)
		}

		snap, err := service.CaptureFromCamera(ctx, form.KindTokenization)
		s.Require().NoError(err)
		s.Equal(1, snap.MediaCount)
	})
}

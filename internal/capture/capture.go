// Package capture acquires biometric and document images from a camera or an
// uploaded file and normalizes them before they are attached to an intake
// session.
package capture

import (
	"context"
	"errors"
)

// SourceKind records how a piece of media entered the system.
type SourceKind string

const (
	SourceCamera SourceKind = "camera"
	SourceUpload SourceKind = "upload"
)

// Media is a normalized image ready to be attached to a submission. Bytes are
// the encoded image; Width/Height describe the decoded dimensions.
type Media struct {
	Source   SourceKind `json:"source"`
	Bytes    []byte     `json:"bytes"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	MIMEType string     `json:"mime_type"`
}

// Acquisition failure kinds. Each maps to distinct guidance in the wizard UI,
// so they stay separate sentinels rather than one opaque error.
var (
	ErrPermissionDenied  = errors.New("camera permission denied")
	ErrUnsupportedFormat = errors.New("unsupported media format")
	ErrSizeExceeded      = errors.New("media size exceeded")
	ErrReadFailure       = errors.New("media read failure")
)

// Camera is the scoped device port supplied by the host environment. The
// handle is exclusive: it must be closed on every exit path so the device is
// never leaked past the capture step.
type Camera interface {
	Open(ctx context.Context) (Handle, error)
}

// Handle is an open camera stream.
type Handle interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

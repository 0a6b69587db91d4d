package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxUploadBytes is the upload size ceiling enforced before any decode.
	MaxUploadBytes = 5 << 20

	// MaxWidth and MaxHeight bound uploaded images. Camera captures keep their
	// device-native dimensions, which are already bounded by the device.
	MaxWidth  = 1280
	MaxHeight = 960

	jpegQuality = 85
)

// Normalizer acquires and bounds media input. It is stateless; one instance
// serves all sessions.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// AcquireFromFile validates and normalizes an uploaded image. Images already
// within bounds pass through byte-identical, so re-running the normalizer on
// its own output is a no-op.
func (n *Normalizer) AcquireFromFile(_ context.Context, data []byte, mimeType string) (Media, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return Media{}, fmt.Errorf("mime type %q: %w", mimeType, ErrUnsupportedFormat)
	}
	if len(data) > MaxUploadBytes {
		return Media{}, fmt.Errorf("%d bytes: %w", len(data), ErrSizeExceeded)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Media{}, fmt.Errorf("decode image config: %w", ErrUnsupportedFormat)
	}

	if cfg.Width <= MaxWidth && cfg.Height <= MaxHeight {
		return Media{
			Source:   SourceUpload,
			Bytes:    data,
			Width:    cfg.Width,
			Height:   cfg.Height,
			MIMEType: mimeType,
		}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Media{}, fmt.Errorf("decode image: %w", ErrUnsupportedFormat)
	}

	scaled, w, h := downscale(src, cfg.Width, cfg.Height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Media{}, fmt.Errorf("encode image: %w", ErrReadFailure)
	}

	return Media{
		Source:   SourceUpload,
		Bytes:    buf.Bytes(),
		Width:    w,
		Height:   h,
		MIMEType: "image/jpeg",
	}, nil
}

// AcquireFromCamera opens the device, reads one frame, and closes the handle.
// The handle is released on every path, including read and decode failures.
func (n *Normalizer) AcquireFromCamera(ctx context.Context, cam Camera) (Media, error) {
	handle, err := cam.Open(ctx)
	if err != nil {
		return Media{}, fmt.Errorf("open camera: %w", ErrPermissionDenied)
	}
	defer handle.Close()

	data, err := handle.Read(ctx)
	if err != nil {
		return Media{}, fmt.Errorf("read camera frame: %w", ErrReadFailure)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Media{}, fmt.Errorf("decode camera frame: %w", ErrReadFailure)
	}

	return Media{
		Source:   SourceCamera,
		Bytes:    data,
		Width:    cfg.Width,
		Height:   cfg.Height,
		MIMEType: "image/" + format,
	}, nil
}

// downscale fits src into MaxWidth x MaxHeight with a single scale factor so
// the aspect ratio is preserved.
func downscale(src image.Image, w, h int) (image.Image, int, int) {
	scale := math.Min(float64(MaxWidth)/float64(w), float64(MaxHeight)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	if nw > MaxWidth {
		nw = MaxWidth
	}
	if nh > MaxHeight {
		nh = MaxHeight
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nw, nh
}

// Package capture obtains a photo from a camera source and prepares it for
// upload.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	// Decoders for the accepted source formats.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"phototask/internal/logging"
)

var (
	// ErrPermissionDenied means camera access was refused.
	ErrPermissionDenied = errors.New("camera permission is required to take a photo")

	// ErrCanceled means the user backed out of the capture.
	ErrCanceled = errors.New("photo capture canceled")
)

// Camera is a photo source.
type Camera interface {
	// RequestPermission asks for camera access.
	RequestPermission(ctx context.Context) (bool, error)

	// Capture returns the path of a raw photo, or ErrCanceled.
	Capture(ctx context.Context) (string, error)
}

// Options control how captured photos are processed.
type Options struct {
	MaxWidth int    // wider photos are scaled down to this width
	Quality  int    // JPEG quality, 1-100
	Dir      string // output directory; os.TempDir() if empty
}

// DefaultOptions are used for every task photo.
var DefaultOptions = Options{MaxWidth: 1024, Quality: 70}

// Adapter runs a Camera and processes what it returns.
type Adapter struct {
	cam  Camera
	opts Options
	log  *slog.Logger
}

// NewAdapter creates an Adapter.
func NewAdapter(cam Camera, opts Options, log *slog.Logger) *Adapter {
	return &Adapter{cam: cam, opts: opts, log: logging.OrDiscard(log)}
}

// TakePhoto captures a photo and returns the path of the processed JPEG.
func (a *Adapter) TakePhoto(ctx context.Context) (string, error) {
	granted, err := a.cam.RequestPermission(ctx)
	if err != nil {
		return "", fmt.Errorf("request camera permission: %w", err)
	}
	if !granted {
		return "", ErrPermissionDenied
	}

	raw, err := a.cam.Capture(ctx)
	if err != nil {
		return "", err
	}

	out, err := Process(raw, a.opts)
	if err != nil {
		return "", err
	}
	a.log.Debug("processed photo", "source", raw, "output", out)
	return out, nil
}

// Process decodes the image at src, scales it down to opts.MaxWidth and
// writes it as JPEG to a new file in opts.Dir. Returns the new file's path.
func Process(src string, opts Options) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode photo %s: %w", filepath.Base(src), err)
	}

	img = Resize(img, opts.MaxWidth)

	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create photo cache: %w", err)
	}

	out, err := os.CreateTemp(dir, "photo-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultOptions.Quality
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("encode %s photo: %w", format, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("write photo: %w", err)
	}
	return out.Name(), nil
}

// Resize scales img to maxWidth keeping its aspect ratio.
// Images that already fit, and a non-positive maxWidth, are returned as is.
func Resize(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// FileCamera "captures" an existing file.
type FileCamera struct {
	Path string
}

var _ Camera = FileCamera{}

// RequestPermission is denied when the file exists but cannot be read.
func (c FileCamera) RequestPermission(context.Context) (bool, error) {
	if c.Path == "" {
		return true, nil
	}
	f, err := os.Open(c.Path)
	if errors.Is(err, os.ErrPermission) {
		return false, nil
	}
	if err == nil {
		f.Close()
	}
	return true, nil
}

// Capture returns Path, or ErrCanceled when no path was given.
func (c FileCamera) Capture(context.Context) (string, error) {
	if c.Path == "" {
		return "", ErrCanceled
	}
	if _, err := os.Stat(c.Path); err != nil {
		return "", fmt.Errorf("photo: %w", err)
	}
	return c.Path, nil
}

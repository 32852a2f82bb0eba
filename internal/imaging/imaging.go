// Package imaging declares the pixel-transform collaborator. The gallery core
// treats image processing as opaque: it hands a blob stream and options to a
// Transformer and returns whatever comes back.
package imaging

import (
	"context"
	"fmt"
	"io"
)

// Options describe the requested output variant.
type Options struct {
	Format       string // "jpg", "png", "webp"; empty keeps the source format
	ResizeWidth  int
	ResizeHeight int
	Sepia        bool
	Blur         float64
}

// Transformer converts a source image into the requested variant.
type Transformer interface {
	Transform(ctx context.Context, r io.Reader, opts Options) (data []byte, contentType string, ext string, err error)
}

// PassThrough is a Transformer that returns the source bytes untouched. It
// stands in until a real pixel pipeline is plugged in.
type PassThrough struct{}

func (PassThrough) Transform(ctx context.Context, r io.Reader, opts Options) ([]byte, string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", "", fmt.Errorf("read source image: %w", err)
	}
	ct, ext := FormatMeta(opts.Format)
	return data, ct, ext, nil
}

// FormatMeta maps an output format name to its content type and extension.
func FormatMeta(format string) (contentType, ext string) {
	switch format {
	case "png":
		return "image/png", ".png"
	case "webp":
		return "image/webp", ".webp"
	default:
		return "image/jpeg", ".jpg"
	}
}

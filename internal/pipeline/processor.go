// Package pipeline wires the compressor to host-provided capabilities:
// reading a file's content as a data URL, decoding it into a raster, and
// choosing between the recompressed result and the original bytes.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/AnyUserName/imgfit-cli/internal/compressor"
	"github.com/AnyUserName/imgfit-cli/internal/dataurl"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidInputType indicates the file's declared content type is not in
// the image family. The check aborts the pipeline before any read or
// decode (the original signalled failure but kept going — an oversight,
// not a policy worth preserving).
var ErrInvalidInputType = errors.New("file type is not an image")

// File is the host file-reading capability: an opaque handle whose
// declared content type can be inspected before reading, and whose full
// content can be read as a data URL.
type File interface {
	// Name identifies the file in errors and logs.
	Name() string
	// ContentType returns the declared MIME type.
	ContentType() string
	// ReadDataURL reads the full content as a data URL string.
	ReadDataURL() (string, error)
}

// Processor runs the read → decode → compress → compare pipeline.
// Configuration is immutable after New; calls share no other state and
// may run concurrently.
type Processor struct {
	comp *compressor.Compressor
}

// New creates a processor with a validated compressor configuration.
func New(maxSize, level int) (*Processor, error) {
	comp, err := compressor.New(maxSize, level)
	if err != nil {
		return nil, err
	}
	return &Processor{comp: comp}, nil
}

// Compressor exposes the underlying compressor configuration.
func (p *Processor) Compressor() *compressor.Compressor { return p.comp }

// ProcessFile validates, reads, decodes and compresses f, returning a
// data URL. If recompression would not shrink the content, the original
// string is returned unchanged.
func (p *Processor) ProcessFile(f File) (string, error) {
	if !dataurl.IsImageMIME(f.ContentType()) {
		return "", fmt.Errorf("%s: %q: %w", f.Name(), f.ContentType(), ErrInvalidInputType)
	}

	original, err := f.ReadDataURL()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name(), err)
	}

	return p.Process(original)
}

// Process runs the pipeline on content already in data-URL form.
func (p *Processor) Process(original string) (string, error) {
	src, err := dataurl.Parse(original)
	if err != nil {
		return "", fmt.Errorf("parse content: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	jpg, err := p.comp.ScaleAndCompress(img)
	if err != nil {
		return "", fmt.Errorf("compress: %w", err)
	}

	// A source that arrived better-compressed than our output would only
	// bloat if re-encoded. Return the shorter encoded form.
	result := dataurl.New("image/jpeg", jpg).String()
	if len(original) < len(result) {
		return original, nil
	}
	return result, nil
}

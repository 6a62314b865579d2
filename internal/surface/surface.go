// Package surface provides the mutable drawing target the compressor
// renders into: a fixed-size RGBA buffer that can render images scaled
// into its top-left corner, halve its own content, and hand out a
// top-left region for the final copy-out.
package surface

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// maxPixels bounds a single surface allocation (NRGBA is 4 bytes/pixel,
// so this caps one buffer at 256 MB). Huge originals fail loudly here
// instead of exhausting memory mid-pipeline.
const maxPixels = 1 << 26

var (
	// ErrEmptySurface indicates a requested dimension was < 1.
	ErrEmptySurface = errors.New("surface dimensions must be positive")
	// ErrSurfaceTooLarge indicates the allocation exceeds the pixel budget.
	ErrSurfaceTooLarge = errors.New("surface exceeds pixel budget")
)

// Surface is a w×h pixel buffer. A fresh or resized surface is cleared.
type Surface struct {
	img *image.NRGBA
}

// New allocates a cleared surface.
func New(w, h int) (*Surface, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, w, h))}, nil
}

func checkSize(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("%dx%d: %w", w, h, ErrEmptySurface)
	}
	if w*h > maxPixels {
		return fmt.Errorf("%dx%d: %w", w, h, ErrSurfaceTooLarge)
	}
	return nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// SetSize reallocates the surface at w×h, clearing its content.
func (s *Surface) SetSize(w, h int) error {
	if err := checkSize(w, h); err != nil {
		return err
	}
	s.img = image.NewNRGBA(image.Rect(0, 0, w, h))
	return nil
}

// Draw renders src scaled to exactly w×h into the top-left corner.
// Bilinear: each progressive step keeps the scale factor near 1/2, which
// is the regime a bilinear kernel filters cleanly.
func (s *Surface) Draw(src image.Image, w, h int) {
	scaled := imaging.Resize(src, w, h, imaging.Linear)
	s.img = imaging.Paste(s.img, scaled, image.Pt(0, 0))
}

// Halve reads the current top-left w×h region and writes it back at
// half size. The crop→resize→paste sequence materializes a fresh buffer
// per step, so source and destination never alias.
func (s *Surface) Halve(w, h int) {
	hw, hh := w/2, h/2
	if hw < 1 {
		hw = 1
	}
	if hh < 1 {
		hh = 1
	}
	region := imaging.Crop(s.img, image.Rect(0, 0, w, h))
	scaled := imaging.Resize(region, hw, hh, imaging.Linear)
	s.img = imaging.Paste(s.img, scaled, image.Pt(0, 0))
}

// Region returns the top-left w×h pixels as a standalone image.
func (s *Surface) Region(w, h int) *image.NRGBA {
	return imaging.Crop(s.img, image.Rect(0, 0, w, h))
}

// Image exposes the full backing pixels.
func (s *Surface) Image() *image.NRGBA { return s.img }

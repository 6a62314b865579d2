// Package compressor implements the downscaling compressor: it bounds an
// image's dimensions by a maximum size using progressive power-of-two
// downscaling and encodes the result as JPEG.
//
// A single resize from a much larger image to a much smaller one aliases
// visibly on cheap resampling kernels. Instead, the image is first rendered
// at target×2^n (the largest such size that does not upscale) and then
// halved n times, so every step's scale factor stays close to 1/2.
package compressor

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/AnyUserName/imgfit-cli/internal/encoder"
	"github.com/AnyUserName/imgfit-cli/internal/surface"
)

var (
	// ErrEmptyImage indicates a zero-area source image.
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrInvalidMaxSize indicates maxSize < 1 at construction.
	ErrInvalidMaxSize = errors.New("max size must be positive")
	// ErrInvalidLevel indicates a compression level outside [0, 100].
	ErrInvalidLevel = errors.New("compression level must be in [0, 100]")
)

// Compressor holds the two knobs set at construction and reused across
// calls. It carries no per-call state, so it is safe for concurrent use.
type Compressor struct {
	maxSize int
	level   int
}

// New validates and stores the configuration. The original environment
// accepted garbage here; validation is a deliberate hardening.
func New(maxSize, level int) (*Compressor, error) {
	if maxSize < 1 {
		return nil, fmt.Errorf("%d: %w", maxSize, ErrInvalidMaxSize)
	}
	if level < 0 || level > 100 {
		return nil, fmt.Errorf("%d: %w", level, ErrInvalidLevel)
	}
	return &Compressor{maxSize: maxSize, level: level}, nil
}

// MaxSize returns the configured maximum dimension.
func (c *Compressor) MaxSize() int { return c.maxSize }

// Level returns the configured compression level.
func (c *Compressor) Level() int { return c.level }

// ScaleAndCompress bounds img within maxSize×maxSize (preserving aspect
// ratio, never upscaling) and returns it JPEG-encoded at the configured
// level.
func (c *Compressor) ScaleAndCompress(img image.Image) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 1 || h < 1 {
		return nil, ErrEmptyImage
	}

	// Within bounds: render unscaled.
	if w <= c.maxSize && h <= c.maxSize {
		final, err := surface.New(w, h)
		if err != nil {
			return nil, fmt.Errorf("final surface: %w", err)
		}
		final.Draw(img, w, h)
		return encoder.EncodeJPEG(final.Image(), c.level)
	}

	plan := Plan(w, h, c.maxSize)

	// Working surface at target×2^n, then halve n times. The working
	// buffer keeps its w0×h0 size throughout; each step shrinks the
	// live content further into the top-left corner.
	work, err := surface.New(plan.InitialW, plan.InitialH)
	if err != nil {
		return nil, fmt.Errorf("working surface: %w", err)
	}
	work.Draw(img, plan.InitialW, plan.InitialH)

	cw, ch := plan.InitialW, plan.InitialH
	for i := 0; i < plan.Steps; i++ {
		work.Halve(cw, ch)
		cw, ch = cw/2, ch/2
	}

	// Only the top-left target region leaves the working surface.
	final, err := surface.New(plan.TargetW, plan.TargetH)
	if err != nil {
		return nil, fmt.Errorf("final surface: %w", err)
	}
	final.Draw(work.Region(plan.TargetW, plan.TargetH), plan.TargetW, plan.TargetH)

	return encoder.EncodeJPEG(final.Image(), c.level)
}

// ScalePlan describes how an image will be brought within a maximum size.
type ScalePlan struct {
	TargetW int
	TargetH int
	// Steps is the number of halvings after the initial render.
	Steps int
	// InitialW, InitialH are the working-surface dimensions: target×2^Steps.
	InitialW int
	InitialH int
}

// Plan computes target dimensions and the halving progression for a w×h
// image bounded by maxSize. Assumes at least one side exceeds maxSize.
func Plan(w, h, maxSize int) ScalePlan {
	tw, th := targetDims(w, h, maxSize)
	n := halvingSteps(tw, w)
	return ScalePlan{
		TargetW:  tw,
		TargetH:  th,
		Steps:    n,
		InitialW: tw << n,
		InitialH: th << n,
	}
}

// Sizes lists every size the working content passes through, from the
// initial render down to the target.
func (p ScalePlan) Sizes() [][2]int {
	sizes := make([][2]int, 0, p.Steps+1)
	w, h := p.InitialW, p.InitialH
	sizes = append(sizes, [2]int{w, h})
	for i := 0; i < p.Steps; i++ {
		w, h = w/2, h/2
		sizes = append(sizes, [2]int{w, h})
	}
	return sizes
}

// targetDims clamps the longer side to maxSize and rounds the shorter side
// from the original aspect ratio. Square images take the width branch.
func targetDims(w, h, maxSize int) (int, int) {
	if w >= h {
		th := int(math.Round(float64(h) * float64(maxSize) / float64(w)))
		if th < 1 {
			th = 1
		}
		return maxSize, th
	}
	tw := int(math.Round(float64(w) * float64(maxSize) / float64(h)))
	if tw < 1 {
		tw = 1
	}
	return tw, maxSize
}

// halvingSteps returns the largest n >= 0 with targetW*2^n <= origW.
// Floored, so rounding can never force an upscaling first render.
func halvingSteps(targetW, origW int) int {
	n := 0
	for targetW<<(n+1) <= origW {
		n++
	}
	return n
}

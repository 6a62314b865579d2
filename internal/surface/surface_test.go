package surface

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func solidImg(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(0, 5); !errors.Is(err, ErrEmptySurface) {
		t.Errorf("0x5: got %v, want ErrEmptySurface", err)
	}
	if _, err := New(5, -1); !errors.Is(err, ErrEmptySurface) {
		t.Errorf("5x-1: got %v, want ErrEmptySurface", err)
	}
	if _, err := New(1<<14, 1<<13); !errors.Is(err, ErrSurfaceTooLarge) {
		t.Errorf("oversized: got %v, want ErrSurfaceTooLarge", err)
	}

	s, err := New(10, 20)
	if err != nil {
		t.Fatalf("10x20: %v", err)
	}
	if s.Width() != 10 || s.Height() != 20 {
		t.Errorf("got %dx%d, want 10x20", s.Width(), s.Height())
	}
}

func TestSetSize_Clears(t *testing.T) {
	s, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	s.Draw(solidImg(8, 8, color.NRGBA{255, 0, 0, 255}), 8, 8)

	if err := s.SetSize(16, 4); err != nil {
		t.Fatal(err)
	}
	if s.Width() != 16 || s.Height() != 4 {
		t.Fatalf("got %dx%d, want 16x4", s.Width(), s.Height())
	}
	for i, v := range s.Image().Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d not cleared: %d", i, v)
		}
	}
}

func TestDraw_TopLeftScaled(t *testing.T) {
	s, err := New(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	s.Draw(solidImg(40, 40, color.NRGBA{0, 200, 0, 255}), 10, 5)

	// Inside the rendered 10x5 region.
	if got := s.Image().NRGBAAt(3, 2); got.G != 200 {
		t.Errorf("rendered region not drawn: %+v", got)
	}
	// Outside stays cleared.
	if got := s.Image().NRGBAAt(15, 15); got != (color.NRGBA{}) {
		t.Errorf("outside region modified: %+v", got)
	}
}

func TestHalve_ShrinksIntoCorner(t *testing.T) {
	s, err := New(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	red := color.NRGBA{255, 0, 0, 255}
	s.Draw(solidImg(8, 8, red), 8, 8)

	s.Halve(8, 8)

	// Surface keeps its size; live content now occupies the top-left 4x4.
	if s.Width() != 8 || s.Height() != 8 {
		t.Fatalf("halve resized the surface: %dx%d", s.Width(), s.Height())
	}
	region := s.Region(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := region.NRGBAAt(x, y); got != red {
				t.Fatalf("(%d,%d) = %+v, want solid red", x, y, got)
			}
		}
	}
}

func TestRegion_Dimensions(t *testing.T) {
	s, err := New(30, 30)
	if err != nil {
		t.Fatal(err)
	}
	r := s.Region(7, 11)
	if r.Bounds().Dx() != 7 || r.Bounds().Dy() != 11 {
		t.Errorf("got %dx%d, want 7x11", r.Bounds().Dx(), r.Bounds().Dy())
	}
}

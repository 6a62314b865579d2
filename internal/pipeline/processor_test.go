package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/AnyUserName/imgfit-cli/internal/dataurl"
)

// memFile is an in-memory File for pipeline tests.
type memFile struct {
	name        string
	contentType string
	url         string
	readErr     error
}

func (f *memFile) Name() string        { return f.name }
func (f *memFile) ContentType() string { return f.contentType }
func (f *memFile) ReadDataURL() (string, error) {
	return f.url, f.readErr
}

func gradientImg(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 251 % 256),
				G: uint8(y * 179 % 256),
				B: uint8((x + y) * 113 % 256),
				A: 255,
			})
		}
	}
	return img
}

func pngDataURL(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return dataurl.New("image/png", buf.Bytes()).String()
}

func jpegDataURL(t *testing.T, img image.Image, quality int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return dataurl.New("image/jpeg", buf.Bytes()).String()
}

func TestProcessFile_InvalidType(t *testing.T) {
	p, err := New(500, 75)
	if err != nil {
		t.Fatal(err)
	}

	f := &memFile{name: "notes.txt", contentType: "text/plain"}
	if _, err := p.ProcessFile(f); !errors.Is(err, ErrInvalidInputType) {
		t.Fatalf("got %v, want ErrInvalidInputType", err)
	}
}

func TestProcessFile_ReadErrorSurfaced(t *testing.T) {
	p, err := New(500, 75)
	if err != nil {
		t.Fatal(err)
	}

	readErr := errors.New("host reader stalled")
	f := &memFile{name: "x.png", contentType: "image/png", readErr: readErr}
	if _, err := p.ProcessFile(f); !errors.Is(err, readErr) {
		t.Fatalf("got %v, want wrapped read error", err)
	}
}

func TestProcess_DecodeFailure(t *testing.T) {
	p, err := New(500, 75)
	if err != nil {
		t.Fatal(err)
	}

	bogus := dataurl.New("image/png", []byte("not an image at all")).String()
	if _, err := p.Process(bogus); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestProcessFile_ScalesAndEncodes(t *testing.T) {
	p, err := New(500, 75)
	if err != nil {
		t.Fatal(err)
	}

	f := &memFile{
		name:        "wide.png",
		contentType: "image/png",
		url:         pngDataURL(t, gradientImg(600, 500)),
	}

	result, err := p.ProcessFile(f)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	d, err := dataurl.Parse(result)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if d.MIME != "image/jpeg" {
		t.Errorf("mime: got %q, want image/jpeg", d.MIME)
	}

	img, err := jpeg.Decode(bytes.NewReader(d.Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 500 || b.Dy() != 417 {
		t.Errorf("got %dx%d, want 500x417", b.Dx(), b.Dy())
	}
}

// A source already compressed harder than our output must pass through
// unchanged: re-encoding it would only bloat the result.
func TestProcess_KeepsSmallerOriginal(t *testing.T) {
	p, err := New(500, 100)
	if err != nil {
		t.Fatal(err)
	}

	original := jpegDataURL(t, gradientImg(300, 200), 5)
	result, err := p.Process(original)
	if err != nil {
		t.Fatal(err)
	}
	if result != original {
		t.Errorf("heavily compressed original was re-encoded (%d -> %d chars)",
			len(original), len(result))
	}
}

// The result is never longer than the original encoded content.
func TestProcess_NeverGrows(t *testing.T) {
	p, err := New(500, 75)
	if err != nil {
		t.Fatal(err)
	}

	originals := []string{
		pngDataURL(t, gradientImg(2000, 1000)),
		pngDataURL(t, gradientImg(300, 200)),
		jpegDataURL(t, gradientImg(640, 480), 10),
		jpegDataURL(t, gradientImg(640, 480), 95),
	}
	for i, original := range originals {
		result, err := p.Process(original)
		if err != nil {
			t.Fatalf("fixture %d: %v", i, err)
		}
		if len(result) > len(original) {
			t.Errorf("fixture %d: result grew: %d -> %d chars", i, len(original), len(result))
		}
	}
}

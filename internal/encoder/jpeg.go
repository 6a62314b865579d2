// Package encoder encodes finished surfaces to JPEG bytes.
package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
)

// EncodeJPEG converts the image to JPEG at the given compression level
// (0-100, where 100 favors fidelity). Level 0 floors at the encoder's
// minimum quality rather than producing an invalid option.
func EncodeJPEG(img image.Image, level int) ([]byte, error) {
	quality := level
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024) // pre-alloc 256KB — avoids repeated grow for typical photos

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

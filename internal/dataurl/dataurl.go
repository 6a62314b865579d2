// Package dataurl implements the data-URL wire format used for image
// content: `data:<mime>;base64,<payload>`.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	scheme    = "data:"
	b64Marker = ";base64,"
)

var (
	// ErrNotDataURL indicates the string does not start with "data:".
	ErrNotDataURL = errors.New("not a data URL")
	// ErrNotBase64 indicates the payload is not marked as base64.
	ErrNotBase64 = errors.New("data URL payload is not base64-encoded")
)

// DataURL is a decoded data URL: a MIME type plus its raw payload bytes.
type DataURL struct {
	MIME string
	Data []byte
}

// New builds a DataURL from a MIME type and raw bytes.
func New(mime string, data []byte) *DataURL {
	return &DataURL{MIME: mime, Data: data}
}

// Parse decodes a `data:<mime>;base64,<payload>` string.
func Parse(s string) (*DataURL, error) {
	if !strings.HasPrefix(s, scheme) {
		return nil, ErrNotDataURL
	}
	rest := s[len(scheme):]

	idx := strings.Index(rest, b64Marker)
	if idx < 0 {
		return nil, ErrNotBase64
	}

	mime := rest[:idx]
	payload := rest[idx+len(b64Marker):]

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}

	return &DataURL{MIME: mime, Data: data}, nil
}

// String encodes back to the canonical `data:<mime>;base64,<payload>` form.
func (d *DataURL) String() string {
	var b strings.Builder
	payloadLen := base64.StdEncoding.EncodedLen(len(d.Data))
	b.Grow(len(scheme) + len(d.MIME) + len(b64Marker) + payloadLen)
	b.WriteString(scheme)
	b.WriteString(d.MIME)
	b.WriteString(b64Marker)
	b.WriteString(base64.StdEncoding.EncodeToString(d.Data))
	return b.String()
}

// IsImage reports whether the declared MIME type is in the image family.
func (d *DataURL) IsImage() bool {
	return IsImageMIME(d.MIME)
}

// IsImageMIME reports whether a MIME type string is in the image family.
func IsImageMIME(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}

package pipeline

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgfit-cli/internal/dataurl"
)

// OSFile is the disk-backed File implementation used by the CLI. The
// declared content type comes from the file extension, with a content
// sniff as fallback for extensionless files.
type OSFile struct {
	Path string
}

// Name returns the file path.
func (f *OSFile) Name() string { return f.Path }

// ContentType returns the declared MIME type for the file.
func (f *OSFile) ContentType() string {
	if t := mime.TypeByExtension(filepath.Ext(f.Path)); t != "" {
		return t
	}
	return f.sniff()
}

// sniff reads the first 512 bytes and detects the content type.
func (f *OSFile) sniff() string {
	file, err := os.Open(f.Path)
	if err != nil {
		return "application/octet-stream"
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	return http.DetectContentType(buf[:n])
}

// ReadDataURL reads the full file content as a data URL.
func (f *OSFile) ReadDataURL() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return dataurl.New(f.ContentType(), data).String(), nil
}

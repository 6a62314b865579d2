// Package report collects per-file results of a compression run and
// writes them as a JSON report.
package report

import (
	"encoding/json"
	"os"
	"time"
)

// Actions recorded per file.
const (
	ActionCompressed = "compressed" // recompressed output was smaller
	ActionOriginal   = "original"   // original bytes kept (already smaller)
	ActionError      = "error"      // file failed; see Error
)

// Report is the top-level output of a compression run.
type Report struct {
	GeneratedAt string  `json:"generated_at"`
	Profile     string  `json:"profile"`
	MaxSize     int     `json:"max_size"`
	Level       int     `json:"level"`
	Files       []Entry `json:"files"`
	Stats       Stats   `json:"stats"`
}

// Entry is the result for one input file.
type Entry struct {
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	Action     string `json:"action"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	InputSize  int64  `json:"input_size"`
	OutputSize int64  `json:"output_size,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalFiles       int   `json:"total_files"`
	Compressed       int   `json:"compressed"`
	KeptOriginal     int   `json:"kept_original"`
	Errors           int   `json:"errors"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// New creates an empty report with run parameters filled in.
func New(profileName string, maxSize, level int) *Report {
	return &Report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		MaxSize:     maxSize,
		Level:       level,
	}
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.Files = append(r.Files, e)
}

// ComputeStats recalculates aggregate statistics from entries.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalFiles = len(r.Files)
	for _, e := range r.Files {
		s.TotalInputBytes += e.InputSize
		s.TotalOutputBytes += e.OutputSize
		switch e.Action {
		case ActionCompressed:
			s.Compressed++
		case ActionOriginal:
			s.KeptOriginal++
		case ActionError:
			s.Errors++
		}
	}
	r.Stats = s
}

// WriteJSON serializes the report to a JSON file.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

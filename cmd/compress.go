package cmd

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/AnyUserName/imgfit-cli/internal/dataurl"
	"github.com/AnyUserName/imgfit-cli/internal/hasher"
	"github.com/AnyUserName/imgfit-cli/internal/pipeline"
	"github.com/AnyUserName/imgfit-cli/internal/profile"
	"github.com/AnyUserName/imgfit-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	compressProfile string
	compressMaxSize int
	compressLevel   int
	compressOutDir  string
	compressWorkers int
	compressDataURL bool
	compressReport  string
)

var compressCmd = &cobra.Command{
	Use:   "compress <file_or_dir>...",
	Short: "Shrink images to fit a maximum dimension and recompress as JPEG",
	Long: `Processes the given image files (directories are scanned for images),
bounding each within --max-size pixels and encoding as JPEG at --quality.
If the recompressed result is not smaller than the original, the original
is kept unchanged.

Output filenames are content-addressed: <name>.<w>.<h>.<hash>.<ext>`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().StringVarP(&compressProfile, "profile", "p", "web", "compression profile")
	compressCmd.Flags().IntVarP(&compressMaxSize, "max-size", "m", 0, "maximum width/height in px (0 = profile default)")
	compressCmd.Flags().IntVarP(&compressLevel, "quality", "q", 0, "JPEG quality 1-100 (0 = profile default)")
	compressCmd.Flags().StringVarP(&compressOutDir, "out", "o", "./imgfit_out", "output directory")
	compressCmd.Flags().IntVarP(&compressWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	compressCmd.Flags().BoolVar(&compressDataURL, "data-url", false, "print data URLs to stdout instead of writing files")
	compressCmd.Flags().StringVar(&compressReport, "report", "", "write a JSON report to this path")
	rootCmd.AddCommand(compressCmd)
}

// fileResult holds the outcome of processing one input file.
type fileResult struct {
	entry report.Entry
	url   string // result data URL, for --data-url mode
	err   error
}

func runCompress(_ *cobra.Command, args []string) error {
	prof := profile.Get(compressProfile)
	if compressMaxSize > 0 {
		prof.MaxSize = compressMaxSize
	}
	if compressLevel > 0 {
		prof.Level = compressLevel
	}

	proc, err := pipeline.New(prof.MaxSize, prof.Level)
	if err != nil {
		return err
	}

	paths, err := pipeline.Scan(args)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no image files found in %s", strings.Join(args, ", "))
	}

	logVerbose("profile: %s (max-size=%d, quality=%d)", prof.Name, prof.MaxSize, prof.Level)
	logVerbose("found %d files", len(paths))

	if !compressDataURL {
		if err := os.MkdirAll(compressOutDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	workers := compressWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Invocations share only the immutable configuration, so files can be
	// processed concurrently without locking.
	results := make([]fileResult, len(paths))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, p string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			logVerbose("processing: %s", p)
			results[idx] = processPath(proc, p)
		}(i, path)
	}
	wg.Wait()

	// Collect results.
	rep := report.New(prof.Name, prof.MaxSize, prof.Level)
	var errCount int
	for _, r := range results {
		rep.Add(r.entry)
		if r.err != nil {
			fmt.Fprintf(os.Stderr, "[imgfit] error: %v\n", r.err)
			errCount++
			continue
		}
		if compressDataURL {
			fmt.Println(r.url)
		}
	}
	if errCount == len(paths) {
		return fmt.Errorf("all %d files failed to process", errCount)
	}
	if errCount > 0 {
		fmt.Fprintf(os.Stderr, "[imgfit] warning: %d of %d files had errors\n", errCount, len(paths))
	}

	rep.ComputeStats()
	if compressReport != "" {
		if err := report.WriteJSON(rep, compressReport); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	printSummary(rep)
	return nil
}

// processPath runs the pipeline on one file and, unless in data-URL mode,
// writes the result to the output directory.
func processPath(proc *pipeline.Processor, path string) fileResult {
	f := &pipeline.OSFile{Path: path}
	entry := report.Entry{Input: path, Action: report.ActionError}

	if ct := f.ContentType(); !dataurl.IsImageMIME(ct) {
		err := fmt.Errorf("%s: %q: %w", path, ct, pipeline.ErrInvalidInputType)
		entry.Error = err.Error()
		return fileResult{entry: entry, err: err}
	}

	original, err := readOriginal(f)
	if err != nil {
		entry.Error = err.Error()
		return fileResult{entry: entry, err: err}
	}
	entry.InputSize = int64(len(original.Data))

	result, err := proc.Process(original.URL)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		entry.Error = err.Error()
		return fileResult{entry: entry, err: err}
	}

	out, err := dataurl.Parse(result)
	if err != nil {
		err = fmt.Errorf("%s: parse result: %w", path, err)
		entry.Error = err.Error()
		return fileResult{entry: entry, err: err}
	}

	entry.Action = report.ActionCompressed
	if result == original.URL {
		entry.Action = report.ActionOriginal
	}
	entry.OutputSize = int64(len(out.Data))

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(out.Data)); err == nil {
		entry.Width = cfg.Width
		entry.Height = cfg.Height
	}

	if !compressDataURL {
		outPath, err := writeResult(path, out, entry.Width, entry.Height)
		if err != nil {
			entry.Action = report.ActionError
			entry.Error = err.Error()
			return fileResult{entry: entry, err: err}
		}
		entry.Output = outPath
		logVerbose("done: %s -> %s", path, outPath)
	}

	return fileResult{entry: entry, url: result}
}

// originalContent pairs the data URL string with its decoded payload.
type originalContent struct {
	URL  string
	Data []byte
}

func readOriginal(f *pipeline.OSFile) (*originalContent, error) {
	url, err := f.ReadDataURL()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	d, err := dataurl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return &originalContent{URL: url, Data: d.Data}, nil
}

// writeResult stores the output bytes under a content-addressed name:
// <name>.<w>.<h>.<hash>.<ext>
func writeResult(inputPath string, d *dataurl.DataURL, w, h int) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	ext := extensionFor(d.MIME, inputPath)
	hash := hasher.ContentHash(d.Data, 8)

	name := fmt.Sprintf("%s.%d.%d.%s.%s", base, w, h, hash, ext)
	outPath := filepath.Join(compressOutDir, name)
	if err := os.WriteFile(outPath, d.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return outPath, nil
}

// extensionFor maps the result MIME type to a file extension, keeping the
// input's extension when the original bytes were kept.
func extensionFor(mime, inputPath string) string {
	if mime == "image/jpeg" {
		return "jpg"
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(inputPath)), "."); ext != "" {
		return ext
	}
	return "bin"
}

func printSummary(rep *report.Report) {
	s := rep.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Println()
	fmt.Printf("  Files:        %d\n", s.TotalFiles)
	fmt.Printf("  Compressed:   %d\n", s.Compressed)
	fmt.Printf("  Kept original: %d\n", s.KeptOriginal)
	if s.Errors > 0 {
		fmt.Printf("  Errors:       %d\n", s.Errors)
	}
	fmt.Printf("  Input size:   %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:  %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Printf("  Ratio:        %.1f%% of original\n", ratio)
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

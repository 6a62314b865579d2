package cmd

import (
	"fmt"
	"image"
	"os"

	"github.com/AnyUserName/imgfit-cli/internal/compressor"
	"github.com/AnyUserName/imgfit-cli/internal/pipeline"
	"github.com/AnyUserName/imgfit-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	inspectProfile string
	inspectMaxSize int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Show the downscale plan for images without processing them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectProfile, "profile", "p", "web", "compression profile")
	inspectCmd.Flags().IntVarP(&inspectMaxSize, "max-size", "m", 0, "maximum width/height in px (0 = profile default)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	prof := profile.Get(inspectProfile)
	if inspectMaxSize > 0 {
		prof.MaxSize = inspectMaxSize
	}

	paths, err := pipeline.Scan(args)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	for _, path := range paths {
		if err := inspectOne(path, prof.MaxSize); err != nil {
			return err
		}
	}
	return nil
}

func inspectOne(path string, maxSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	fmt.Printf("%s: %dx%d %s\n", path, cfg.Width, cfg.Height, format)

	if cfg.Width <= maxSize && cfg.Height <= maxSize {
		fmt.Printf("  within %dpx bound, no scaling\n", maxSize)
		return nil
	}

	plan := compressor.Plan(cfg.Width, cfg.Height, maxSize)
	fmt.Printf("  target: %dx%d, %d halving step(s)\n", plan.TargetW, plan.TargetH, plan.Steps)
	for i, s := range plan.Sizes() {
		if i == 0 {
			fmt.Printf("  render: %dx%d\n", s[0], s[1])
			continue
		}
		fmt.Printf("  halve:  %dx%d\n", s[0], s[1])
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "imgfit",
	Short: "Bounded JPEG resize/compress for image files",
	Long: `imgfit — shrinks images to fit within a maximum dimension and
recompresses them as JPEG, keeping the original when recompression
would not make it smaller.

Large images are downscaled progressively in power-of-two steps to
avoid the aliasing a single big resize produces.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgfit %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[imgfit] "+format+"\n", args...)
	}
}

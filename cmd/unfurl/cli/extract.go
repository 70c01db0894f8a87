package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/meigma/unfurl"
	"github.com/meigma/unfurl/cmd/unfurl/cli/config"
)

var (
	extractPassword    string
	extractBufferSize  string
	extractConcurrency int
	extractReport      bool
	extractProgress    bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive> [directory]",
	Short: "Extract an archive to a directory",
	Long: `Extract unpacks an archive file into a directory (default ".").

The format is selected by file-name suffix. Entries that would escape the
output directory are dropped; use --report to see per-entry outcomes.

Examples:
  unfurl extract bundle.tar.gz ./out
  unfurl extract secrets.zip --password hunter2
  unfurl extract big.tar.zst --buffer-size 1MiB --concurrency 8`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractPassword, "password", "", "Password for encrypted zip entries")
	extractCmd.Flags().StringVar(&extractBufferSize, "buffer-size", "", "Per-file write buffer size (e.g. 256KiB)")
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", 0, "Bound on in-flight file writes (default GOMAXPROCS)")
	extractCmd.Flags().BoolVar(&extractReport, "report", false, "Print a per-entry outcome report")
	extractCmd.Flags().BoolVar(&extractProgress, "progress", false, "Print entries while the archive is decoded")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, args []string) error {
	inputPath := args[0]
	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts, err := extractOptions(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return unfurl.ExtractFile(ctx, inputPath, dir, opts...)
}

// extractOptions merges config-file defaults with flags; flags win.
func extractOptions(cfg *config.Config) ([]unfurl.Option, error) {
	var opts []unfurl.Option

	bufferArg := cfg.Extract.BufferSize
	if extractBufferSize != "" {
		bufferArg = extractBufferSize
	}
	if bufferArg != "" {
		n, err := humanize.ParseBytes(bufferArg)
		if err != nil {
			return nil, fmt.Errorf("invalid buffer size %q: %w", bufferArg, err)
		}
		opts = append(opts, unfurl.WithBufferSize(int(n))) //nolint:gosec // G115: buffer sizes are small
	}

	concurrency := cfg.Extract.Concurrency
	if extractConcurrency > 0 {
		concurrency = extractConcurrency
	}
	if concurrency > 0 {
		opts = append(opts, unfurl.WithConcurrency(concurrency))
	}

	if extractPassword != "" {
		opts = append(opts, unfurl.WithPassword(extractPassword))
	}
	if verbose {
		opts = append(opts, unfurl.WithLogger(
			slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})),
		))
	}
	if extractReport {
		opts = append(opts, unfurl.WithResultFunc(printResult))
	}
	if extractProgress {
		opts = append(opts, unfurl.WithProgress(printProgress))
	}
	return opts, nil
}

func printResult(r unfurl.EntryResult) {
	fmt.Printf("%-14s %s\n", r.Status, r.Name)
}

func printProgress(ev unfurl.ProgressEvent) {
	fmt.Printf("%s (%s)\n", ev.Name, humanize.IBytes(safeUint64(ev.Size)))
}

func safeUint64(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

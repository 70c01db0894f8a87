package unfurl

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/unfurl/core"
	"github.com/meigma/unfurl/internal/fsx"
	"github.com/meigma/unfurl/internal/safepath"
)

// ExtractArchiveSync extracts an already-decoded archive under outputPath,
// materializing entries strictly in archive order. Unsafe entries are
// silently skipped and per-entry write failures are suppressed; use
// WithResultFunc to observe either. Duplicate entry names resolve
// last-write-wins.
func ExtractArchiveSync(archive *Archive, outputPath string, opts ...Option) error {
	cfg := newConfig(opts)
	root, err := prepareRoot(outputPath)
	if err != nil {
		return err
	}
	fo := fsx.Options{BufferSize: cfg.bufferSize, Logger: cfg.logger}
	for _, e := range archive.Entries() {
		extractEntry(e, root, cfg, fo)
	}
	return nil
}

// ExtractArchive extracts an already-decoded archive under outputPath.
// Validation and materialization start in archive order, but regular-file
// writes are fanned out to a bounded group and may complete out of order;
// the call returns only after every started write finished. With duplicate
// entry names the surviving content is unspecified; use ExtractArchiveSync
// when that matters.
//
// Cancelling ctx stops further entries from starting; writes already in
// flight run to completion.
func ExtractArchive(ctx context.Context, archive *Archive, outputPath string, opts ...Option) error {
	return extractConcurrent(ctx, archive, outputPath, newConfig(opts), false)
}

func extractConcurrent(ctx context.Context, archive *Archive, outputPath string, cfg *config, restoreMode bool) error {
	root, err := prepareRoot(outputPath)
	if err != nil {
		return err
	}
	fo := fsx.Options{BufferSize: cfg.bufferSize, RestoreMode: restoreMode, Logger: cfg.logger}

	var g errgroup.Group
	g.SetLimit(cfg.concurrency)
	for _, e := range archive.Entries() {
		if ctx.Err() != nil {
			break
		}
		if e.Type != core.EntryRegular {
			// Directories and symlinks are cheap and later file entries
			// may land inside them; keep those strictly ordered.
			extractEntry(e, root, cfg, fo)
			continue
		}
		path, ok := safepath.ResolveEntryPath(root, e)
		if !ok {
			cfg.logger.Debug("skipping unsafe entry", "name", e.Name)
			cfg.report(e, "", core.StatusSkippedUnsafe)
			continue
		}
		g.Go(func() error {
			// The task owns its destination stream end to end; failures
			// are absorbed per entry.
			cfg.report(e, path, fsx.Materialize(e, path, fo))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func extractEntry(e core.Entry, root string, cfg *config, fo fsx.Options) {
	path, ok := safepath.ResolveEntryPath(root, e)
	if !ok {
		cfg.logger.Debug("skipping unsafe entry", "name", e.Name)
		cfg.report(e, "", core.StatusSkippedUnsafe)
		return
	}
	cfg.report(e, path, fsx.Materialize(e, path, fo))
}

// prepareRoot creates the extraction root (and missing parents) and
// returns its absolute form. The root exists before any entry is written.
func prepareRoot(outputPath string) (string, error) {
	root, err := filepath.Abs(outputPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	return root, nil
}

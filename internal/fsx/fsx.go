// Package fsx writes validated archive entries to disk. Failure is absorbed
// at single-entry granularity: one bad entry must not abort the rest of an
// extraction, so Materialize reports a status instead of returning an error.
package fsx

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/meigma/unfurl/core"
)

const defaultBufferSize = 32 * 1024

// Options configures materialization of a single entry.
type Options struct {
	// BufferSize sets the destination write buffer. When zero the default
	// applies, capped by the entry's own size so tiny files do not
	// over-allocate.
	BufferSize int

	// RestoreMode applies the entry's POSIX permission bits after the
	// content stream is closed. Only the decode pipeline sets this.
	RestoreMode bool

	Logger *slog.Logger
}

// Materialize writes one validated entry to outputPath. Reruns into the
// same root overwrite rather than fail, so extraction is idempotent.
func Materialize(e core.Entry, outputPath string, opts Options) core.EntryStatus {
	var err error
	switch e.Type {
	case core.EntryDir:
		err = os.MkdirAll(outputPath, 0o755)
	case core.EntrySymlink:
		err = writeSymlink(e, outputPath)
	default:
		err = writeFile(e, outputPath, opts)
	}
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Debug("entry write failed", "path", outputPath, "error", err)
		}
		return core.StatusWriteFailed
	}
	return core.StatusExtracted
}

func writeSymlink(e core.Entry, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	// Remove any artifact from a previous run; Symlink fails on EEXIST.
	_ = os.Remove(outputPath)
	return os.Symlink(e.LinkTarget, outputPath)
}

func writeFile(e core.Entry, outputPath string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	// The destination is closed no matter how the transfer went.
	w := bufio.NewWriterSize(f, bufferFor(opts.BufferSize, e.Size))
	var writeErr error
	if e.WriteContent != nil {
		writeErr = e.WriteContent(w)
	}
	flushErr := w.Flush()
	closeErr := f.Close()

	switch {
	case writeErr != nil:
		return writeErr
	case flushErr != nil:
		return flushErr
	case closeErr != nil:
		return closeErr
	}

	if opts.RestoreMode && e.HasMode && runtime.GOOS != "windows" {
		return os.Chmod(outputPath, e.Mode.Perm())
	}
	return nil
}

// bufferFor caps the write buffer at the entry's declared size.
func bufferFor(configured int, size int64) int {
	n := configured
	if n <= 0 {
		n = defaultBufferSize
	}
	if size > 0 && size < int64(n) {
		n = int(size)
	}
	if n < 1 {
		n = 1
	}
	return n
}

package unfurl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/meigma/unfurl/core"
)

// ExtractFile drives the full decode pipeline for a compressed archive
// file: format detection by file-name suffix, an optional whole-file
// decompression pass staged into a temporary container file, container
// decoding, then concurrent extraction under outputPath with POSIX
// permission bits restored where the platform supports it.
//
// An unsupported suffix fails with ErrUnsupportedFormat before any I/O.
// Temporary artifacts, the decoded archive and all opened streams are
// released on every exit path.
func ExtractFile(ctx context.Context, inputPath, outputPath string, opts ...Option) error {
	cfg := newConfig(opts)
	format, ok := formatFor(inputPath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(inputPath))
	}

	st := &stage{}
	defer st.cleanup(cfg.logger)

	containerPath := inputPath
	if format.newTransform != nil {
		staged, err := st.decompress(inputPath, format.newTransform())
		if err != nil {
			return err
		}
		containerPath = staged
	}

	f, err := os.Open(containerPath)
	if err != nil {
		return err
	}
	st.container = f
	info, err := f.Stat()
	if err != nil {
		return err
	}

	archive, err := format.decoder.Decode(f, info.Size(), core.DecodeOptions{
		Password: cfg.password,
		Progress: cfg.progress,
	})
	if err != nil {
		return err
	}
	st.archive = archive

	return extractConcurrent(ctx, archive, outputPath, cfg, true)
}

// stage holds the decode pipeline's transient resources so a single
// deferred cleanup covers every exit path.
type stage struct {
	tempDir   string
	container *os.File
	archive   *Archive
}

// decompress streams the whole input through the transform into a
// deterministically named temp container file and closes both streams
// before returning. Staging to a file is unavoidable: container decoders
// need seekable input, which a single decompression pass cannot provide.
func (s *stage) decompress(inputPath string, t core.Transform) (string, error) {
	dir, err := os.MkdirTemp("", "unfurl-")
	if err != nil {
		return "", err
	}
	s.tempDir = dir

	in, err := os.Open(inputPath)
	if err != nil {
		return "", err
	}
	defer in.Close()

	stagedPath := filepath.Join(dir, "temp.tar")
	out, err := os.Create(stagedPath)
	if err != nil {
		return "", err
	}
	decodeErr := t.DecodeStream(out, in)
	closeErr := out.Close()
	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArchive, decodeErr)
	}
	if closeErr != nil {
		return "", closeErr
	}
	return stagedPath, nil
}

func (s *stage) cleanup(logger *slog.Logger) {
	if s.archive != nil {
		if err := s.archive.Release(); err != nil {
			logger.Debug("archive release failed", "error", err)
		}
	}
	if s.container != nil {
		if err := s.container.Close(); err != nil {
			logger.Debug("container close failed", "error", err)
		}
	}
	if s.tempDir != "" {
		if err := os.RemoveAll(s.tempDir); err != nil {
			logger.Debug("temp dir removal failed", "dir", s.tempDir, "error", err)
		}
	}
}

package codec

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/yeka/zip"

	"github.com/meigma/unfurl/core"
)

var _ core.Decoder = Zip{}

// Zip decodes a zip container, including ZipCrypto and AES encrypted
// entries when a password is supplied. Entry contents stream lazily from
// the underlying ReaderAt, so it must stay open until extraction finishes.
type Zip struct{}

func (Zip) Decode(r io.ReaderAt, size int64, opts core.DecodeOptions) (*core.Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidArchive, err)
	}

	total := len(zr.File)
	var entries []core.Entry
	for i, zf := range zr.File {
		if zf.IsEncrypted() && opts.Password != "" {
			zf.SetPassword(opts.Password)
		}

		mode := zf.Mode()
		switch {
		// Symlink classification wins over any directory bit.
		case mode&fs.ModeSymlink != 0:
			target, err := readLinkTarget(zf)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidArchive, zf.Name, err)
			}
			entries = append(entries, core.Entry{
				Name:       zf.Name,
				Type:       core.EntrySymlink,
				LinkTarget: target,
			})
		case mode.IsDir() || strings.HasSuffix(zf.Name, "/"):
			entries = append(entries, core.Entry{
				Name:    zf.Name,
				Type:    core.EntryDir,
				Mode:    mode.Perm(),
				HasMode: true,
			})
		default:
			entries = append(entries, core.Entry{
				Name:         zf.Name,
				Type:         core.EntryRegular,
				Size:         int64(zf.UncompressedSize64), //nolint:gosec // G115: zip sizes fit int64
				Mode:         mode.Perm(),
				HasMode:      true,
				WriteContent: contentWriter(zf),
			})
		}

		if opts.Progress != nil {
			opts.Progress(core.ProgressEvent{
				Name:  zf.Name,
				Size:  int64(zf.UncompressedSize64), //nolint:gosec // G115: zip sizes fit int64
				Index: i,
				Total: total,
			})
		}
	}
	return core.NewArchive(entries, nil), nil
}

// contentWriter defers opening the compressed entry until extraction asks
// for its bytes.
func contentWriter(zf *zip.File) func(io.Writer) error {
	return func(w io.Writer) error {
		rc, err := zf.Open()
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(w, rc)
		closeErr := rc.Close()
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	}
}

// readLinkTarget drains a symlink entry; the target path is the content.
func readLinkTarget(zf *zip.File) (string, error) {
	rc, err := zf.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

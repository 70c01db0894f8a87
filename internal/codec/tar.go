package codec

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/meigma/unfurl/core"
)

var _ core.Decoder = Tar{}

// Tar decodes a tar container into an in-memory archive. Regular file
// contents are buffered at decode time, since tar is sequential-only and
// extraction may consume entries out of order; Release drops the buffers.
type Tar struct{}

func (Tar) Decode(r io.ReaderAt, size int64, opts core.DecodeOptions) (*core.Archive, error) {
	tr := tar.NewReader(io.NewSectionReader(r, 0, size))
	var entries []core.Entry
	for i := 0; ; i++ {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidArchive, err)
		}

		mode := fs.FileMode(hdr.Mode).Perm() //nolint:gosec // G115: 12 permission bits

		switch hdr.Typeflag {
		case tar.TypeDir:
			entries = append(entries, core.Entry{
				Name:    hdr.Name,
				Type:    core.EntryDir,
				Mode:    mode,
				HasMode: true,
			})
		case tar.TypeSymlink:
			entries = append(entries, core.Entry{
				Name:       hdr.Name,
				Type:       core.EntrySymlink,
				LinkTarget: hdr.Linkname,
			})
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidArchive, hdr.Name, err)
			}
			entries = append(entries, core.Entry{
				Name:    hdr.Name,
				Type:    core.EntryRegular,
				Size:    int64(len(data)),
				Mode:    mode,
				HasMode: true,
				WriteContent: func(w io.Writer) error {
					_, err := w.Write(data)
					return err
				},
			})
		default:
			// Hard links, devices and fifos have no safe materialization.
			continue
		}

		if opts.Progress != nil {
			opts.Progress(core.ProgressEvent{Name: hdr.Name, Size: hdr.Size, Index: i})
		}
	}
	return core.NewArchive(entries, nil), nil
}

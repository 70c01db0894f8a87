// Package codec implements the decompression transforms and container
// decoders behind the core collaborator contracts. Transforms are
// whole-file passes; decoders turn a seekable container file into an
// in-memory archive.
package codec

import (
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/meigma/unfurl/core"
)

// Compile-time interface implementation checks.
var (
	_ core.Transform = Gzip{}
	_ core.Transform = Bzip2{}
	_ core.Transform = Xz{}
	_ core.Transform = Zstd{}
)

// Gzip decompresses a gzip stream.
type Gzip struct{}

func (Gzip) DecodeStream(dst io.Writer, src io.Reader) error {
	zr, err := gzip.NewReader(src)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, zr); err != nil {
		zr.Close()
		return err
	}
	return zr.Close()
}

// Bzip2 decompresses a bzip2 stream.
type Bzip2 struct{}

func (Bzip2) DecodeStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, bzip2.NewReader(src))
	return err
}

// Xz decompresses an xz stream.
type Xz struct{}

func (Xz) DecodeStream(dst io.Writer, src io.Reader) error {
	xr, err := xz.NewReader(src)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, xr)
	return err
}

// Zstd decompresses a zstandard stream.
type Zstd struct{}

func (Zstd) DecodeStream(dst io.Writer, src io.Reader) error {
	zr, err := zstd.NewReader(src)
	if err != nil {
		return err
	}
	defer zr.Close()
	_, err = io.Copy(dst, zr.IOReadCloser())
	return err
}

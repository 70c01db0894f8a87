// Package core provides the shared types and interfaces for unfurl.
//
// This package exists to break import cycles between the root unfurl package
// and internal implementation packages. The unfurl package re-exports all
// public types from this package, so external users should import unfurl
// directly, not unfurl/core.
package core

import (
	"errors"
	"io"
	"io/fs"
)

// Sentinel errors for common failure conditions.
var (
	// ErrUnsupportedFormat indicates the input file's suffix matches no
	// supported archive format.
	ErrUnsupportedFormat = errors.New("unfurl: unsupported archive format")

	// ErrInvalidArchive indicates the input could not be decoded as the
	// format its suffix claims.
	ErrInvalidArchive = errors.New("unfurl: invalid archive")

	// ErrPathTraversal indicates a path traversal attack was detected.
	ErrPathTraversal = errors.New("unfurl: path traversal detected")
)

// EntryType identifies the kind of filesystem object an archive entry
// describes.
type EntryType int

const (
	EntryRegular EntryType = iota
	EntryDir
	EntrySymlink
)

// String returns the short name for the entry type.
func (t EntryType) String() string {
	switch t {
	case EntryRegular:
		return "reg"
	case EntryDir:
		return "dir"
	case EntrySymlink:
		return "symlink"
	}
	return "unknown"
}

// Entry is a single decoded archive member. The Name is archive-internal
// and untrusted: it may contain ".." segments or absolute-looking prefixes
// and must pass path validation before anything is written.
//
// WriteContent streams the entry's bytes into the given destination and is
// set only for regular files. It must be called at most once; entries must
// not be used after the owning Archive is released.
type Entry struct {
	Name       string
	Type       EntryType
	Size       int64
	LinkTarget string

	// Mode carries the entry's POSIX permission bits when HasMode is set.
	Mode    fs.FileMode
	HasMode bool

	WriteContent func(w io.Writer) error
}

// Archive is an ordered collection of decoded entries. It is produced by a
// Decoder and consumed by the extraction drivers.
type Archive struct {
	entries []Entry
	release func() error
}

// NewArchive wraps decoded entries. The release func, if non-nil, frees
// whatever backs the entries (retained buffers, an open container file) and
// is invoked at most once by Release.
func NewArchive(entries []Entry, release func() error) *Archive {
	return &Archive{entries: entries, release: release}
}

// Entries returns the archive members in decode order.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Release frees the archive's retained decode resources. The archive and
// its entries must not be used afterwards. Release is idempotent.
func (a *Archive) Release() error {
	a.entries = nil
	if a.release == nil {
		return nil
	}
	rel := a.release
	a.release = nil
	return rel()
}

// EntryStatus reports the outcome of materializing one entry.
type EntryStatus int

const (
	// StatusExtracted means the entry was written to disk.
	StatusExtracted EntryStatus = iota
	// StatusSkippedUnsafe means the entry failed path or symlink-target
	// validation and was dropped.
	StatusSkippedUnsafe
	// StatusWriteFailed means materialization was attempted but an I/O
	// error occurred; extraction continued with the next entry.
	StatusWriteFailed
)

// String returns a stable lower-case name for the status.
func (s EntryStatus) String() string {
	switch s {
	case StatusExtracted:
		return "extracted"
	case StatusSkippedUnsafe:
		return "skipped-unsafe"
	case StatusWriteFailed:
		return "write-failed"
	}
	return "unknown"
}

// EntryResult is delivered to an opt-in result callback, one per entry.
// Path is empty for entries skipped before path resolution completed.
type EntryResult struct {
	Name   string
	Path   string
	Status EntryStatus
}

// ProgressEvent reports one entry seen during container decoding.
// Total is the number of entries in the container, or 0 when the format
// only reveals the count at end of stream (tar).
type ProgressEvent struct {
	Name  string
	Size  int64
	Index int
	Total int
}

// ProgressFunc is called once per entry during decode (not during
// extraction). Implementations should be efficient as archives may hold
// many entries.
type ProgressFunc func(event ProgressEvent)

// DecodeOptions carries per-decode settings into a Decoder.
type DecodeOptions struct {
	// Password decrypts protected zip entries. Ignored by formats without
	// encryption support.
	Password string
	// Progress, if non-nil, is invoked per entry during decode.
	Progress ProgressFunc
}

// Transform is a whole-file decompression pass: it fully drains src into
// dst. No incremental or partial contract is required.
type Transform interface {
	DecodeStream(dst io.Writer, src io.Reader) error
}

// Decoder parses a container format (tar, zip) into an in-memory Archive.
// Container decoding needs random access, hence the ReaderAt; a compressed
// input must be staged to a file first.
type Decoder interface {
	Decode(r io.ReaderAt, size int64, opts DecodeOptions) (*Archive, error)
}

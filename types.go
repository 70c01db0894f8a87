package unfurl

import "github.com/meigma/unfurl/core"

// Public types re-exported from the core package.
type (
	// Archive is an ordered collection of decoded entries.
	Archive = core.Archive

	// Entry is a single decoded archive member.
	Entry = core.Entry

	// EntryType identifies the kind of filesystem object an entry describes.
	EntryType = core.EntryType

	// EntryResult reports the outcome of one entry to an opt-in callback.
	EntryResult = core.EntryResult

	// EntryStatus is the per-entry outcome carried by EntryResult.
	EntryStatus = core.EntryStatus

	// ProgressEvent reports one entry seen during container decoding.
	ProgressEvent = core.ProgressEvent

	// ProgressFunc is called once per entry during decode.
	ProgressFunc = core.ProgressFunc
)

// Entry type tags. Re-exported from core.
const (
	EntryRegular = core.EntryRegular
	EntryDir     = core.EntryDir
	EntrySymlink = core.EntrySymlink
)

// Per-entry statuses. Re-exported from core.
const (
	StatusExtracted     = core.StatusExtracted
	StatusSkippedUnsafe = core.StatusSkippedUnsafe
	StatusWriteFailed   = core.StatusWriteFailed
)

// NewArchive wraps decoded entries for the extraction drivers. The release
// func, if non-nil, frees whatever backs the entries and runs at most once.
func NewArchive(entries []Entry, release func() error) *Archive {
	return core.NewArchive(entries, release)
}

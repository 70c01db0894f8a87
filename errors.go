package unfurl

import "github.com/meigma/unfurl/core"

// Sentinel errors for common failure conditions.
// Re-exported from core package.
var (
	// ErrUnsupportedFormat indicates the input file's suffix matches no
	// supported archive format.
	ErrUnsupportedFormat = core.ErrUnsupportedFormat

	// ErrInvalidArchive indicates the input could not be decoded as the
	// format its suffix claims.
	ErrInvalidArchive = core.ErrInvalidArchive

	// ErrPathTraversal indicates a path traversal attack was detected.
	ErrPathTraversal = core.ErrPathTraversal
)

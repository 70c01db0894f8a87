package unfurl

import (
	"path/filepath"
	"strings"

	"github.com/meigma/unfurl/core"
	"github.com/meigma/unfurl/internal/codec"
)

// Format maps a family of file-name suffixes to an optional decompression
// stage and a container decoder. The format table is the single source of
// truth for what ExtractFile accepts.
type Format struct {
	// Name is a short identifier such as "tar.gz".
	Name string
	// Suffixes are the lower-case file-name suffixes that select this
	// format.
	Suffixes []string

	newTransform func() core.Transform // nil when the input is the container itself
	decoder      core.Decoder
}

// formats is ordered for display; suffix sets are disjoint so lookup order
// does not matter.
var formats = []Format{
	{Name: "tar.gz", Suffixes: []string{".tar.gz", ".tgz"}, newTransform: func() core.Transform { return codec.Gzip{} }, decoder: codec.Tar{}},
	{Name: "tar.bz2", Suffixes: []string{".tar.bz2", ".tbz"}, newTransform: func() core.Transform { return codec.Bzip2{} }, decoder: codec.Tar{}},
	{Name: "tar.xz", Suffixes: []string{".tar.xz", ".txz"}, newTransform: func() core.Transform { return codec.Xz{} }, decoder: codec.Tar{}},
	{Name: "tar.zst", Suffixes: []string{".tar.zst", ".tzst"}, newTransform: func() core.Transform { return codec.Zstd{} }, decoder: codec.Tar{}},
	{Name: "tar", Suffixes: []string{".tar"}, decoder: codec.Tar{}},
	{Name: "zip", Suffixes: []string{".zip"}, decoder: codec.Zip{}},
}

// Formats returns the supported format table in display order.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// formatFor selects the format for a file path by suffix, case-insensitively.
func formatFor(path string) (Format, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, f := range formats {
		for _, suffix := range f.Suffixes {
			if strings.HasSuffix(name, suffix) {
				return f, true
			}
		}
	}
	return Format{}, false
}

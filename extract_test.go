package unfurl

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileEntry(name, content string) Entry {
	return Entry{
		Name: name,
		Type: EntryRegular,
		Size: int64(len(content)),
		WriteContent: func(w io.Writer) error {
			_, err := io.Copy(w, strings.NewReader(content))
			return err
		},
	}
}

// walkFiles returns the relative paths of all non-directory artifacts
// under root, sorted.
func walkFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func TestExtractArchiveSync(t *testing.T) {
	t.Parallel()

	archive := NewArchive([]Entry{
		{Name: "docs", Type: EntryDir},
		fileEntry("docs/readme.md", "read me"),
		fileEntry("top.txt", "top level"),
	}, nil)

	root := t.TempDir()
	require.NoError(t, ExtractArchiveSync(archive, root))

	assert.Equal(t, []string{"docs/readme.md", "top.txt"}, walkFiles(t, root))
	data, err := os.ReadFile(filepath.Join(root, "docs", "readme.md"))
	require.NoError(t, err)
	assert.Equal(t, "read me", string(data))
}

func TestExtractArchiveSyncCreatesRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "deep", "nested", "out")
	archive := NewArchive([]Entry{fileEntry("a.txt", "x")}, nil)

	require.NoError(t, ExtractArchiveSync(archive, root))
	assert.FileExists(t, filepath.Join(root, "a.txt"))
}

func TestExtractSkipsTraversalEntries(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "root")
	archive := NewArchive([]Entry{
		fileEntry("good.txt", "safe"),
		fileEntry("../bad.txt", "escaped"),
		fileEntry("a/../../bad2.txt", "escaped too"),
		{Name: "../bad-dir", Type: EntryDir},
	}, nil)

	require.NoError(t, ExtractArchiveSync(archive, root))

	assert.FileExists(t, filepath.Join(root, "good.txt"))
	assert.NoFileExists(t, filepath.Join(base, "bad.txt"))
	assert.NoFileExists(t, filepath.Join(base, "bad2.txt"))
	assert.NoDirExists(t, filepath.Join(base, "bad-dir"))

	// Nothing at all escaped the root.
	assert.Equal(t, []string{"good.txt"}, walkFiles(t, root))
}

func TestExtractSymlinkPolicy(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	root := t.TempDir()
	archive := NewArchive([]Entry{
		fileEntry("data/file.txt", "content"),
		{Name: "data/inside", Type: EntrySymlink, LinkTarget: "file.txt"},
		{Name: "abs", Type: EntrySymlink, LinkTarget: "/etc/passwd"},
		{Name: "escape", Type: EntrySymlink, LinkTarget: "../../escape"},
	}, nil)

	require.NoError(t, ExtractArchiveSync(archive, root))

	target, err := os.Readlink(filepath.Join(root, "data", "inside"))
	require.NoError(t, err)
	assert.Equal(t, "file.txt", target)

	_, err = os.Lstat(filepath.Join(root, "abs"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Lstat(filepath.Join(root, "escape"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	newArchive := func() *Archive {
		return NewArchive([]Entry{
			{Name: "d", Type: EntryDir},
			fileEntry("d/a.txt", "alpha"),
			fileEntry("b.txt", "beta"),
		}, nil)
	}

	root := t.TempDir()
	require.NoError(t, ExtractArchiveSync(newArchive(), root))
	require.NoError(t, ExtractArchiveSync(newArchive(), root))

	assert.Equal(t, []string{"b.txt", "d/a.txt"}, walkFiles(t, root))
	data, err := os.ReadFile(filepath.Join(root, "d", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestExtractDuplicateNamesLastWriteWins(t *testing.T) {
	t.Parallel()

	archive := NewArchive([]Entry{
		fileEntry("dup.txt", "first"),
		fileEntry("dup.txt", "second"),
	}, nil)

	root := t.TempDir()
	require.NoError(t, ExtractArchiveSync(archive, root))

	data, err := os.ReadFile(filepath.Join(root, "dup.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestExtractArchiveConcurrent(t *testing.T) {
	t.Parallel()

	entries := []Entry{{Name: "d", Type: EntryDir}}
	want := []string{}
	for _, name := range []string{"d/a.txt", "d/b.txt", "d/c.txt", "d/e.txt", "d/f.txt"} {
		entries = append(entries, fileEntry(name, "content of "+name))
		want = append(want, name)
	}
	archive := NewArchive(entries, nil)

	root := t.TempDir()
	require.NoError(t, ExtractArchive(context.Background(), archive, root, WithConcurrency(3)))

	assert.Equal(t, want, walkFiles(t, root))
	for _, name := range want {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, "content of "+name, string(data))
	}
}

func TestExtractContinuesPastEntryFailure(t *testing.T) {
	t.Parallel()

	broken := Entry{
		Name: "broken.txt",
		Type: EntryRegular,
		Size: 10,
		WriteContent: func(w io.Writer) error {
			return io.ErrUnexpectedEOF
		},
	}
	archive := NewArchive([]Entry{
		broken,
		fileEntry("fine.txt", "still extracted"),
	}, nil)

	root := t.TempDir()
	require.NoError(t, ExtractArchiveSync(archive, root))

	data, err := os.ReadFile(filepath.Join(root, "fine.txt"))
	require.NoError(t, err)
	assert.Equal(t, "still extracted", string(data))
}

func TestExtractResultCallback(t *testing.T) {
	t.Parallel()

	archive := NewArchive([]Entry{
		fileEntry("ok.txt", "fine"),
		fileEntry("../evil.txt", "nope"),
		{
			Name: "fails.txt",
			Type: EntryRegular,
			Size: 4,
			WriteContent: func(w io.Writer) error {
				return io.ErrClosedPipe
			},
		},
	}, nil)

	var mu sync.Mutex
	got := map[string]EntryStatus{}
	root := t.TempDir()
	err := ExtractArchiveSync(archive, root, WithResultFunc(func(r EntryResult) {
		mu.Lock()
		defer mu.Unlock()
		got[r.Name] = r.Status
	}))
	require.NoError(t, err)

	assert.Equal(t, map[string]EntryStatus{
		"ok.txt":      StatusExtracted,
		"../evil.txt": StatusSkippedUnsafe,
		"fails.txt":   StatusWriteFailed,
	}, got)
}

func TestExtractBufferSizeOption(t *testing.T) {
	t.Parallel()

	archive := NewArchive([]Entry{fileEntry("a.txt", strings.Repeat("x", 1000))}, nil)

	root := t.TempDir()
	require.NoError(t, ExtractArchiveSync(archive, root, WithBufferSize(16)))

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Len(t, data, 1000)
}

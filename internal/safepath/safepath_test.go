package safepath

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/unfurl/core"
)

func TestContained(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"root itself", root, true},
		{"direct child", filepath.Join(root, "a.txt"), true},
		{"nested child", filepath.Join(root, "a", "b", "c"), true},
		{"parent", filepath.Dir(root), false},
		{"sibling", root + "-sibling", false},
		{"dotdot escape", filepath.Join(root, "a", "..", "..", "etc", "passwd"), false},
		{"absolute elsewhere", "/etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Contained(root, tt.candidate))
		})
	}
}

func TestContainedResolvesExistingSymlinks(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))

	// A link planted inside the root pointing out of it must not launder
	// paths through the containment check.
	link := filepath.Join(root, "escape")
	require.NoError(t, os.Symlink(outside, link))

	assert.False(t, Contained(root, filepath.Join(link, "x.txt")))
	assert.True(t, Contained(root, filepath.Join(root, "fine", "x.txt")))
}

func TestResolveEntryPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name     string
		entry    core.Entry
		wantPath string
		wantOK   bool
	}{
		{
			name:     "plain file",
			entry:    core.Entry{Name: "docs/readme.md", Type: core.EntryRegular},
			wantPath: filepath.Join(root, "docs", "readme.md"),
			wantOK:   true,
		},
		{
			name:     "dot segments collapsing inside",
			entry:    core.Entry{Name: "a/../b.txt", Type: core.EntryRegular},
			wantPath: filepath.Join(root, "b.txt"),
			wantOK:   true,
		},
		{
			name:   "file escaping root",
			entry:  core.Entry{Name: "../bad.txt", Type: core.EntryRegular},
			wantOK: false,
		},
		{
			name:   "directory escaping root",
			entry:  core.Entry{Name: "a/../../elsewhere", Type: core.EntryDir},
			wantOK: false,
		},
		{
			name:     "absolute-looking name is re-rooted",
			entry:    core.Entry{Name: "/etc/passwd", Type: core.EntryRegular},
			wantPath: filepath.Join(root, "etc", "passwd"),
			wantOK:   true,
		},
		{
			name:   "symlink with absolute target",
			entry:  core.Entry{Name: "link", Type: core.EntrySymlink, LinkTarget: "/etc"},
			wantOK: false,
		},
		{
			name:     "symlink with safe relative target",
			entry:    core.Entry{Name: "a/link", Type: core.EntrySymlink, LinkTarget: "../b.txt"},
			wantPath: filepath.Join(root, "a", "link"),
			wantOK:   true,
		},
		{
			name:   "symlink target escaping root",
			entry:  core.Entry{Name: "link", Type: core.EntrySymlink, LinkTarget: "../../escape"},
			wantOK: false,
		},
		{
			name:   "symlink entry whose own path escapes",
			entry:  core.Entry{Name: "../link", Type: core.EntrySymlink, LinkTarget: "x"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, ok := ResolveEntryPath(root, tt.entry)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantPath, path)
			}
		})
	}
}

func TestValidateSymlink(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	tests := []struct {
		name  string
		entry core.Entry
		want  bool
	}{
		{
			name:  "relative target inside root",
			entry: core.Entry{Name: "dir/link", Type: core.EntrySymlink, LinkTarget: "../file.txt"},
			want:  true,
		},
		{
			name:  "absolute target rejected regardless of value",
			entry: core.Entry{Name: "link", Type: core.EntrySymlink, LinkTarget: root},
			want:  false,
		},
		{
			name:  "deep relative escape",
			entry: core.Entry{Name: "a/b/link", Type: core.EntrySymlink, LinkTarget: "../../../../x"},
			want:  false,
		},
		{
			name:  "empty target resolves to parent dir",
			entry: core.Entry{Name: "a/link", Type: core.EntrySymlink, LinkTarget: ""},
			want:  true,
		},
		{
			name:  "self target",
			entry: core.Entry{Name: "link", Type: core.EntrySymlink, LinkTarget: "link"},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidateSymlink(root, tt.entry))
		})
	}
}

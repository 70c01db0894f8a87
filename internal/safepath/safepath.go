// Package safepath decides whether archive entry paths and symlink targets
// stay inside an extraction root. It is pure path arithmetic: the only I/O
// is resolving symlink segments that already exist on disk.
package safepath

import (
	"path/filepath"
	"strings"

	"github.com/meigma/unfurl/core"
)

// Contained reports whether candidate is root or a descendant of root after
// canonicalization. Containment is a path-component prefix check, not a
// string prefix check, so "a/../../etc" and sibling directories sharing a
// name prefix are both rejected.
func Contained(root, candidate string) bool {
	r := canonicalize(root)
	c := canonicalize(candidate)
	rel, err := filepath.Rel(r, c)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ResolveEntryPath returns the validated output path for an entry, or
// ok=false when the entry must be skipped: its joined path escapes the
// root, or it is a symlink whose target fails ValidateSymlink. Symlink
// classification takes precedence over any directory flag on the entry.
func ResolveEntryPath(root string, e core.Entry) (string, bool) {
	joined := filepath.Join(root, normalizeName(e.Name))
	if !Contained(root, joined) {
		return "", false
	}
	if e.Type == core.EntrySymlink && !ValidateSymlink(root, e) {
		return "", false
	}
	return joined, true
}

// ValidateSymlink reports whether a symlink entry's target resolves inside
// the root. Absolute targets are never trusted: they provably point outside
// any relative containment check. Relative targets are resolved against the
// link's parent directory, which catches a "../../../x" target combined
// with a nested entry name. An empty target resolves to the parent
// directory itself and is permitted (a degenerate link, not an escape).
func ValidateSymlink(root string, e core.Entry) bool {
	target := filepath.FromSlash(e.LinkTarget)
	if filepath.IsAbs(target) {
		return false
	}
	parent := filepath.Dir(filepath.Join(root, normalizeName(e.Name)))
	absTarget := filepath.Join(parent, target)
	return Contained(root, absTarget)
}

// normalizeName cleans an archive-internal name for joining under the root.
// Archive names use forward slashes regardless of platform.
func normalizeName(name string) string {
	return filepath.Clean(filepath.FromSlash(name))
}

// canonicalize cleans the path and resolves symlinks in its longest
// existing ancestor, so an already-planted link inside the output tree
// cannot launder an escaping path through a later containment check.
func canonicalize(path string) string {
	p := filepath.Clean(path)
	tail := ""
	for {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(resolved, tail)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return filepath.Join(p, tail)
		}
		tail = filepath.Join(filepath.Base(p), tail)
		p = parent
	}
}

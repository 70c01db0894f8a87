// Package unfurl safely extracts untrusted archives to disk.
//
// The package materializes decoded archive entries (files, directories,
// symlinks) under an extraction root, refusing any entry whose path or
// symlink target would escape that root, and drives a staged
// decompress-then-decode pipeline for compressed archive files
// (.tar.gz/.tgz, .tar.bz2/.tbz, .tar.xz/.txz, .tar.zst/.tzst, .tar, .zip).
//
// Extraction is best-effort: a malicious or broken entry is dropped and
// the remaining entries are still written. Callers that need per-entry
// visibility opt in with WithResultFunc.
//
//	err := unfurl.ExtractFile(ctx, "bundle.tar.gz", "./out")
package unfurl

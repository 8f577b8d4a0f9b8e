package scan

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"docscribe/internal/ignore"
)

// Lister is the read-only view of the workspace root that Enumerate needs.
// *safeio.SafeFS implements it.
type Lister interface {
	Root() string
	ReadDir(dir string) ([]fs.FileInfo, error)
	Stat(name string) (fs.FileInfo, error)
}

// DirError records an immediate subdirectory that could not be listed.
type DirError struct {
	Dir string
	Err error
}

func (e DirError) Error() string { return fmt.Sprintf("scan: list %s: %v", e.Dir, e.Err) }
func (e DirError) Unwrap() error { return e.Err }

// Candidate is a file selected for language-model processing.
type Candidate struct {
	// Root-relative path using forward slashes (e.g., "sub/b.md").
	Path string
	// Absolute filesystem path.
	AbsPath string
	// Lowercased extension with leading dot (e.g., ".py").
	Ext string
}

// Enumerate lists candidate files one directory level deep.
//
// Root-level files come first, grouped by extension in the order given.
// Then, for each extension, the files of every immediate subdirectory whose
// name is not a verbatim rule are appended, except those whose absolute path
// contains an absolute rule path. Directory and file names are visited in
// name order, so the result is stable for an unchanged tree.
//
// Symbolic links are followed when classifying entries. A link that cannot
// be resolved is treated as a file. A subdirectory that cannot be listed is
// skipped and reported in the returned DirErrors; only a failure to list
// the root itself is returned as an error.
func Enumerate(fsys Lister, exts []string, rules ignore.RuleSet) ([]Candidate, []DirError, error) {
	exts = NormalizeExtensions(exts)
	if len(exts) == 0 {
		return nil, nil, nil
	}

	entries, err := fsys.ReadDir(".")
	if err != nil {
		return nil, nil, fmt.Errorf("scan: list root: %w", err)
	}

	var rootFiles, subdirs []string
	for _, e := range entries {
		if isDir(fsys, e.Name(), e) {
			subdirs = append(subdirs, e.Name())
			continue
		}
		rootFiles = append(rootFiles, e.Name())
	}

	var out []Candidate
	for _, ext := range exts {
		for _, name := range rootFiles {
			if MatchExt(name, ext) {
				out = append(out, newCandidate(fsys.Root(), name, ext))
			}
		}
	}

	// Children are listed once per directory, then filtered per extension.
	children := make(map[string][]string, len(subdirs))
	var visit []string
	var failed []DirError
	for _, dir := range subdirs {
		if rules.SkipsDir(dir) {
			continue
		}
		sub, err := fsys.ReadDir(dir)
		if err != nil {
			failed = append(failed, DirError{Dir: dir, Err: err})
			continue
		}
		var names []string
		for _, e := range sub {
			if !isDir(fsys, path.Join(dir, e.Name()), e) {
				names = append(names, e.Name())
			}
		}
		children[dir] = names
		visit = append(visit, dir)
	}

	for _, ext := range exts {
		for _, dir := range visit {
			for _, name := range children[dir] {
				if !MatchExt(name, ext) {
					continue
				}
				c := newCandidate(fsys.Root(), path.Join(dir, name), ext)
				if rules.Excludes(c.AbsPath) {
					continue
				}
				out = append(out, c)
			}
		}
	}
	return out, failed, nil
}

// isDir classifies an entry, resolving symbolic links through fsys.
func isDir(fsys Lister, rel string, e fs.FileInfo) bool {
	if e.Mode()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := fsys.Stat(rel)
	return err == nil && info.IsDir()
}

func newCandidate(root, rel, ext string) Candidate {
	return Candidate{
		Path:    rel,
		AbsPath: filepath.Join(root, filepath.FromSlash(rel)),
		Ext:     ext,
	}
}

// Name returns the candidate's base file name.
func (c Candidate) Name() string { return path.Base(c.Path) }

// Stem returns the base name without its extension.
func (c Candidate) Stem() string {
	name := c.Name()
	return strings.TrimSuffix(name, path.Ext(name))
}

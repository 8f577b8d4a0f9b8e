package safeio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// SafeFS provides file helpers that resolve paths relative to a fixed root.
// Every operation goes through a billy chroot, so nothing can escape the root.
type SafeFS struct {
	absRoot string // absolute root with symlinks resolved
	fs      billy.Filesystem
}

// NewSafeFS locks all future operations to the given root directory.
// The root path is resolved to an absolute, symlink-free directory.
func NewSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &SafeFS{absRoot: abs, fs: osfs.New(abs)}, nil
}

// EnsureSafeFS creates root (and parents) when missing, then binds a SafeFS to it.
func EnsureSafeFS(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("safeio: create root: %w", err)
	}
	return NewSafeFS(root)
}

// Root returns the absolute root directory bound to this SafeFS.
func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// Abs returns the absolute filesystem path of a root-relative path.
func (s *SafeFS) Abs(userPath string) (string, error) {
	rel, err := s.resolve(userPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.absRoot, filepath.FromSlash(rel)), nil
}

// ReadFile reads a file relative to the root.
func (s *SafeFS) ReadFile(userPath string) ([]byte, error) {
	rel, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := s.fs.Stat(rel)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return util.ReadFile(s.fs, rel)
}

// WriteFile writes data to a file relative to the root, creating parent
// directories as needed.
func (s *SafeFS) WriteFile(userPath string, data []byte, perm fs.FileMode) error {
	rel, err := s.resolve(userPath)
	if err != nil {
		return err
	}
	if rel == "." {
		return errors.New("safeio: cannot write to root")
	}
	if dir := path.Dir(rel); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return util.WriteFile(s.fs, rel, data, perm)
}

// Remove deletes a file or empty directory under the root.
func (s *SafeFS) Remove(userPath string) error {
	rel, err := s.resolve(userPath)
	if err != nil {
		return err
	}
	if rel == "." {
		return errors.New("safeio: cannot remove root")
	}
	return s.fs.Remove(rel)
}

// Rename moves a file within the root, replacing the target.
func (s *SafeFS) Rename(from, to string) error {
	src, err := s.resolve(from)
	if err != nil {
		return err
	}
	dst, err := s.resolve(to)
	if err != nil {
		return err
	}
	return s.fs.Rename(src, dst)
}

// Stat returns metadata for a file or directory under the root.
func (s *SafeFS) Stat(userPath string) (fs.FileInfo, error) {
	rel, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	return s.fs.Stat(rel)
}

// ReadDir lists entries for a directory relative to the root, sorted by name.
func (s *SafeFS) ReadDir(userPath string) ([]fs.FileInfo, error) {
	rel, err := s.resolve(userPath)
	if err != nil {
		return nil, err
	}
	info, err := s.fs.Stat(rel)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: path is not a directory")
	}
	entries, err := s.fs.ReadDir(rel)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// resolve turns a user path into a clean, slash-separated, root-relative path.
// Absolute paths are accepted when they live under the root.
func (s *SafeFS) resolve(userPath string) (string, error) {
	if s == nil || s.fs == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if userPath == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(userPath)

	isAbs := filepath.IsAbs(clean) || (runtime.GOOS == "windows" && filepath.VolumeName(clean) != "")
	if isAbs {
		if !hasPathPrefix(clean, s.absRoot) {
			return "", fmt.Errorf("safeio: path outside root (root=%s, path=%s)", s.absRoot, clean)
		}
		rel, err := filepath.Rel(s.absRoot, clean)
		if err != nil {
			return "", err
		}
		clean = rel
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("safeio: path traversal not allowed")
	}
	return filepath.ToSlash(clean), nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if runtime.GOOS == "windows" {
		path = strings.ToLower(path)
		root = strings.ToLower(root)
	}
	if len(root) == 0 {
		return true
	}
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	if !strings.HasSuffix(path, sep) {
		path += sep
	}
	return strings.HasPrefix(path, root)
}

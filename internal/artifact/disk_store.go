package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"docscribe/internal/safeio"
)

// DiskStore writes artifacts below a root directory as <root>/<runID>/<path>.
type DiskStore struct {
	fs *safeio.SafeFS
}

// NewDiskStore creates root if needed and confines all writes to it.
func NewDiskStore(root string) (*DiskStore, error) {
	sfs, err := safeio.EnsureSafeFS(root)
	if err != nil {
		return nil, fmt.Errorf("open output dir: %w", err)
	}
	return &DiskStore{fs: sfs}, nil
}

func (s *DiskStore) Root() string { return s.fs.Root() }

func (s *DiskStore) Put(_ context.Context, runID, path string, content []byte) error {
	key, err := objectKey(runID, path)
	if err != nil {
		return err
	}
	return s.fs.WriteFile(key, content, 0o644)
}

func (s *DiskStore) Get(_ context.Context, runID, path string) ([]byte, error) {
	key, err := objectKey(runID, path)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.ReadFile(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *DiskStore) List(_ context.Context, runID string) ([]string, error) {
	prefix, err := runPrefix(runID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, 16)
	if err := s.walk(prefix, "", &out); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *DiskStore) walk(base, rel string, out *[]string) error {
	entries, err := s.fs.ReadDir(base + rel)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := rel + e.Name()
		if e.IsDir() {
			if err := s.walk(base, name+"/", out); err != nil {
				return err
			}
			continue
		}
		*out = append(*out, name)
	}
	return nil
}

// Locate returns the absolute file path of the artifact.
func (s *DiskStore) Locate(_ context.Context, runID, path string) (string, error) {
	key, err := objectKey(runID, path)
	if err != nil {
		return "", err
	}
	return s.fs.Abs(key)
}

// Package artifact persists generated documentation per run.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Store defines operations for persisting run artifacts.
type Store interface {
	Put(ctx context.Context, runID, path string, content []byte) error
	Get(ctx context.Context, runID, path string) ([]byte, error)
	// Locate returns where a stored artifact can be found: a file path,
	// a URL, or "" when the store has no external address.
	Locate(ctx context.Context, runID, path string) (string, error)
	List(ctx context.Context, runID string) ([]string, error)
}

var (
	ErrNotFound = errors.New("artifact not found")
	ErrNilStore = errors.New("artifact: store is nil")
)

// objectKey validates runID and p and joins them as "<runID>/<p>".
func objectKey(runID, p string) (string, error) {
	runID = strings.TrimSpace(runID)
	p = strings.TrimSpace(p)
	if runID == "" {
		return "", fmt.Errorf("run_id is required")
	}
	if strings.Contains(runID, "/") || runID == "." || runID == ".." {
		return "", fmt.Errorf("invalid run_id %q", runID)
	}
	if p == "" {
		return "", fmt.Errorf("path is required")
	}
	clean := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" {
		return "", fmt.Errorf("path is required")
	}
	return runID + "/" + clean, nil
}

func runPrefix(runID string) (string, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return "", fmt.Errorf("run_id is required")
	}
	return strings.TrimSuffix(runID, "/") + "/", nil
}

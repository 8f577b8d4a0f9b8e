// Package cache persists completion responses on disk with LRU and TTL
// eviction.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"docscribe/internal/safeio"
)

const (
	indexFile = "index.json"
	dataDir   = "data"
)

type Config struct {
	Root       string
	MaxEntries int
	MaxBytes   int64
	TTL        time.Duration
}

type diskEntry struct {
	File       string    `json:"file"`
	Size       int64     `json:"size"`
	ExpiresAt  time.Time `json:"expires_at"`
	AccessedAt time.Time `json:"accessed_at"`
}

type diskIndex struct {
	Entries map[string]diskEntry `json:"entries"`
}

// DiskStore keeps values under Root/data and an index at Root/index.json.
// The index is rewritten after every mutation so a restart sees the same
// entries.
type DiskStore struct {
	mu  sync.Mutex
	fs  *safeio.SafeFS
	now func() time.Time

	maxEntries int
	maxBytes   int64
	ttl        time.Duration

	totalBytes int64
	entries    map[string]diskEntry
}

func NewDiskStore(cfg Config) (*DiskStore, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, fmt.Errorf("cache root is required")
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 512
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	sfs, err := safeio.EnsureSafeFS(root)
	if err != nil {
		return nil, err
	}
	s := &DiskStore{
		fs:         sfs,
		now:        time.Now,
		maxEntries: cfg.MaxEntries,
		maxBytes:   cfg.MaxBytes,
		ttl:        cfg.TTL,
		entries:    map[string]diskEntry{},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadIndexLocked(); err != nil {
		return nil, err
	}
	s.evictLocked()
	if err := s.persistIndexLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

// Len reports the number of live entries.
func (s *DiskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("key is required")
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if now.After(ent.ExpiresAt) {
		s.removeLocked(key, ent)
		return nil, false, s.persistIndexLocked()
	}
	raw, err := s.fs.ReadFile(dataDir + "/" + ent.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.removeLocked(key, ent)
			return nil, false, s.persistIndexLocked()
		}
		return nil, false, err
	}
	ent.AccessedAt = now
	s.entries[key] = ent
	if err := s.persistIndexLocked(); err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *DiskStore) Set(_ context.Context, key string, value []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key is required")
	}
	now := s.now()
	file := hashedName(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.entries[key]; ok {
		s.totalBytes -= old.Size
	}
	if err := s.fs.WriteFile(dataDir+"/"+file, value, 0o644); err != nil {
		return err
	}
	s.entries[key] = diskEntry{
		File:       file,
		Size:       int64(len(value)),
		ExpiresAt:  now.Add(s.ttl),
		AccessedAt: now,
	}
	s.totalBytes += int64(len(value))
	s.evictLocked()
	return s.persistIndexLocked()
}

func (s *DiskStore) loadIndexLocked() error {
	raw, err := s.fs.ReadFile(indexFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	var idx diskIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		return fmt.Errorf("cache index: %w", err)
	}
	for key, ent := range idx.Entries {
		s.entries[key] = ent
		s.totalBytes += ent.Size
	}
	return nil
}

// evictLocked drops expired entries, entries whose data file vanished, and
// then least recently used entries until the limits hold.
func (s *DiskStore) evictLocked() {
	now := s.now()
	for key, ent := range s.entries {
		if now.After(ent.ExpiresAt) {
			s.removeLocked(key, ent)
			continue
		}
		if _, err := s.fs.Stat(dataDir + "/" + ent.File); err != nil {
			s.removeLocked(key, ent)
		}
	}
	for len(s.entries) > s.maxEntries || (s.maxBytes > 0 && s.totalBytes > s.maxBytes) {
		key, ent, ok := s.leastRecentlyUsedLocked()
		if !ok {
			break
		}
		s.removeLocked(key, ent)
	}
}

func (s *DiskStore) leastRecentlyUsedLocked() (string, diskEntry, bool) {
	if len(s.entries) == 0 {
		return "", diskEntry{}, false
	}
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		li := s.entries[keys[i]].AccessedAt
		lj := s.entries[keys[j]].AccessedAt
		if li.Equal(lj) {
			return keys[i] < keys[j]
		}
		return li.Before(lj)
	})
	return keys[0], s.entries[keys[0]], true
}

func (s *DiskStore) removeLocked(key string, ent diskEntry) {
	delete(s.entries, key)
	s.totalBytes -= ent.Size
	if s.totalBytes < 0 {
		s.totalBytes = 0
	}
	_ = s.fs.Remove(dataDir + "/" + ent.File)
}

func (s *DiskStore) persistIndexLocked() error {
	raw, err := json.MarshalIndent(diskIndex{Entries: s.entries}, "", "  ")
	if err != nil {
		return err
	}
	tmp := indexFile + ".tmp"
	if err := s.fs.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return s.fs.Rename(tmp, indexFile)
}

func hashedName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + ".bin"
}

package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newStore(t *testing.T, cfg Config, c *clock) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(cfg)
	require.NoError(t, err)
	s.now = c.now
	return s
}

func TestDiskStoreRoundTripAndReload(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	ctx := context.Background()

	s, err := NewDiskStore(Config{Root: root})
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k1", []byte("documented")))

	got, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "documented", string(got))

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	reopened, err := NewDiskStore(Config{Root: root})
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
	got, ok, err = reopened.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "documented", string(got))
}

func TestDiskStoreTTL(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s := newStore(t, Config{Root: t.TempDir(), TTL: time.Minute}, c)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	c.t = c.t.Add(2 * time.Minute)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, s.Len())
}

func TestDiskStoreEvictsLeastRecentlyUsed(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s := newStore(t, Config{Root: t.TempDir(), MaxEntries: 2}, c)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	c.t = c.t.Add(time.Second)
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	c.t = c.t.Add(time.Second)
	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	c.t = c.t.Add(time.Second)
	require.NoError(t, s.Set(ctx, "c", []byte("3")))

	assert.Equal(t, 2, s.Len())
	_, ok, _ = s.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "a")
	assert.True(t, ok)
}

func TestDiskStoreMaxBytes(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	s := newStore(t, Config{Root: t.TempDir(), MaxEntries: 10, MaxBytes: 5}, c)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("abc")))
	c.t = c.t.Add(time.Second)
	require.NoError(t, s.Set(ctx, "b", []byte("def")))
	assert.Equal(t, 1, s.Len())
	_, ok, _ := s.Get(ctx, "b")
	assert.True(t, ok)
}

func TestDiskStoreRejectsEmptyKey(t *testing.T) {
	s, err := NewDiskStore(Config{Root: t.TempDir()})
	require.NoError(t, err)
	require.Error(t, s.Set(context.Background(), " ", nil))
	_, err = NewDiskStore(Config{})
	require.Error(t, err)
}

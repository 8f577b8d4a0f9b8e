package safeio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeFSAllowsAbsoluteUnderRoot(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewSafeFS(dir)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	p := filepath.Join(fs.Root(), "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := fs.ReadFile(p)
	if err != nil {
		t.Fatalf("ReadFile absolute: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("content=%q", got)
	}
}

func TestSafeFSRejectsTraversal(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if _, err := fs.ReadFile("../etc/passwd"); err == nil {
		t.Fatalf("expected traversal error")
	}
	if _, err := fs.ReadFile("/etc/passwd"); err == nil {
		t.Fatalf("expected outside-root error")
	}
}

func TestSafeFSWriteCreatesParents(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if err := fs.WriteFile("run/sub/out.md", []byte("# doc"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(fs.Root(), "run", "sub", "out.md"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "# doc" {
		t.Fatalf("content=%q", b)
	}
	if err := fs.WriteFile(".", []byte("x"), 0o644); err == nil {
		t.Fatalf("expected error writing root")
	}
}

func TestSafeFSReadDirSorted(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		if err := fs.WriteFile(name, []byte(name), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	entries, err := fs.ReadDir(".")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(names) != len(want) {
		t.Fatalf("names=%v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names=%v want=%v", names, want)
		}
	}
	if _, err := fs.ReadDir("a.txt"); err == nil {
		t.Fatalf("expected not-a-directory error")
	}
}

func TestEnsureSafeFSCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out", "nested")
	fs, err := EnsureSafeFS(root)
	if err != nil {
		t.Fatalf("EnsureSafeFS: %v", err)
	}
	if st, err := os.Stat(fs.Root()); err != nil || !st.IsDir() {
		t.Fatalf("root not created: %v", err)
	}
}

func TestSafeFSRenameAndRemove(t *testing.T) {
	fs, err := NewSafeFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	if err := fs.WriteFile("index.json.tmp", []byte("{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := fs.Rename("index.json.tmp", "index.json"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := fs.Stat("index.json.tmp"); err == nil {
		t.Fatalf("expected temp file to be gone")
	}
	if err := fs.Remove("index.json"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := fs.Stat("index.json"); err == nil {
		t.Fatalf("expected file to be removed")
	}
	if err := fs.Remove("."); err == nil {
		t.Fatalf("expected error removing root")
	}
}

package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"docscribe/internal/ignore"
	"docscribe/internal/safeio"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func newFS(t *testing.T, root string) *safeio.SafeFS {
	t.Helper()
	fs, err := safeio.NewSafeFS(root)
	if err != nil {
		t.Fatalf("safe fs: %v", err)
	}
	return fs
}

func paths(cs []Candidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Path)
	}
	return out
}

func TestEnumerate_OrderExtensionMajor(t *testing.T) {
	root := t.TempDir()
	write(t, root, "b.py", "")
	write(t, root, "a.py", "")
	write(t, root, "readme.md", "")
	write(t, root, "z/z.py", "")
	write(t, root, "y/y.md", "")
	write(t, root, "y/x.py", "")
	write(t, root, "y/deeper/skip.py", "")
	write(t, root, "notes.txt", "")

	got, _, err := Enumerate(newFS(t, root), []string{".py", ".md"}, ignore.RuleSet{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	want := []string{"a.py", "b.py", "readme.md", "y/x.py", "z/z.py", "y/y.md"}
	if !slices.Equal(paths(got), want) {
		t.Fatalf("got=%v want=%v", paths(got), want)
	}
}

func TestEnumerate_IgnoreRules(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".gitignore", "build\nnode_modules\n")
	write(t, root, "build_notes.py", "")
	write(t, root, "build/gen.py", "")
	write(t, root, "node_modules/pkg.js", "")
	write(t, root, "src/app.py", "")
	write(t, root, "build_tools/tool.py", "")

	fs := newFS(t, root)
	rules, err := ignore.Load(fs)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	got, _, err := Enumerate(fs, []string{".py", ".js"}, rules)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	// build_tools/tool.py contains "<root>/build" as a substring and is dropped.
	want := []string{"build_notes.py", "src/app.py"}
	if !slices.Equal(paths(got), want) {
		t.Fatalf("got=%v want=%v", paths(got), want)
	}
}

func TestEnumerate_PartialRuleOnlyFiltersFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "sub/gen.py", "")
	write(t, root, "sub/main.py", "")

	fs := newFS(t, root)
	rules := ignore.Parse(fs.Root(), []byte("sub/gen.py\n"))
	got, _, err := Enumerate(fs, []string{"py"}, rules)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if !slices.Equal(paths(got), []string{"sub/main.py"}) {
		t.Fatalf("got=%v", paths(got))
	}
}

func TestEnumerate_Idempotent(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "")
	write(t, root, "docs/guide.md", "")
	write(t, root, "web/index.html", "")
	write(t, root, "web/site.css", "")

	fs := newFS(t, root)
	first, _, err := Enumerate(fs, DefaultExtensions, ignore.RuleSet{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	second, _, err := Enumerate(fs, DefaultExtensions, ignore.RuleSet{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("first=%v second=%v", first, second)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 candidates, got %v", paths(first))
	}
}

func TestEnumerate_EmptyDirectory(t *testing.T) {
	got, _, err := Enumerate(newFS(t, t.TempDir()), DefaultExtensions, ignore.RuleSet{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", paths(got))
	}
}

func TestCandidate_AbsPathAndStem(t *testing.T) {
	root := t.TempDir()
	write(t, root, "sub/b.md", "")
	fs := newFS(t, root)

	got, _, err := Enumerate(fs, []string{".md"}, ignore.RuleSet{})
	if err != nil || len(got) != 1 {
		t.Fatalf("enumerate: %v %v", got, err)
	}
	c := got[0]
	if c.AbsPath != filepath.Join(fs.Root(), "sub", "b.md") {
		t.Fatalf("abs=%s", c.AbsPath)
	}
	if c.Name() != "b.md" || c.Stem() != "b" || c.Ext != ".md" {
		t.Fatalf("name=%s stem=%s ext=%s", c.Name(), c.Stem(), c.Ext)
	}
}

func TestEnumerate_TrailingSlashRuleKeepsSeparator(t *testing.T) {
	root := t.TempDir()
	write(t, root, "dist/gen.py", "")
	write(t, root, "distribution/keep.py", "")

	fs := newFS(t, root)
	rules := ignore.Parse(fs.Root(), []byte("dist/\n"))
	got, _, err := Enumerate(fs, []string{".py"}, rules)
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if !slices.Equal(paths(got), []string{"distribution/keep.py"}) {
		t.Fatalf("got=%v", paths(got))
	}
}

// failingLister fails to list one subdirectory.
type failingLister struct {
	Lister
	dir string
}

func (f failingLister) ReadDir(dir string) ([]fs.FileInfo, error) {
	if dir == f.dir {
		return nil, fs.ErrPermission
	}
	return f.Lister.ReadDir(dir)
}

func TestEnumerate_UnlistableDirectoryIsSkipped(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.py", "")
	write(t, root, "locked/x.py", "")
	write(t, root, "ok/b.py", "")

	got, failed, err := Enumerate(failingLister{Lister: newFS(t, root), dir: "locked"}, []string{".py"}, ignore.RuleSet{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if !slices.Equal(paths(got), []string{"a.py", "ok/b.py"}) {
		t.Fatalf("got=%v", paths(got))
	}
	if len(failed) != 1 || failed[0].Dir != "locked" || !errors.Is(failed[0], fs.ErrPermission) {
		t.Fatalf("failed=%v", failed)
	}
}

func TestEnumerate_PermissionDeniedDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	write(t, root, "a.py", "")
	write(t, root, "ok/b.py", "")
	locked := filepath.Join(root, "locked")
	if err := os.Mkdir(locked, 0o000); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got, failed, err := Enumerate(newFS(t, root), []string{".py"}, ignore.RuleSet{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if !slices.Equal(paths(got), []string{"a.py", "ok/b.py"}) {
		t.Fatalf("got=%v", paths(got))
	}
	if len(failed) != 1 || failed[0].Dir != "locked" {
		t.Fatalf("failed=%v", failed)
	}
}

func TestEnumerate_FollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	write(t, outside, "lib.py", "")
	write(t, root, "a.py", "")
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.py")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, failed, err := Enumerate(newFS(t, root), []string{".py"}, ignore.RuleSet{})
	if err != nil || len(failed) != 0 {
		t.Fatalf("enumerate: %v %v", failed, err)
	}
	want := []string{"a.py", "dangling.py", "linked/lib.py"}
	if !slices.Equal(paths(got), want) {
		t.Fatalf("got=%v want=%v", paths(got), want)
	}
}

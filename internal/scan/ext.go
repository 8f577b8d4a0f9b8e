package scan

import (
	"path/filepath"
	"strings"
)

// DefaultExtensions covers source, markup, script, style and document files.
var DefaultExtensions = []string{".py", ".html", ".js", ".css", ".md"}

// NormalizeExtensions lowercases extensions, adds a leading dot when missing,
// drops blanks and duplicates, and keeps the first-seen order.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]struct{}, len(exts))
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = NormalizeExt(ext)
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// NormalizeExt returns ext lowercased with a leading dot, or "" when blank.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// MatchExt reports whether name has the (normalized) extension ext.
func MatchExt(name, ext string) bool {
	return strings.ToLower(filepath.Ext(name)) == ext
}

// Package ignore reads a .gitignore-style file into a shallow exclusion rule set.
//
// The rule set is deliberately approximate: it has no glob, negation or
// anchoring syntax. A rule skips a top-level directory whose name equals it
// exactly, and excludes any file whose absolute path contains the rule's
// absolute path (root joined with the rule) as a substring.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"docscribe/internal/safeio"
)

// FileName is the ignore file looked up at the scan root.
const FileName = ".gitignore"

// ErrNoIgnoreFile is returned when the root has no ignore file.
var ErrNoIgnoreFile = fmt.Errorf("ignore: %s not found: %w", FileName, fs.ErrNotExist)

// RuleSet is the parsed ignore file. Raw and Abs are index-aligned.
type RuleSet struct {
	Raw []string
	Abs []string
}

// Load reads FileName from the root of fsys. A missing file yields an empty
// rule set and ErrNoIgnoreFile; any other read failure yields an empty rule
// set and the wrapped error. Callers decide whether to continue.
func Load(fsys *safeio.SafeFS) (RuleSet, error) {
	data, err := fsys.ReadFile(FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RuleSet{}, ErrNoIgnoreFile
		}
		return RuleSet{}, fmt.Errorf("ignore: read %s: %w", FileName, err)
	}
	return Parse(fsys.Root(), data), nil
}

// Parse builds a rule set from ignore-file content. Each line is trimmed of
// trailing whitespace; blank lines and '#' comments are dropped because a
// blank rule would resolve to the root itself and exclude everything.
func Parse(root string, data []byte) RuleSet {
	var rs RuleSet
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rs.Raw = append(rs.Raw, line)
		rs.Abs = append(rs.Abs, absRule(root, line))
	}
	return rs
}

// absRule joins root and rule, keeping a trailing separator so that "dist/"
// does not match "distribution".
func absRule(root, rule string) string {
	abs := filepath.Join(root, rule)
	if strings.HasSuffix(rule, "/") || strings.HasSuffix(rule, string(filepath.Separator)) {
		abs += string(filepath.Separator)
	}
	return abs
}

// Len reports the number of rules.
func (rs RuleSet) Len() int { return len(rs.Raw) }

// SkipsDir reports whether a top-level directory name is listed verbatim.
func (rs RuleSet) SkipsDir(name string) bool {
	for _, r := range rs.Raw {
		if r == name {
			return true
		}
	}
	return false
}

// Excludes reports whether absPath contains any rule's absolute path.
func (rs RuleSet) Excludes(absPath string) bool {
	for _, a := range rs.Abs {
		if strings.Contains(absPath, a) {
			return true
		}
	}
	return false
}

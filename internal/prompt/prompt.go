// Package prompt selects and assembles the instruction messages sent with each file.
package prompt

import (
	"fmt"
	"strings"

	llmclient "docscribe/internal/llm/client"
	"docscribe/internal/scan"
)

// Kind is the prompt family applied to a file.
type Kind int

const (
	KindNone Kind = iota
	KindDocstring
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindDocstring:
		return "docstring"
	case KindDocument:
		return "document"
	default:
		return "none"
	}
}

// README styles.
const (
	StyleBrief     = "brief"
	StyleSectioned = "sectioned"
)

var (
	DefaultSourceExtensions   = []string{".py"}
	DefaultDocumentExtensions = []string{".md"}
)

// Options configures a Set. Empty fields take defaults.
type Options struct {
	SourceExtensions   []string
	DocumentExtensions []string
	// Custom instructions replace the built-in templates when non-empty.
	DocstringInstructions string
	DocumentInstructions  string
	ReadmeStyle           string
}

// Set maps file extensions to system messages.
type Set struct {
	source    map[string]struct{}
	document  map[string]struct{}
	docstring string
	readme    string
}

// NewSet builds a Set from opts.
func NewSet(opts Options) (*Set, error) {
	src := opts.SourceExtensions
	if len(src) == 0 {
		src = DefaultSourceExtensions
	}
	doc := opts.DocumentExtensions
	if len(doc) == 0 {
		doc = DefaultDocumentExtensions
	}
	s := &Set{
		source:    toSet(src),
		document:  toSet(doc),
		docstring: strings.TrimSpace(opts.DocstringInstructions),
	}
	for ext := range s.source {
		if _, ok := s.document[ext]; ok {
			return nil, fmt.Errorf("prompt: extension %s is both source and document", ext)
		}
	}

	if custom := strings.TrimSpace(opts.DocumentInstructions); custom != "" {
		s.readme = custom
	} else {
		switch strings.ToLower(strings.TrimSpace(opts.ReadmeStyle)) {
		case "", StyleBrief:
			s.readme = briefDocumentTemplate
		case StyleSectioned:
			s.readme = sectionedDocumentTemplate
		default:
			return nil, fmt.Errorf("prompt: unknown readme style %q", opts.ReadmeStyle)
		}
	}
	return s, nil
}

func toSet(exts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, ext := range scan.NormalizeExtensions(exts) {
		out[ext] = struct{}{}
	}
	return out
}

// KindFor returns the prompt family for an extension.
func (s *Set) KindFor(ext string) Kind {
	ext = scan.NormalizeExt(ext)
	if _, ok := s.source[ext]; ok {
		return KindDocstring
	}
	if _, ok := s.document[ext]; ok {
		return KindDocument
	}
	return KindNone
}

// SystemFor returns the system message for a file extension, or "" when no
// template applies.
func (s *Set) SystemFor(ext string) string {
	switch s.KindFor(ext) {
	case KindDocstring:
		return s.Docstring(ext)
	case KindDocument:
		return s.Readme()
	default:
		return ""
	}
}

// Docstring returns the documentation-generation message for ext.
func (s *Set) Docstring(ext string) string {
	if s.docstring != "" {
		return s.docstring
	}
	return fmt.Sprintf(docstringTemplate, LanguageName(ext), FenceTag(ext))
}

// Readme returns the Markdown-document message.
func (s *Set) Readme() string { return s.readme }

// Messages returns the ordered system/user pair for a completion call.
func Messages(system, user string) []llmclient.Message {
	return []llmclient.Message{
		{Role: llmclient.RoleSystem, Content: system},
		{Role: llmclient.RoleUser, Content: user},
	}
}

var fenceTags = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".html": "html",
	".css":  "css",
	".go":   "go",
	".rb":   "ruby",
	".sh":   "bash",
	".md":   "markdown",
}

// FenceTag returns the fenced-code-block language tag for ext.
func FenceTag(ext string) string {
	ext = scan.NormalizeExt(ext)
	if tag, ok := fenceTags[ext]; ok {
		return tag
	}
	return strings.TrimPrefix(ext, ".")
}

// LanguageName returns a human-readable language name for ext.
func LanguageName(ext string) string {
	switch tag := FenceTag(ext); tag {
	case "javascript":
		return "JavaScript"
	case "typescript":
		return "TypeScript"
	case "html", "css":
		return strings.ToUpper(tag)
	case "":
		return "source"
	default:
		return strings.ToUpper(tag[:1]) + tag[1:]
	}
}

package markdown

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// reComment matches HTML comments: <!-- ... -->
	reComment = regexp.MustCompile(`(?s)<!--.*?-->`)
	// reExcessiveNewlines matches 3 or more newlines to compress them
	reExcessiveNewlines = regexp.MustCompile(`\n{3,}`)
	// reTrailingSpace matches trailing blanks before a newline
	reTrailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// Clean tidies a generated Markdown document. A response wrapped entirely in
// a ```markdown (or ```md) fence is unwrapped; HTML comments are removed,
// trailing blanks dropped and runs of blank lines compressed to one.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = unwrap(text)

	text = reComment.ReplaceAllString(text, "")
	text = reTrailingSpace.ReplaceAllString(text, "\n")
	text = reExcessiveNewlines.ReplaceAllString(text, "\n\n")

	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return text + "\n"
}

func unwrap(text string) string {
	trimmed := strings.TrimSpace(text)
	first, _, _ := strings.Cut(trimmed, "\n")
	if !isOpening(first, "markdown") && !isOpening(first, "md") {
		return text
	}
	if !strings.HasSuffix(trimmed, fence) {
		return text
	}
	body, err := Extract(trimmed, "", Outer)
	if err != nil && !errors.Is(err, ErrUnclosed) {
		return text
	}
	return body
}

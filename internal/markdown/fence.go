// Package markdown extracts fenced code blocks from model output and tidies
// generated documents.
package markdown

import (
	"errors"
	"strings"
)

// Position selects which fenced block Extract returns.
type Position int

const (
	// First is the first block with the requested tag.
	First Position = iota
	// Last is the last block with the requested tag.
	Last
	// Outer spans from the first opening fence with the requested tag to the
	// last closing fence in the text, so fences nested inside the code
	// (for example in docstrings) stay in the body.
	Outer
)

var (
	// ErrNoFence means no opening fence with the requested tag exists.
	ErrNoFence = errors.New("markdown: no fenced block")
	// ErrUnclosed means the block was opened but never closed. Extract still
	// returns everything after the opening fence alongside this error.
	ErrUnclosed = errors.New("markdown: fenced block is not closed")
)

const fence = "```"

type block struct {
	open  int // line index of the opening fence
	close int // line index of the closing fence, -1 when unclosed
}

// Extract returns the body of a fenced block opened with "```"+lang.
// Tags compare case-insensitively; an empty lang matches any opening fence.
// Fence lines may be indented. The body excludes the fence lines and ends
// with a newline when non-empty.
func Extract(text, lang string, pos Position) (string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var b block
	var err error
	switch pos {
	case Outer:
		b, err = outerBlock(lines, lang)
	case Last:
		b, err = pickBlock(lines, lang, true)
	default:
		b, err = pickBlock(lines, lang, false)
	}
	if err != nil && !errors.Is(err, ErrUnclosed) {
		return "", err
	}
	end := b.close
	if end < 0 {
		end = len(lines)
	}
	return joinBody(lines[b.open+1 : end]), err
}

func isOpening(line, lang string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, fence) {
		return false
	}
	tag := strings.TrimSpace(strings.TrimLeft(t, "`"))
	if tag == "" {
		return false
	}
	return lang == "" || strings.EqualFold(tag, lang)
}

func isBareFence(line string) bool {
	return strings.TrimSpace(line) == fence
}

// pickBlock walks blocks in order, skipping blocks with other tags.
func pickBlock(lines []string, lang string, last bool) (block, error) {
	found := block{open: -1, close: -1}
	for i := 0; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(t, fence) {
			continue
		}
		match := isOpening(lines[i], lang)
		j := i + 1
		for j < len(lines) && !isBareFence(lines[j]) {
			j++
		}
		if j == len(lines) {
			j = -1
		}
		if match {
			found = block{open: i, close: j}
			if !last || j < 0 {
				break
			}
		}
		if j < 0 {
			break
		}
		i = j
	}
	if found.open < 0 {
		return found, ErrNoFence
	}
	if found.close < 0 {
		return found, ErrUnclosed
	}
	return found, nil
}

func outerBlock(lines []string, lang string) (block, error) {
	b := block{open: -1, close: -1}
	for i, l := range lines {
		if isOpening(l, lang) {
			b.open = i
			break
		}
	}
	if b.open < 0 {
		return b, ErrNoFence
	}
	for i := len(lines) - 1; i > b.open; i-- {
		if isBareFence(lines[i]) {
			b.close = i
			return b, nil
		}
	}
	return b, ErrUnclosed
}

func joinBody(lines []string) string {
	body := strings.Join(lines, "\n")
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return body
}

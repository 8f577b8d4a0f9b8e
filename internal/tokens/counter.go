package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is the fast BPE encoding used for chat models.
const DefaultEncoding = "cl100k_base"

// Counter returns the number of tokens in a text.
type Counter interface {
	Name() string
	Count(text string) int
}

var loaderOnce sync.Once

// useOfflineLoader makes tiktoken read the embedded BPE ranks instead of
// downloading them.
func useOfflineLoader() {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// BPECounter counts tokens with a tiktoken encoding.
type BPECounter struct {
	encoding string
	enc      *tiktoken.Tiktoken
}

// NewBPECounter loads the named encoding. An empty name selects DefaultEncoding.
func NewBPECounter(encoding string) (*BPECounter, error) {
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		encoding = DefaultEncoding
	}
	useOfflineLoader()
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("tokens: load encoding %s: %w", encoding, err)
	}
	return &BPECounter{encoding: encoding, enc: enc}, nil
}

func (c *BPECounter) Name() string { return c.encoding }

// Count encodes text. Special-token literals such as <|endoftext|> count as
// one token each instead of being rejected.
func (c *BPECounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, []string{"all"}, nil))
}

// HeuristicCounter approximates tokens without a vocabulary. It counts
// whitespace-delimited words and falls back to a character-based estimate.
type HeuristicCounter struct{}

func (HeuristicCounter) Name() string { return "heuristic" }

func (HeuristicCounter) Count(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	words := strings.Fields(text)
	if len(words) > 0 {
		return len(words)
	}
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}

package llm

import (
	"context"
	"strings"
	"sync"

	llmclient "docscribe/internal/llm/client"
	"docscribe/internal/tokens"
)

// Usage is the running total of completion calls made through a client.
type Usage struct {
	Requests     int
	Errors       int
	InputTokens  int
	OutputTokens int
	// Cost prices input tokens with the two-bucket rate table.
	Cost float64
}

// UsageLedger accumulates Usage across calls. It is safe for concurrent use.
type UsageLedger struct {
	mu      sync.Mutex
	counter tokens.Counter
	model   string
	usage   Usage
}

// NewUsageLedger prices calls for model using counter.
func NewUsageLedger(counter tokens.Counter, model string) *UsageLedger {
	return &UsageLedger{counter: counter, model: model}
}

// Snapshot returns the current totals.
func (u *UsageLedger) Snapshot() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.usage
}

func (u *UsageLedger) record(in tokens.Estimate, out int, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage.Requests++
	u.usage.InputTokens += in.Tokens
	u.usage.Cost += in.Cost
	if err != nil {
		u.usage.Errors++
		return
	}
	u.usage.OutputTokens += out
}

// WithUsage returns a middleware that records every call in ledger.
func WithUsage(ledger *UsageLedger) Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &usageClient{next: next, ledger: ledger}
	}
}

type usageClient struct {
	next   llmclient.Client
	ledger *UsageLedger
}

func (c *usageClient) Name() string { return c.next.Name() }
func (c *usageClient) Close() error { return c.next.Close() }

func (c *usageClient) Complete(ctx context.Context, msgs []llmclient.Message, maxTokens int) (string, error) {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Content)
	}
	payload := strings.Join(parts, "\n")
	in := tokens.EstimateCost(c.ledger.counter, payload, c.ledger.model)
	out, err := c.next.Complete(ctx, msgs, maxTokens)
	c.ledger.record(in, c.ledger.counter.Count(out), err)
	return out, err
}

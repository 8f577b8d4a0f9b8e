// Package llm decorates completion clients with cross-cutting concerns and
// builds the configured provider.
package llm

import (
	"context"
	"math"

	llmclient "docscribe/internal/llm/client"
	"docscribe/internal/tokens"
)

type ctxKeyFile struct{}

// WithFile tags ctx with the file a completion call is about.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ctxKeyFile{}, path)
}

// FileFrom returns the file tagged by WithFile, or "-".
func FileFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyFile{}).(string); ok && v != "" {
		return v
	}
	return "-"
}

// DefaultOutputRatio scales prompt tokens into an output budget.
const DefaultOutputRatio = 1.5

// OutputBudget returns ceil(tokens(messages) * ratio), clamped to limit when
// limit > 0. The documented code is expected to be longer than the input.
func OutputBudget(c tokens.Counter, msgs []llmclient.Message, ratio float64, limit int) int {
	if ratio <= 0 {
		ratio = DefaultOutputRatio
	}
	n := 0
	for _, m := range msgs {
		n += c.Count(m.Content)
	}
	budget := int(math.Ceil(float64(n) * ratio))
	if limit > 0 && budget > limit {
		budget = limit
	}
	return budget
}

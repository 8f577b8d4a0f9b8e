package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	llmclient "docscribe/internal/llm/client"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderFake   = "fake"
)

// Options selects and configures the completion provider.
type Options struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Attempts   int
	RetryDelay time.Duration
	Logger     zerolog.Logger
	Ledger     *UsageLedger

	// Cache answers repeated requests without calling the provider when set.
	Cache ResponseCache
	// RequestsPerSecond throttles calls when > 0.
	RequestsPerSecond float64
}

// New builds the provider client and wraps it with response caching, usage
// accounting, retry, rate limiting and logging, outermost first. Cache hits
// are not counted as requests.
func New(ctx context.Context, opts Options) (llmclient.Client, error) {
	var (
		base llmclient.Client
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderOpenAI:
		base, err = llmclient.NewOpenAIClient(opts.APIKey, opts.Model, opts.BaseURL)
	case ProviderGemini:
		base, err = llmclient.NewGeminiClient(ctx, opts.APIKey, opts.Model)
	case ProviderFake:
		base = llmclient.NewEchoClient()
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", opts.Provider)
	}
	if err != nil {
		return nil, err
	}

	mws := []Middleware{WithCache(opts.Cache, opts.Model, opts.Logger)}
	if opts.Ledger != nil {
		mws = append(mws, WithUsage(opts.Ledger))
	}
	mws = append(mws,
		Retry(opts.Attempts, opts.RetryDelay),
		RateLimit(opts.RequestsPerSecond, 1),
		WithLogging(opts.Logger),
	)
	return Wrap(base, mws...), nil
}

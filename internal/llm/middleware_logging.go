package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	llmclient "docscribe/internal/llm/client"
	xlog "docscribe/internal/logging"
)

// WithLogging logs request size, latency and errors.
func WithLogging(logger zerolog.Logger) Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: xlog.Component(logger, "llm").With().Str("client", next.Name()).Logger()}
	}
}

type logging struct {
	next llmclient.Client
	log  zerolog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Complete(ctx context.Context, msgs []llmclient.Message, maxTokens int) (string, error) {
	size := 0
	for _, m := range msgs {
		size += len(m.Content)
	}
	file := FileFrom(ctx)
	l.log.Debug().Str("file", file).Int("bytes", size).Int("max_tokens", maxTokens).Msg("LLM request")
	start := time.Now()
	out, err := l.next.Complete(ctx, msgs, maxTokens)
	if err != nil {
		l.log.Warn().Err(err).Str("file", file).Dur("elapsed", time.Since(start)).Msg("LLM error")
		return out, err
	}
	l.log.Debug().Str("file", file).Int("response_bytes", len(out)).Dur("elapsed", time.Since(start)).Msg("LLM response")
	return out, nil
}

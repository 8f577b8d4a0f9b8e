package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/rs/zerolog"

	llmclient "docscribe/internal/llm/client"
)

// ResponseCache stores completion replies by request key.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// WithCache answers repeated requests from cache. The key covers the model,
// every message and the token budget. Cache failures are logged and the
// call goes through to next.
func WithCache(cache ResponseCache, model string, log zerolog.Logger) Middleware {
	if cache == nil {
		return nil
	}
	return func(next llmclient.Client) llmclient.Client {
		return &caching{next: next, cache: cache, model: model, log: log}
	}
}

type caching struct {
	next  llmclient.Client
	cache ResponseCache
	model string
	log   zerolog.Logger
}

func (c *caching) Name() string { return c.next.Name() }
func (c *caching) Close() error { return c.next.Close() }

func (c *caching) Complete(ctx context.Context, msgs []llmclient.Message, maxTokens int) (string, error) {
	key := RequestKey(c.model, msgs, maxTokens)
	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn().Err(err).Msg("response cache read failed")
	} else if ok {
		c.log.Debug().Str("file", FileFrom(ctx)).Msg("response served from cache")
		return string(raw), nil
	}

	out, err := c.next.Complete(ctx, msgs, maxTokens)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, []byte(out)); err != nil {
		c.log.Warn().Err(err).Msg("response cache write failed")
	}
	return out, nil
}

// RequestKey fingerprints a completion request.
func RequestKey(model string, msgs []llmclient.Message, maxTokens int) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	for _, m := range msgs {
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
		h.Write([]byte{0})
	}
	h.Write([]byte(strconv.Itoa(maxTokens)))
	return hex.EncodeToString(h.Sum(nil))
}

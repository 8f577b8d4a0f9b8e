package llm

import (
	"context"
	"time"

	llmclient "docscribe/internal/llm/client"
)

// rpsLimiter is a token bucket that allows at most rps requests per second
// with a burst capacity.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

// newRPSLimiter returns nil when rps <= 0, which disables limiting.
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
				}
			case <-l.stopCh:
				return
			}
		}
	}()
	return l
}

// acquire blocks until a token is available or ctx is done.
func (l *rpsLimiter) acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

func (l *rpsLimiter) stop() {
	if l == nil {
		return
	}
	close(l.stopCh)
}

// RateLimit throttles Complete to rps calls per second. rps <= 0 returns a
// nil middleware, which Wrap skips.
func RateLimit(rps float64, burst int) Middleware {
	if rps <= 0 {
		return nil
	}
	return func(next llmclient.Client) llmclient.Client {
		return &limited{next: next, lim: newRPSLimiter(rps, burst)}
	}
}

type limited struct {
	next llmclient.Client
	lim  *rpsLimiter
}

func (c *limited) Name() string { return c.next.Name() }

func (c *limited) Close() error {
	c.lim.stop()
	return c.next.Close()
}

func (c *limited) Complete(ctx context.Context, msgs []llmclient.Message, maxTokens int) (string, error) {
	if err := c.lim.acquire(ctx); err != nil {
		return "", err
	}
	return c.next.Complete(ctx, msgs, maxTokens)
}

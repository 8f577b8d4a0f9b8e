package llmclient

import (
	"context"
	"sync"
)

// Call records one Complete invocation on a FakeClient.
type Call struct {
	Messages  []Message
	MaxTokens int
}

// FakeClient answers from a callback for offline runs and tests.
type FakeClient struct {
	Respond func(msgs []Message) (string, error)

	mu    sync.Mutex
	calls []Call
}

// NewEchoClient returns a FakeClient that echoes the last user message.
func NewEchoClient() *FakeClient {
	return &FakeClient{Respond: func(msgs []Message) (string, error) {
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Role == RoleUser {
				return msgs[i].Content, nil
			}
		}
		return "", ErrEmptyResponse
	}}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Complete(_ context.Context, msgs []Message, maxTokens int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Messages: append([]Message(nil), msgs...), MaxTokens: maxTokens})
	f.mu.Unlock()
	if f.Respond == nil {
		return "", ErrEmptyResponse
	}
	return f.Respond(msgs)
}

// Calls returns a copy of the recorded calls.
func (f *FakeClient) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

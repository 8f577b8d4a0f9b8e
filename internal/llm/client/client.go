package llmclient

import "context"

// Role tags a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// Client defines the interface for completion providers.
type Client interface {
	Name() string
	Close() error
	// Complete sends the ordered messages and returns the generated text.
	// maxTokens bounds the output; <= 0 leaves it to the provider.
	Complete(ctx context.Context, msgs []Message, maxTokens int) (string, error)
}

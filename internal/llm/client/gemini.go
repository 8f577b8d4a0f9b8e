package llmclient

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (retries, logging) are applied via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient creates a client. If apiKey is empty, it falls back to the
// GEMINI_API_KEY env var.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required; set GEMINI_API_KEY")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Complete maps system messages to the system instruction and the rest to
// user content.
func (g *GeminiClient) Complete(ctx context.Context, msgs []Message, maxTokens int) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = clampInt32(maxTokens)
	}
	var contents []*genai.Content
	for _, m := range msgs {
		part := &genai.Part{Text: m.Content}
		if m.Role == RoleSystem {
			if cfg.SystemInstruction == nil {
				cfg.SystemInstruction = &genai.Content{}
			}
			cfg.SystemInstruction.Parts = append(cfg.SystemInstruction.Parts, part)
			continue
		}
		contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	txt := resp.Text()
	if txt == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}

func clampInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

package config

import (
	"fmt"
	"strings"
)

// Validate checks that all configuration values are within acceptable ranges.
// Returns an error describing the first validation failure found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "openai", "gemini", "fake":
	default:
		return fmt.Errorf("provider must be openai, gemini or fake, got %q", c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one extension is required")
	}
	if err := c.Prompts.Validate(); err != nil {
		return fmt.Errorf("prompts config: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}
	if c.Cache.TTL < 0 || c.Cache.MaxEntries < 0 || c.Cache.MaxBytes < 0 {
		return fmt.Errorf("cache config: limits must not be negative")
	}
	return nil
}

// Validate checks prompt selection values.
func (p *PromptConfig) Validate() error {
	switch strings.ToLower(p.FenceStrategy) {
	case "first", "last", "outer":
	default:
		return fmt.Errorf("fence_strategy must be first, last or outer, got %q", p.FenceStrategy)
	}
	if p.DocumentInstructions == "" {
		switch strings.ToLower(p.ReadmeStyle) {
		case "brief", "sectioned":
		default:
			return fmt.Errorf("readme_style must be brief or sectioned, got %q", p.ReadmeStyle)
		}
	}
	return nil
}

// Validate checks completion tuning values.
func (l *LLMConfig) Validate() error {
	if l.OutputRatio <= 0 {
		return fmt.Errorf("output_ratio must be positive, got %g", l.OutputRatio)
	}
	if l.MaxOutputTokens < 0 {
		return fmt.Errorf("max_output_tokens must not be negative, got %d", l.MaxOutputTokens)
	}
	if l.Attempts < 1 || l.Attempts > 10 {
		return fmt.Errorf("attempts must be between 1 and 10, got %d", l.Attempts)
	}
	if l.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must not be negative, got %s", l.RetryDelay)
	}
	if l.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %g", l.RequestsPerSecond)
	}
	return nil
}

// Validate checks the output target.
func (o *OutputConfig) Validate() error {
	if !o.S3.Enabled {
		if strings.TrimSpace(o.Dir) == "" {
			return fmt.Errorf("dir is required when s3 is disabled")
		}
		return nil
	}
	if strings.TrimSpace(o.S3.Endpoint) == "" {
		return fmt.Errorf("s3 endpoint is required")
	}
	if o.S3.AccessKey == "" || o.S3.SecretKey == "" {
		return fmt.Errorf("s3 credentials are required (DOCSCRIBE_S3_ACCESS_KEY, DOCSCRIBE_S3_SECRET_KEY)")
	}
	return nil
}

// Package config loads docscribe settings from a YAML file, the environment
// and command-line flags, in increasing priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docscribe/internal/scan"
)

// DefaultFile is the config file looked up in the workspace root.
const DefaultFile = "docscribe.yaml"

const (
	DefaultModel      = "gpt-3.5-turbo-1106"
	DefaultProvider   = "openai"
	DefaultOutputDir  = "docscribe-out"
	DefaultS3Region   = "us-east-1"
	DefaultS3Bucket   = "docscribe-artifacts"
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second

	DefaultCacheTTL     = 7 * 24 * time.Hour
	DefaultCacheEntries = 512
)

// Config holds the complete docscribe configuration.
type Config struct {
	Provider   string       `yaml:"provider"`
	Model      string       `yaml:"model"`
	Extensions []string     `yaml:"extensions,omitempty"`
	Prompts    PromptConfig `yaml:"prompts"`
	LLM        LLMConfig    `yaml:"llm"`
	Output     OutputConfig `yaml:"output"`
	Cache      CacheConfig  `yaml:"cache"`
	Log        LogConfig    `yaml:"log"`
}

// PromptConfig selects templates per extension.
type PromptConfig struct {
	SourceExtensions      []string `yaml:"source_extensions,omitempty"`
	DocumentExtensions    []string `yaml:"document_extensions,omitempty"`
	DocstringInstructions string   `yaml:"docstring_instructions,omitempty"`
	DocumentInstructions  string   `yaml:"document_instructions,omitempty"`
	ReadmeStyle           string   `yaml:"readme_style"`   // "brief" or "sectioned"
	FenceStrategy         string   `yaml:"fence_strategy"` // "first", "last" or "outer"
}

// LLMConfig tunes completion calls. API keys never come from the file.
type LLMConfig struct {
	OpenAIKey         string        `yaml:"-"`
	GeminiKey         string        `yaml:"-"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	Encoding          string        `yaml:"encoding"`
	OutputRatio       float64       `yaml:"output_ratio"`
	MaxOutputTokens   int           `yaml:"max_output_tokens"`
	Attempts          int           `yaml:"attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// OutputConfig chooses where generated files go: S3 when enabled, else Dir.
type OutputConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// CacheConfig enables the on-disk response cache when Dir is set.
type CacheConfig struct {
	Dir        string        `yaml:"dir,omitempty"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	MaxBytes   int64         `yaml:"max_bytes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env (if present), then the YAML file at path, then the
// environment, and applies defaults. A missing file is an error only when
// required is true.
func Load(path string, required bool) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg, err = Decode(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	cfg.ApplyEnv(os.Getenv)
	cfg.setDefaults()
	return cfg, nil
}

// Decode parses YAML strictly; unknown fields are rejected.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if v := env("DOCSCRIBE_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := env("DOCSCRIBE_MODEL"); v != "" {
		c.Model = v
	}
	if v := env("DOCSCRIBE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("DOCSCRIBE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := env("DOCSCRIBE_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := env("DOCSCRIBE_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := env("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	c.LLM.OpenAIKey = env("OPENAI_API_KEY")
	c.LLM.GeminiKey = firstNonEmpty(env("GEMINI_API_KEY"), env("GOOGLE_API_KEY"))

	s3 := &c.Output.S3
	if v := env("DOCSCRIBE_S3_ENDPOINT"); v != "" {
		s3.Endpoint = v
		s3.Enabled = true
	}
	if v := env("DOCSCRIBE_S3_REGION"); v != "" {
		s3.Region = v
	}
	if v := env("DOCSCRIBE_S3_BUCKET"); v != "" {
		s3.Bucket = v
	}
	s3.AccessKey = firstNonEmpty(env("DOCSCRIBE_S3_ACCESS_KEY"), env("MINIO_ROOT_USER"))
	s3.SecretKey = firstNonEmpty(env("DOCSCRIBE_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD"))
	if v := env("DOCSCRIBE_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s3.UseSSL = b
		}
	}
}

// APIKey returns the key for the provider currently selected, so later
// overrides of Provider pick the matching key.
func (c *Config) APIKey() string {
	if strings.EqualFold(strings.TrimSpace(c.Provider), "gemini") {
		return c.LLM.GeminiKey
	}
	return c.LLM.OpenAIKey
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), scan.DefaultExtensions...)
	}
	if c.Prompts.ReadmeStyle == "" {
		c.Prompts.ReadmeStyle = "brief"
	}
	if c.Prompts.FenceStrategy == "" {
		c.Prompts.FenceStrategy = "outer"
	}
	if c.LLM.Encoding == "" {
		c.LLM.Encoding = "cl100k_base"
	}
	if c.LLM.OutputRatio == 0 {
		c.LLM.OutputRatio = 1.5
	}
	if c.LLM.Attempts == 0 {
		c.LLM.Attempts = DefaultAttempts
	}
	if c.LLM.RetryDelay == 0 {
		c.LLM.RetryDelay = DefaultRetryDelay
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.S3.Region == "" {
		c.Output.S3.Region = DefaultS3Region
	}
	if c.Output.S3.Bucket == "" {
		c.Output.S3.Bucket = DefaultS3Bucket
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheEntries
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

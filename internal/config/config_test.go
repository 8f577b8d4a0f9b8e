package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDecodeAndDefaults(t *testing.T) {
	cfg, err := Decode([]byte(`
model: gpt-4-0613
extensions: [.py, .go]
prompts:
  readme_style: sectioned
llm:
  max_output_tokens: 4096
  retry_delay: 500ms
`))
	require.NoError(t, err)
	cfg.setDefaults()

	assert.Equal(t, "gpt-4-0613", cfg.Model)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, []string{".py", ".go"}, cfg.Extensions)
	assert.Equal(t, "sectioned", cfg.Prompts.ReadmeStyle)
	assert.Equal(t, "outer", cfg.Prompts.FenceStrategy)
	assert.Equal(t, 4096, cfg.LLM.MaxOutputTokens)
	assert.Equal(t, 500*time.Millisecond, cfg.LLM.RetryDelay)
	assert.Equal(t, 1.5, cfg.LLM.OutputRatio)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	require.NoError(t, cfg.Validate())
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte("modle: gpt-4\n"))
	require.Error(t, err)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(nil)
	require.NoError(t, err)
	cfg.setDefaults()
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, []string{".py", ".html", ".js", ".css", ".md"}, cfg.Extensions)
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{Model: "from-file"}
	cfg.ApplyEnv(envMap(map[string]string{
		"DOCSCRIBE_MODEL":         "gpt-4",
		"OPENAI_API_KEY":          " sk-test ",
		"DOCSCRIBE_S3_ENDPOINT":   "localhost:9000",
		"MINIO_ROOT_USER":         "minio",
		"DOCSCRIBE_S3_SECRET_KEY": "secret",
		"DOCSCRIBE_S3_USE_SSL":    "true",
	}))
	cfg.setDefaults()

	assert.Equal(t, "gpt-4", cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.True(t, cfg.Output.S3.Enabled)
	assert.True(t, cfg.Output.S3.UseSSL)
	assert.Equal(t, "minio", cfg.Output.S3.AccessKey)
	assert.Equal(t, DefaultS3Bucket, cfg.Output.S3.Bucket)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvGeminiKey(t *testing.T) {
	cfg := &Config{Provider: "gemini"}
	cfg.ApplyEnv(envMap(map[string]string{"OPENAI_API_KEY": "sk-openai", "GOOGLE_API_KEY": "g-key"}))
	assert.Equal(t, "g-key", cfg.APIKey())
}

func TestAPIKeyFollowsProviderOverride(t *testing.T) {
	cfg := &Config{Provider: "gemini"}
	cfg.ApplyEnv(envMap(map[string]string{"OPENAI_API_KEY": "sk-openai", "GEMINI_API_KEY": "gemini-key"}))
	assert.Equal(t, "gemini-key", cfg.APIKey())

	cfg.Provider = "openai"
	assert.Equal(t, "sk-openai", cfg.APIKey())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.setDefaults()
		return c
	}

	c := base()
	c.Provider = "anthropic"
	require.Error(t, c.Validate())

	c = base()
	c.Prompts.FenceStrategy = "middle"
	require.Error(t, c.Validate())

	c = base()
	c.LLM.OutputRatio = -1
	require.Error(t, c.Validate())

	c = base()
	c.Output.S3.Enabled = true
	c.Output.S3.Endpoint = "localhost:9000"
	require.Error(t, c.Validate())

	c = base()
	c.Prompts.ReadmeStyle = "custom"
	c.Prompts.DocumentInstructions = "write docs"
	require.NoError(t, c.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg.Provider)

	_, err = Load(path, true)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	t.Setenv("DOCSCRIBE_LOG_LEVEL", "")
	cfg, err = Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

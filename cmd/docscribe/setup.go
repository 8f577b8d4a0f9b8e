package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"docscribe/internal/artifact"
	"docscribe/internal/cache"
	"docscribe/internal/config"
	"docscribe/internal/llm"
	llmclient "docscribe/internal/llm/client"
	"docscribe/internal/logging"
	"docscribe/internal/prompt"
	"docscribe/internal/safeio"
	"docscribe/internal/tokens"
)

const tokenCacheSize = 1024

// commonFlags are shared by every subcommand.
type commonFlags struct {
	root       string
	configPath string
	exts       string
	model      string
	provider   string
	logLevel   string
	logFormat  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.root, "root", ".", "workspace root to scan")
	fs.StringVar(&c.configPath, "config", "", "config file (default <root>/"+config.DefaultFile+" when present)")
	fs.StringVar(&c.exts, "ext", "", "comma-separated extensions to scan, e.g. .py,.md")
	fs.StringVar(&c.model, "model", "", "model id used for pricing and completion")
	fs.StringVar(&c.provider, "provider", "", "completion provider: openai, gemini or fake")
	fs.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error, silent")
	fs.StringVar(&c.logFormat, "log-format", "", "log format: console or json")
}

// parseFlags parses args and reports flag errors as usage errors.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{err}
	}
	if fs.NArg() > 0 {
		return usagef("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return nil
}

// workspace holds everything a subcommand needs after setup.
type workspace struct {
	cfg     *config.Config
	log     zerolog.Logger
	fsys    *safeio.SafeFS
	prompts *prompt.Set
	counter tokens.Counter
}

func setup(fs *flag.FlagSet, c *commonFlags, stderr io.Writer, apply func(*config.Config)) (*workspace, error) {
	path, required := c.configPath, true
	if path == "" {
		path, required = filepath.Join(c.root, config.DefaultFile), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, usageError{err}
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["ext"] {
		cfg.Extensions = splitList(c.exts)
	}
	if set["model"] {
		cfg.Model = c.model
	}
	if set["provider"] {
		cfg.Provider = c.provider
	}
	if set["log-level"] {
		cfg.Log.Level = c.logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = c.logFormat
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, usageError{err}
	}

	log, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, usageError{err}
	}

	fsys, err := safeio.NewSafeFS(c.root)
	if err != nil {
		return nil, usagef("root %s: %v", c.root, err)
	}

	prompts, err := prompt.NewSet(prompt.Options{
		SourceExtensions:      cfg.Prompts.SourceExtensions,
		DocumentExtensions:    cfg.Prompts.DocumentExtensions,
		DocstringInstructions: cfg.Prompts.DocstringInstructions,
		DocumentInstructions:  cfg.Prompts.DocumentInstructions,
		ReadmeStyle:           cfg.Prompts.ReadmeStyle,
	})
	if err != nil {
		return nil, usageError{err}
	}

	bpe, err := tokens.NewBPECounter(cfg.LLM.Encoding)
	if err != nil {
		return nil, err
	}
	counter, err := tokens.NewCachingCounter(bpe, tokenCacheSize)
	if err != nil {
		return nil, err
	}

	return &workspace{cfg: cfg, log: log, fsys: fsys, prompts: prompts, counter: counter}, nil
}

// newClient builds the configured provider wrapped with the standard
// middleware chain.
func (w *workspace) newClient(ctx context.Context, ledger *llm.UsageLedger, rc llm.ResponseCache) (llmclient.Client, error) {
	return llm.New(ctx, llm.Options{
		Provider:          w.cfg.Provider,
		Model:             w.cfg.Model,
		APIKey:            w.cfg.APIKey(),
		BaseURL:           w.cfg.LLM.BaseURL,
		Attempts:          w.cfg.LLM.Attempts,
		RetryDelay:        w.cfg.LLM.RetryDelay,
		RequestsPerSecond: w.cfg.LLM.RequestsPerSecond,
		Logger:            w.log,
		Ledger:            ledger,
		Cache:             rc,
	})
}

// newStore opens the configured artifact store.
func (w *workspace) newStore() (artifact.Store, error) {
	out := w.cfg.Output
	if out.S3.Enabled {
		return artifact.NewS3Store(artifact.S3Config{
			Endpoint:  out.S3.Endpoint,
			Region:    out.S3.Region,
			AccessKey: out.S3.AccessKey,
			SecretKey: out.S3.SecretKey,
			Bucket:    out.S3.Bucket,
			UseSSL:    out.S3.UseSSL,
		})
	}
	dir := out.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(w.fsys.Root(), dir)
	}
	return artifact.NewDiskStore(dir)
}

// newCache opens the response cache, or returns nil when none is configured.
func (w *workspace) newCache() (llm.ResponseCache, error) {
	cfg := w.cfg.Cache
	if cfg.Dir == "" {
		return nil, nil
	}
	dir := cfg.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(w.fsys.Root(), dir)
	}
	store, err := cache.NewDiskStore(cache.Config{
		Root:       dir,
		MaxEntries: cfg.MaxEntries,
		MaxBytes:   cfg.MaxBytes,
		TTL:        cfg.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}
	return store, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

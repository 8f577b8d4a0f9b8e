package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"docscribe/internal/config"
	"docscribe/internal/document"
	"docscribe/internal/llm"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, splitList(v)...)
	return nil
}

func runDocument(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("document", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	var (
		only      stringList
		outDir    = fs.String("out", "", "output directory for generated files (default "+config.DefaultOutputDir+" under the root)")
		dryRun    = fs.Bool("dry-run", false, "print the cost report and stop")
		showDiff  = fs.Bool("diff", false, "print a line diff of each documented source file")
		noReadme  = fs.Bool("no-readme", false, "skip README generation for source files")
		runID     = fs.String("run-id", "", "artifact namespace (default: a new UUID)")
		fence     = fs.String("fence", "", "code block taken from responses: first, last or outer")
		maxTokens = fs.Int("max-tokens", -1, "cap on the output token budget (0 = no cap)")
		cacheDir  = fs.String("cache", "", "directory of the response cache")
		noCache   = fs.Bool("no-cache", false, "disable the response cache")
	)
	fs.Var(&only, "only", "restrict to these root-relative paths (repeatable or comma-separated)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ws, err := setup(fs, &common, stderr, func(cfg *config.Config) {
		if *outDir != "" {
			cfg.Output.Dir = *outDir
			cfg.Output.S3.Enabled = false
		}
		if *fence != "" {
			cfg.Prompts.FenceStrategy = *fence
		}
		if *maxTokens >= 0 {
			cfg.LLM.MaxOutputTokens = *maxTokens
		}
		if *cacheDir != "" {
			cfg.Cache.Dir = *cacheDir
		}
		if *noCache {
			cfg.Cache.Dir = ""
		}
	})
	if err != nil {
		return err
	}
	if *dryRun {
		return printReport(ws, stdout)
	}

	pos, err := document.ParseFence(ws.cfg.Prompts.FenceStrategy)
	if err != nil {
		return usageError{err}
	}
	store, err := ws.newStore()
	if err != nil {
		return err
	}
	respCache, err := ws.newCache()
	if err != nil {
		return err
	}
	ledger := llm.NewUsageLedger(ws.counter, ws.cfg.Model)
	client, err := ws.newClient(ctx, ledger, respCache)
	if err != nil {
		return usageError{err}
	}
	defer client.Close()

	p := &document.Pipeline{
		Root:            ws.fsys,
		Store:           store,
		LLM:             client,
		Prompts:         ws.prompts,
		Counter:         ws.counter,
		Extensions:      ws.cfg.Extensions,
		Fence:           pos,
		OutputRatio:     ws.cfg.LLM.OutputRatio,
		MaxOutputTokens: ws.cfg.LLM.MaxOutputTokens,
		NoReadme:        *noReadme,
		Only:            only,
		RunID:           *runID,
		Logger:          ws.log,
	}
	if *showDiff {
		p.Diff = stdout
	}

	sum, err := p.Run(ctx)
	printSummary(ctx, stdout, sum, store, ledger.Snapshot())
	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", sum.Failed, sum.Failed+sum.Processed)
	}
	return nil
}

func printSummary(ctx context.Context, w io.Writer, sum document.Summary, store locator, usage llm.Usage) {
	fmt.Fprintf(w, "run %s: %d documented, %d failed, %d skipped\n", sum.RunID, sum.Processed, sum.Failed, sum.Skipped)
	for _, f := range sum.Files {
		for _, out := range f.Outputs {
			loc, err := store.Locate(ctx, sum.RunID, out)
			if err != nil || loc == "" {
				loc = sum.RunID + "/" + out
			}
			note := ""
			if f.Truncated && strings.Contains(out, document.DocstringSuffix) {
				note = " (truncated)"
			}
			fmt.Fprintf(w, "  %s -> %s%s\n", f.Path, loc, note)
		}
		if f.Err != nil {
			fmt.Fprintf(w, "  %s: %v\n", f.Path, f.Err)
		}
	}
	fmt.Fprintf(w, "usage: %d requests, %s input tokens, %s output tokens, ~$%.4f\n",
		usage.Requests, humanize.Comma(int64(usage.InputTokens)), humanize.Comma(int64(usage.OutputTokens)), usage.Cost)
}

// locator is the subset of artifact.Store used to print output locations.
type locator interface {
	Locate(ctx context.Context, runID, path string) (string, error)
}

// Package document sends candidate files to the completion client and stores
// the documented code and generated READMEs as run artifacts.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docscribe/internal/artifact"
	"docscribe/internal/llm"
	llmclient "docscribe/internal/llm/client"
	"docscribe/internal/markdown"
	"docscribe/internal/logging"
	"docscribe/internal/prompt"
	"docscribe/internal/safeio"
	"docscribe/internal/scan"
	"docscribe/internal/tokens"
)

// Output name suffixes.
const (
	DocstringSuffix = "-docstring"
	ReadmeSuffix    = ".README.md"
)

// ErrNoCode is returned for a file when the response has no fenced block.
var ErrNoCode = errors.New("document: response has no fenced code block")

// Pipeline documents every candidate of one workspace.
type Pipeline struct {
	Root    *safeio.SafeFS
	Store   artifact.Store
	LLM     llmclient.Client
	Prompts *prompt.Set
	Counter tokens.Counter

	Extensions []string
	// Fence picks the block taken from docstring responses.
	Fence           markdown.Position
	OutputRatio     float64
	MaxOutputTokens int
	NoReadme        bool
	// Only restricts the run to these root-relative paths when non-empty.
	Only []string
	// Diff receives a line diff per documented source file when non-nil.
	Diff io.Writer
	// RunID names the artifact namespace; a UUID is generated when empty.
	RunID  string
	Logger zerolog.Logger
}

// FileResult is the outcome for one candidate.
type FileResult struct {
	Path      string
	Kind      prompt.Kind
	Outputs   []string
	Truncated bool
	Err       error
}

// Summary is the outcome of a run.
type Summary struct {
	RunID     string
	Processed int
	Skipped   int
	Failed    int
	Files     []FileResult
}

// Run documents each candidate in scan order. Per-file failures are logged
// and counted; only setup errors and context cancellation stop the run.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	if p.Root == nil || p.Store == nil || p.LLM == nil || p.Prompts == nil || p.Counter == nil {
		return Summary{}, fmt.Errorf("document: pipeline is not fully configured")
	}
	runID := strings.TrimSpace(p.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	log := logging.Component(p.Logger, "document").With().Str("run_id", runID).Logger()
	sum := Summary{RunID: runID}

	cands, _, err := scan.Worklist(p.Root, p.Extensions, log)
	if err != nil {
		return sum, err
	}
	cands = p.filter(cands)
	log.Info().Int("files", len(cands)).Msg("documentation run started")

	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res := p.documentFile(llm.WithFile(ctx, c.Path), runID, c, log)
		switch {
		case res.Kind == prompt.KindNone:
			sum.Skipped++
			log.Debug().Str("file", c.Path).Msg("no template for extension; skipped")
			continue
		case res.Err != nil:
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				return sum, res.Err
			}
			sum.Failed++
			log.Error().Err(res.Err).Str("file", c.Path).Msg("documentation failed")
		default:
			sum.Processed++
			log.Info().Str("file", c.Path).Strs("outputs", res.Outputs).Msg("documented")
		}
		sum.Files = append(sum.Files, res)
	}
	return sum, nil
}

func (p *Pipeline) filter(cands []scan.Candidate) []scan.Candidate {
	if len(p.Only) == 0 {
		return cands
	}
	want := make(map[string]struct{}, len(p.Only))
	for _, o := range p.Only {
		o = path.Clean(strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(o), "\\", "/"), "./"))
		want[o] = struct{}{}
	}
	out := cands[:0:0]
	for _, c := range cands {
		if _, ok := want[c.Path]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (p *Pipeline) documentFile(ctx context.Context, runID string, c scan.Candidate, log zerolog.Logger) FileResult {
	res := FileResult{Path: c.Path, Kind: p.Prompts.KindFor(c.Ext)}
	if res.Kind == prompt.KindNone {
		return res
	}
	data, err := p.Root.ReadFile(c.Path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", c.Path, err)
		return res
	}
	text := string(data)
	dir := path.Dir(c.Path)

	if res.Kind == prompt.KindDocument {
		res.Err = p.writeReadme(ctx, runID, path.Join(dir, c.Stem()+ReadmeSuffix), text, &res)
		return res
	}

	reply, err := p.complete(ctx, p.Prompts.Docstring(c.Ext), text)
	if err != nil {
		res.Err = err
		return res
	}
	code, err := markdown.Extract(reply, prompt.FenceTag(c.Ext), p.Fence)
	switch {
	case errors.Is(err, markdown.ErrUnclosed):
		res.Truncated = true
		log.Warn().Str("file", c.Path).Msg("response code block is not closed; output may be truncated")
	case errors.Is(err, markdown.ErrNoFence):
		res.Err = ErrNoCode
		return res
	}

	out := path.Join(dir, c.Stem()+DocstringSuffix+c.Ext)
	if err := p.put(ctx, runID, out, []byte(code), &res); err != nil {
		res.Err = err
		return res
	}
	if p.Diff != nil {
		if d := LineDiff("a/"+c.Path, "b/"+out, text, code); d != "" {
			if _, err := io.WriteString(p.Diff, d); err != nil {
				log.Warn().Err(err).Msg("writing diff failed")
			}
		}
	}
	if p.NoReadme {
		return res
	}
	res.Err = p.writeReadme(ctx, runID, path.Join(dir, c.Stem()+ReadmeSuffix), code, &res)
	return res
}

func (p *Pipeline) writeReadme(ctx context.Context, runID, out, text string, res *FileResult) error {
	reply, err := p.complete(ctx, p.Prompts.Readme(), text)
	if err != nil {
		return err
	}
	doc := markdown.Clean(reply)
	if doc == "" {
		return fmt.Errorf("readme for %s: %w", res.Path, llmclient.ErrEmptyResponse)
	}
	return p.put(ctx, runID, out, []byte(doc), res)
}

func (p *Pipeline) complete(ctx context.Context, system, user string) (string, error) {
	msgs := prompt.Messages(system, user)
	budget := llm.OutputBudget(p.Counter, msgs, p.OutputRatio, p.MaxOutputTokens)
	return p.LLM.Complete(ctx, msgs, budget)
}

func (p *Pipeline) put(ctx context.Context, runID, out string, data []byte, res *FileResult) error {
	if err := p.Store.Put(ctx, runID, out, data); err != nil {
		return fmt.Errorf("store %s: %w", out, err)
	}
	res.Outputs = append(res.Outputs, out)
	return nil
}

// ParseFence maps "first", "last" or "outer" to a markdown.Position.
func ParseFence(s string) (markdown.Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first":
		return markdown.First, nil
	case "last":
		return markdown.Last, nil
	case "", "outer":
		return markdown.Outer, nil
	default:
		return 0, fmt.Errorf("document: unknown fence strategy %q", s)
	}
}

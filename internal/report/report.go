// Package report estimates the token count and cost of documenting every
// candidate file in a workspace.
package report

import (
	"github.com/rs/zerolog"

	"docscribe/internal/logging"
	"docscribe/internal/prompt"
	"docscribe/internal/safeio"
	"docscribe/internal/scan"
	"docscribe/internal/tokens"
)

// Row is one line of the report.
type Row struct {
	Index int
	// File is the base file name; Path is root-relative.
	File string
	Path string
	Kind prompt.Kind
	tokens.Estimate
}

// Report is the result of one scan. It is a plain value; nothing is shared
// between builds.
type Report struct {
	Model string
	Rows  []Row
}

// Options configures Build.
type Options struct {
	Extensions []string
	Model      string
	Prompts    *prompt.Set
	Counter    tokens.Counter
	Logger     zerolog.Logger
}

// Build scans the root of fsys and estimates every candidate under the
// template its extension selects. Files without a template get a zero row
// and are not read. Unreadable files are logged and produce no row; indices
// stay contiguous from 0.
func Build(fsys *safeio.SafeFS, opts Options) (Report, error) {
	log := logging.Component(opts.Logger, "report")
	rep := Report{Model: opts.Model}

	cands, _, err := scan.Worklist(fsys, opts.Extensions, log)
	if err != nil {
		return rep, err
	}
	for _, c := range cands {
		row := Row{File: c.Name(), Path: c.Path, Kind: opts.Prompts.KindFor(c.Ext)}
		if system := opts.Prompts.SystemFor(c.Ext); system != "" {
			data, err := fsys.ReadFile(c.Path)
			if err != nil {
				log.Warn().Err(err).Str("file", c.Path).Msg("skipping unreadable file")
				continue
			}
			row.Estimate = tokens.EstimateCost(opts.Counter, system+string(data), opts.Model)
		}
		row.Index = len(rep.Rows)
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

// Total sums tokens and cost over all rows.
func (r Report) Total() tokens.Estimate {
	var t tokens.Estimate
	for _, row := range r.Rows {
		t.Tokens += row.Tokens
		t.Cost += row.Cost
	}
	return t
}

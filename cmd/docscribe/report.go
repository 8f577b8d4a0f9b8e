package main

import (
	"context"
	"flag"
	"io"

	"docscribe/internal/report"
)

func runReport(_ context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ws, err := setup(fs, &common, stderr, nil)
	if err != nil {
		return err
	}
	return printReport(ws, stdout)
}

func printReport(ws *workspace, stdout io.Writer) error {
	rep, err := report.Build(ws.fsys, report.Options{
		Extensions: ws.cfg.Extensions,
		Model:      ws.cfg.Model,
		Prompts:    ws.prompts,
		Counter:    ws.counter,
		Logger:     ws.log,
	})
	if err != nil {
		return err
	}
	return report.Render(stdout, rep)
}

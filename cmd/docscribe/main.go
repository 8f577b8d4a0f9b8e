// Command docscribe estimates and generates documentation for a workspace
// with a hosted language model.
//
//	docscribe report   [flags]   print the token/cost table
//	docscribe document [flags]   generate documented code and READMEs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks errors caused by bad arguments or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	var err error
	switch args[0] {
	case "report":
		err = runReport(ctx, args[1:], stdout, stderr)
	case "document":
		err = runDocument(ctx, args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "docscribe: unknown command %q\n", args[0])
		printUsage(stderr)
		return exitUsage
	}

	var ue usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, "docscribe:", err)
		return exitUsage
	default:
		fmt.Fprintln(stderr, "docscribe:", err)
		return exitFailure
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `usage: docscribe <command> [flags]

commands:
  report     print the token count and cost estimate per candidate file
  document   send candidate files to the model and store the results

run "docscribe <command> -h" for the flags of a command
`)
}

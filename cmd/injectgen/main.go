// Command injectgen generates autoinject catalogs from //autoinject:
// directives.
//
// Usage:
//
//	injectgen [options] [packages]
//
// Typically invoked through go generate:
//
//	//go:generate go run github.com/junioryono/autoinject/cmd/injectgen .
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/junioryono/autoinject/internal/gen"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("injectgen", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprint(stderr, `
injectgen - writes autoinject catalogs for //autoinject: directives.

Usage:
  injectgen [options] [packages]

Packages default to ./...

Options:
`)
		flagSet.PrintDefaults()
	}

	dir := flagSet.String("C", "", "Directory to resolve packages from.")
	output := flagSet.String("output", gen.DefaultOutput, "Name of the generated file in each package.")
	funcName := flagSet.String("func", gen.DefaultFunc, "Name of the generated catalog function.")
	dryRun := flagSet.Bool("n", false, "Print the files that would be written without writing them.")
	logLevel := flagSet.String("log-level", "info", "Logging level: 'debug', 'info', 'warn' or 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(*logLevel))); err != nil {
		return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn' or 'error'"}
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	written, err := gen.Generate(ctx, gen.Config{
		Dir:      *dir,
		Patterns: flagSet.Args(),
		Output:   *output,
		Func:     *funcName,
		DryRun:   *dryRun,
		Logger:   logger,
	})

	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}

	return err
}

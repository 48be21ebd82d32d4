package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ben-ranford/depsweep/internal/app"
	"github.com/charmbracelet/log"
)

const (
	exitOK          = 0
	exitRuntime     = 1
	exitUsage       = 2
	exitIssuesFound = 3
)

type Runner interface {
	Execute(ctx context.Context, req app.Request) (string, error)
}

type CLI struct {
	Runner Runner
	Out    io.Writer
	Err    io.Writer
}

func New(runner Runner, out io.Writer, errOut io.Writer) *CLI {
	return &CLI{
		Runner: runner,
		Out:    out,
		Err:    errOut,
	}
}

func (c *CLI) Run(ctx context.Context, args []string) int {
	inv, err := ParseArgs(args)
	if err != nil {
		switch {
		case errors.Is(err, ErrHelpRequested):
			return writeOrFail(c.Out, Usage())
		case errors.Is(err, ErrVersionRequested):
			return writeOrFail(c.Out, "depsweep "+Version+"\n")
		}
		if _, writeErr := fmt.Fprintf(c.Err, "error: %v\n\n", err); writeErr != nil {
			return exitRuntime
		}
		if _, writeErr := fmt.Fprint(c.Err, Usage()); writeErr != nil {
			return exitRuntime
		}
		return exitUsage
	}

	logger := newLogger(c.Err, inv.Verbose)
	if inv.ConfigPath != "" {
		logger.Debug("configuration loaded", "path", inv.ConfigPath)
	}
	ctx = log.WithContext(ctx, logger)

	output, runErr := c.Runner.Execute(ctx, inv.Request)
	if output != "" {
		if !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		if _, err := fmt.Fprint(c.Out, output); err != nil {
			return exitRuntime
		}
	}

	if runErr != nil {
		if errors.Is(runErr, app.ErrIssuesFound) {
			return exitIssuesFound
		}
		_, _ = fmt.Fprintf(c.Err, "error: %v\n", runErr)
		return exitRuntime
	}
	return exitOK
}

func writeOrFail(w io.Writer, text string) int {
	if _, err := fmt.Fprint(w, text); err != nil {
		return exitRuntime
	}
	return exitOK
}

// newLogger writes to w at warn level, or debug level when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

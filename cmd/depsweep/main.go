package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/ben-ranford/depsweep/internal/app"
	"github.com/ben-ranford/depsweep/internal/cli"
)

var exitFunc = os.Exit

func run(args []string, out io.Writer, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commandLine := cli.New(app.New(), out, errOut)
	return commandLine.Run(ctx, args)
}

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}

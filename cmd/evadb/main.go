// Command evadb prepares and inspects the EVA configuration directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/evadb/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute prints the error itself
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

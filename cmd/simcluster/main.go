package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/simcluster/internal/cli"
	simerrors "github.com/matzehuels/simcluster/pkg/errors"
)

// Exit statuses.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(report(os.Stderr, err))
}

// report prints err, if any, and returns the process exit status.
func report(w io.Writer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}
	cli.PrintError(w, "%s", simerrors.UserMessage(err))
	if simerrors.Usage(err) {
		cli.PrintHint(w, "Run 'simcluster --help' for usage.")
	}
	return exitFailure
}

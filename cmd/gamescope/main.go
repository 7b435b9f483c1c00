package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gamescope/app/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}

	code := cli.GetExitCode(err)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Cobra's own argument and flag errors.
		code = cli.ExitCommandError
	}
	if exitErr == nil || !exitErr.Reported() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(code)
}

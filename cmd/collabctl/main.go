package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gitcollab/internal/cli"
	"gitcollab/internal/config"
	"gitcollab/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, config.LogConfig{Level: "warn", Format: "text"})

	if err := cli.NewRootCommand(config.LoadEnv, logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Package main is the entry point for the phototask CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"phototask/internal/backend/rest"
	"phototask/internal/cli"
	"phototask/internal/commands"
	"phototask/internal/config"
	"phototask/internal/logging"
	"phototask/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create service factory
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		rest.UserAgent = "phototask/" + commands.Version
		return rest.New(cfg, logging.New(os.Stderr, cfg.Debug)), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dispatcher.SetInput(os.Stdin)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

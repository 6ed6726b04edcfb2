// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"

	"phototask/internal/config"
	"phototask/internal/service"
	"phototask/internal/session"
)

// Env is what a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, API URL).
	Config *config.Config

	// Service is the backend. Nil only if the factory could not build one
	// for a command that does not need it.
	Service service.Service

	// Session holds the signed-in account; already initialized.
	Session *session.Manager

	// In is read by commands that prompt (login, shell).
	In io.Reader

	Log *slog.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a signed-in session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

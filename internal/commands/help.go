package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"phototask/internal/exitcode"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&HelpCmd{})
	Register(&VersionCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "phototask help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		fmt.Fprintln(errOut, "error: help takes at most one command name")
		return exitcode.UserError
	}
	if len(args) == 1 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "Usage: %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
		if a := cmd.Aliases(); len(a) > 0 {
			fmt.Fprintf(out, "Aliases: %s\n", strings.Join(a, ", "))
		}
		return exitcode.Success
	}

	fmt.Fprint(out, helpText)
	fmt.Fprintln(out, "\nCommands (* needs a session):")
	DefaultRegistry.WriteSummary(out)
	return exitcode.Success
}

const helpText = `Usage:
  phototask                                     List tasks
  phototask list [common flags] [--long]        List tasks with ids, photos and locations
  phototask add [common flags] --photo <file> [--lat <f> --lng <f>] <title...>
  phototask toggle [common flags] <ref>         Mark a task completed (or open again)
  phototask rm [common flags] <ref>
  phototask login [common flags] --email <e> [--password <p>]
  phototask logout [common flags]
  phototask whoami [common flags]
  phototask shell [common flags]
  phototask help
  phototask version

A <ref> is the task number shown by list, or a task id.

Common flags:
  --config <dir>   Override config directory
  --api <url>      Override the backend URL (PHOTOTASK_API_URL)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "phototask version" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "phototask %s\n", Version)
	return exitcode.Success
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"phototask/internal/exitcode"
	"phototask/internal/service"
	"phototask/internal/tasksync"
)

func init() {
	Register(&ToggleCmd{})
	Register(&RmCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed, or open again" }
func (c *ToggleCmd) Usage() string     { return "phototask toggle <ref>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runOnTask(ctx, env, args, out, errOut, func(ctrl *tasksync.Controller, task service.Task) error {
		return ctrl.Toggle(ctx, task.ID)
	})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "phototask rm <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runOnTask(ctx, env, args, out, errOut, func(ctrl *tasksync.Controller, task service.Task) error {
		return ctrl.Delete(ctx, task.ID)
	})
}

// runOnTask loads the list, resolves the reference in args and applies fn.
func runOnTask(ctx context.Context, env *Env, args []string, out, errOut io.Writer, fn func(*tasksync.Controller, service.Task) error) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return report(errOut, err, "")
	}

	ctrl := newController(env)
	if err := ctrl.Load(ctx); err != nil {
		return report(errOut, err, ctrl.Err())
	}

	task, err := ref.Resolve(ctrl.Tasks())
	if err != nil {
		return report(errOut, err, "")
	}

	if err := fn(ctrl, task); err != nil {
		return report(errOut, err, ctrl.Err())
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

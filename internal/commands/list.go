package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"phototask/internal/exitcode"
	"phototask/internal/output"
	"phototask/internal/tasksync"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `phototask` (no args) and `phototask list`.
type ListCmd struct {
	long bool
}

// SetLong enables detail lines (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "phototask list [--long]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctrl := newController(env)
	if err := ctrl.Load(ctx); err != nil {
		return report(errOut, err, ctrl.Err())
	}

	printTasks(env, ctrl, c.long, out)
	return exitcode.Success
}

// printTasks prints the header and the controller's current list.
func printTasks(env *Env, ctrl *tasksync.Controller, long bool, out io.Writer) {
	tasks := ctrl.Tasks()
	if len(tasks) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}

	if !env.Config.Quiet {
		if sess, ok := env.Session.Current(); ok {
			name := sess.Name
			if name == "" {
				name = sess.Email
			}
			output.FormatHeader(out, name)
		}
	}
	for i, task := range tasks {
		output.FormatTask(out, i+1, task)
		if long {
			output.FormatTaskDetails(out, task)
		}
	}
}

func newController(env *Env) *tasksync.Controller {
	return tasksync.New(env.Service, env.Session, env.Log)
}

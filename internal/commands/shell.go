package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"phototask/internal/exitcode"
	"phototask/internal/location"
	"phototask/internal/output"
	"phototask/internal/service"
	"phototask/internal/tasksync"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd runs an interactive session over a single controller, so the
// list stays loaded between commands.
type ShellCmd struct{}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Interactive session" }
func (c *ShellCmd) Usage() string     { return "phototask shell" }
func (c *ShellCmd) NeedsAuth() bool   { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

const shellHelp = `Commands:
  list | ls              print the list
  long                   print the list with details
  refresh                reload from the server
  add <photo> <title...> create a task
  toggle | done <ref>    flip completed
  rm | delete <ref>      delete a task
  whoami                 print the signed-in account
  quit | exit
`

// errSignedOut ends the shell after a forced sign-out.
var errSignedOut = errors.New("signed out")

type shell struct {
	env    *Env
	ctrl   *tasksync.Controller
	up     *tasksync.Uploader
	out    io.Writer
	errOut io.Writer
}

func (c *ShellCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.In == nil {
		fmt.Fprintln(errOut, "error: no input")
		return exitcode.UserError
	}

	sh := &shell{
		env:    env,
		ctrl:   newController(env),
		up:     tasksync.NewUploader(env.Service, env.Session, env.Log),
		out:    out,
		errOut: errOut,
	}
	env.Session.OnSignOut(sh.ctrl.Reset)
	sh.ctrl.Subscribe(func(st tasksync.State) {
		env.Log.Debug("state",
			"tasks", len(st.Tasks),
			"loading", st.Loading,
			"creating", st.Creating,
			"updating", st.Updating,
			"deleting", st.Deleting,
			"error", st.Err)
	})

	if err := sh.exec(ctx, "list"); errors.Is(err, errSignedOut) {
		return exitcode.AuthError
	}

	scanner := bufio.NewScanner(env.In)
	for {
		if !env.Config.Quiet {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return exitcode.Success
		}
		if err := sh.exec(ctx, line); errors.Is(err, errSignedOut) {
			return exitcode.AuthError
		}
		if ctx.Err() != nil {
			return exitcode.UserError
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// exec runs one shell line. Errors are printed; errSignedOut is returned
// once the session is gone.
func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	var err error
	switch name {
	case "list", "ls", "refresh", "long":
		if err = sh.ctrl.Load(ctx); err == nil {
			printTasks(sh.env, sh.ctrl, name == "long", sh.out)
		}
	case "add":
		err = sh.add(ctx, args)
	case "toggle", "done":
		err = sh.onTask(args, func(id string) error { return sh.ctrl.Toggle(ctx, id) })
	case "rm", "delete":
		err = sh.onTask(args, func(id string) error { return sh.ctrl.Delete(ctx, id) })
	case "whoami":
		if sess, ok := sh.env.Session.Current(); ok {
			output.FormatUser(sh.out, sess.Name, sess.Email)
		}
	case "help":
		fmt.Fprint(sh.out, shellHelp)
	default:
		fmt.Fprintf(sh.errOut, "error: unknown command: %s\n", name)
	}

	if err != nil {
		// The controller keeps its message until the next operation, so
		// only the session message is taken from it.
		msg := ""
		if service.IsAuthorization(err) {
			msg = tasksync.SessionExpiredMessage
		}
		report(sh.errOut, err, msg)
	}
	if sh.env.Session.Token() == "" {
		fmt.Fprintln(sh.errOut, "signed out (run: phototask login)")
		return errSignedOut
	}
	return err
}

func (sh *shell) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return service.ValidationError("a photo is required")
	}
	title := strings.Join(args[1:], " ")
	if strings.TrimSpace(title) == "" {
		return service.ValidationError("task title is required")
	}

	photo, err := preparePhoto(ctx, sh.env, args[0])
	if err != nil {
		return err
	}
	defer os.Remove(photo)

	sub := &tasksync.Submitter{
		Tasks:    sh.ctrl,
		Images:   sh.up,
		Location: location.Static{},
		Log:      sh.env.Log,
	}
	task, err := sub.Submit(ctx, title, photo)
	if err != nil {
		return err
	}
	output.FormatTask(sh.out, 1, task)
	return nil
}

// onTask resolves a reference against the loaded list.
func (sh *shell) onTask(args []string, fn func(id string) error) error {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return err
	}
	task, err := ref.Resolve(sh.ctrl.Tasks())
	if err != nil {
		return err
	}
	if err := fn(task.ID); err != nil {
		return err
	}
	printTasks(sh.env, sh.ctrl, false, sh.out)
	return nil
}

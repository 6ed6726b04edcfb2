package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"phototask/internal/capture"
	"phototask/internal/exitcode"
	"phototask/internal/location"
	"phototask/internal/service"
	"phototask/internal/tasksync"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	photo string
	lat   *float64
	lng   *float64
}

// SetPhoto sets the photo path (for testing).
func (c *AddCmd) SetPhoto(path string) {
	c.photo = path
}

// SetLocation sets the coordinates (for testing).
func (c *AddCmd) SetLocation(lat, lng float64) {
	c.lat, c.lng = &lat, &lng
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task with a photo" }
func (c *AddCmd) Usage() string {
	return "phototask add --photo <file> [--lat <f> --lng <f>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.lat, c.lng = nil, nil
	fs.StringVar(&c.photo, "photo", "", "")
	fs.StringVar(&c.photo, "p", "", "")
	fs.Func("lat", "", coordFlag(&c.lat))
	fs.Func("lng", "", coordFlag(&c.lng))
}

func coordFlag(dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %s", s)
		}
		*dst = &v
		return nil
	}
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return report(errOut, service.ValidationError("task title is required"), "")
	}
	if strings.TrimSpace(c.photo) == "" {
		return report(errOut, service.ValidationError("a photo is required"), "")
	}

	loc, err := location.FromFlags(c.lat, c.lng)
	if err != nil {
		return report(errOut, err, "")
	}

	photo, err := preparePhoto(ctx, env, c.photo)
	if err != nil {
		return report(errOut, err, "")
	}
	defer os.Remove(photo)

	ctrl := newController(env)
	sub := &tasksync.Submitter{
		Tasks:    ctrl,
		Images:   tasksync.NewUploader(env.Service, env.Session, env.Log),
		Location: loc,
		Log:      env.Log,
	}

	task, err := sub.Submit(ctx, title, photo)
	if err != nil {
		msg := ctrl.Err()
		if msg == "" {
			msg = sub.Images.Err()
		}
		return report(errOut, err, msg)
	}

	env.Log.Debug("created task", "id", task.ID, "photo", task.PhotoURI)
	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// preparePhoto runs the file through the capture pipeline and returns the
// processed copy in the cache directory.
func preparePhoto(ctx context.Context, env *Env, path string) (string, error) {
	opts := capture.DefaultOptions
	opts.Dir = env.Config.CacheDir
	return capture.NewAdapter(capture.FileCamera{Path: path}, opts, env.Log).TakePhoto(ctx)
}

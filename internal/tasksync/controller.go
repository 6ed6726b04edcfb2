// Package tasksync keeps a local task list in step with the backend using
// optimistic updates with snapshot rollback.
package tasksync

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"phototask/internal/logging"
	"phototask/internal/service"
)

// SessionExpiredMessage is recorded for every 401/403 answer.
const SessionExpiredMessage = "session expired or invalid token; sign in again"

// ErrNotSignedIn is returned by operations that need a session token.
var ErrNotSignedIn = errors.New("not signed in")

// SessionSource supplies the bearer token and performs forced sign-out.
type SessionSource interface {
	Token() string
	SignOut() error
}

// State is a copy of the controller state.
type State struct {
	Tasks    []service.Task
	Loading  bool
	Creating bool
	Updating bool
	Deleting bool
	Err      string
}

// Controller owns the in-memory task list.
//
// Toggle and Delete apply their change before the backend call and restore
// the pre-call snapshot of the whole list if the call fails. Operations are
// not serialized against each other: a rollback can overwrite an optimistic
// change made by a concurrent operation.
type Controller struct {
	gw   service.TaskGateway
	sess SessionSource
	log  *slog.Logger

	mu       sync.Mutex
	tasks    []service.Task
	loading  bool
	creating bool
	updating bool
	deleting bool
	errMsg   string
	subs     []func(State)
}

// New creates a Controller with an empty list.
func New(gw service.TaskGateway, sess SessionSource, log *slog.Logger) *Controller {
	return &Controller{
		gw:    gw,
		sess:  sess,
		log:   logging.OrDiscard(log),
		tasks: []service.Task{},
	}
}

// Subscribe registers fn to receive the state after every change.
// fn runs on the goroutine that made the change, without locks held.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Tasks returns a copy of the current list.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTasks(c.tasks)
}

// Find returns the task with the given id from the local list.
func (c *Controller) Find(id string) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := indexOf(c.tasks, id); i >= 0 {
		return cloneTasks(c.tasks[i : i+1])[0], true
	}
	return service.Task{}, false
}

// Err returns the last recorded error message, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Reset empties the list, e.g. after sign-out. The error message is kept.
func (c *Controller) Reset() {
	c.update(func() {
		c.tasks = []service.Task{}
	})
}

// Load replaces the list with the backend's.
// Without a session token the list is emptied and no call is made.
func (c *Controller) Load(ctx context.Context) error {
	token := c.sess.Token()
	if token == "" {
		c.Reset()
		return nil
	}

	c.update(func() {
		c.loading = true
		c.errMsg = ""
	})

	tasks, err := c.gw.ListTasks(ctx, token)

	msg := failureMessage(err, "failed to fetch the tasks")
	c.update(func() {
		c.loading = false
		if err != nil {
			c.errMsg = msg
			return
		}
		c.tasks = cloneTasks(tasks)
	})
	c.afterFailure(err)
	return err
}

// Create stores a new task whose photo was already uploaded to imageURL
// and prepends it to the list. The list is not touched on failure.
func (c *Controller) Create(ctx context.Context, title, imageURL string, loc *service.Location) (service.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, service.ValidationError("task title is required")
	}
	if strings.TrimSpace(imageURL) == "" {
		return service.Task{}, service.ValidationError("a photo is required")
	}

	token := c.sess.Token()
	if token == "" {
		return service.Task{}, ErrNotSignedIn
	}

	c.update(func() {
		c.creating = true
		c.errMsg = ""
	})

	created, err := c.gw.CreateTask(ctx, token, service.NewTask{
		Title:     title,
		Completed: false,
		Location:  loc,
		PhotoURI:  imageURL,
	})

	msg := failureMessage(err, "failed to create the task")
	c.update(func() {
		c.creating = false
		if err != nil {
			c.errMsg = msg
			return
		}
		c.tasks = applyCreate(c.tasks, created)
	})
	c.afterFailure(err)
	if err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// Toggle flips the completed flag of task id and confirms it with the
// backend. Unknown ids and a missing session are no-ops.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	token := c.sess.Token()
	if token == "" {
		return nil
	}

	var (
		p         pending
		completed bool
		found     bool
	)
	c.update(func() {
		var next []service.Task
		next, p, completed, found = applyToggle(c.tasks, id)
		if !found {
			return
		}
		c.tasks = next
		c.updating = true
		c.errMsg = ""
	})
	if !found {
		return nil
	}

	_, err := c.gw.UpdateTask(ctx, token, id, service.TaskPatch{Completed: &completed})

	msg := failureMessage(err, "failed to update the task")
	c.update(func() {
		c.updating = false
		if err != nil {
			c.tasks = p.snapshot
			c.errMsg = msg
		}
	})
	c.afterFailure(err)
	return err
}

// Delete removes task id and confirms it with the backend.
// A missing session is a no-op.
func (c *Controller) Delete(ctx context.Context, id string) error {
	token := c.sess.Token()
	if token == "" {
		return nil
	}

	var p pending
	c.update(func() {
		c.tasks, p = applyDelete(c.tasks, id)
		c.deleting = true
		c.errMsg = ""
	})

	err := c.gw.DeleteTask(ctx, token, id)

	msg := failureMessage(err, "failed to delete the task")
	c.update(func() {
		c.deleting = false
		if err != nil {
			c.tasks = p.snapshot
			c.errMsg = msg
		}
	})
	c.afterFailure(err)
	return err
}

// failureMessage returns the displayable message for err, or "" for nil.
func failureMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if service.IsAuthorization(err) {
		return SessionExpiredMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// afterFailure logs err and forces sign-out on authorization failures.
// It runs after the rollback so sign-out hooks see the final list.
func (c *Controller) afterFailure(err error) {
	if err == nil {
		return
	}
	c.log.Error("api error", "error", err, "status", service.StatusOf(err))
	if service.IsAuthorization(err) {
		signOut(c.sess, c.log)
	}
}

func signOut(sess SessionSource, log *slog.Logger) {
	if err := sess.SignOut(); err != nil {
		log.Warn("sign out failed", "error", err)
	}
}

// update runs fn under the lock and publishes the resulting state.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	st := c.stateLocked()
	subs := append([]func(State){}, c.subs...)
	c.mu.Unlock()

	for _, sub := range subs {
		sub(st)
	}
}

func (c *Controller) stateLocked() State {
	return State{
		Tasks:    cloneTasks(c.tasks),
		Loading:  c.loading,
		Creating: c.creating,
		Updating: c.updating,
		Deleting: c.deleting,
		Err:      c.errMsg,
	}
}

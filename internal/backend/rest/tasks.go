package rest

import (
	"context"
	"net/http"
	"net/url"

	"phototask/internal/service"
)

// ListTasks fetches every task of the token's owner.
// A body without a data member yields an empty list.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	body, err := c.doJSON(ctx, service.OpListTasks, token, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}

	data := dataOnly(body)
	if data == nil {
		return []service.Task{}, nil
	}

	var tasks []service.Task
	if err := decode(service.OpListTasks, data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, token string, task service.NewTask) (service.Task, error) {
	body, err := c.doJSON(ctx, service.OpCreateTask, token, http.MethodPost, "/todos", task)
	if err != nil {
		return service.Task{}, err
	}

	var created service.Task
	if err := decode(service.OpCreateTask, payload(body), &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// UpdateTask sends a partial update for the task with the given id.
// Backends that answer with an empty body yield a zero Task.
func (c *Client) UpdateTask(ctx context.Context, token, id string, patch service.TaskPatch) (service.Task, error) {
	body, err := c.doJSON(ctx, service.OpUpdateTask, token, http.MethodPatch, taskPath(id), patch)
	if err != nil {
		return service.Task{}, err
	}
	if len(body) == 0 {
		return service.Task{}, nil
	}

	var updated service.Task
	if err := decode(service.OpUpdateTask, payload(body), &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// DeleteTask deletes the task with the given id. Any 2xx answer succeeds.
func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	_, err := c.doJSON(ctx, service.OpDeleteTask, token, http.MethodDelete, taskPath(id), nil)
	return err
}

func taskPath(id string) string {
	return "/todos/" + url.PathEscape(id)
}

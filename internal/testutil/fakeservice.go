// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"

	"phototask/internal/service"
)

// FakeToken is the token accepted by a FakeService unless Token is changed.
const FakeToken = "fake-token"

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	users  map[string]fakeUser
	nextID int

	// Token is the bearer token accepted by task and image calls.
	// Other tokens get a 401 answer.
	Token string

	// Error injection for testing
	ListTasksErr   error
	CreateTaskErr  error
	UpdateTaskErr  error
	DeleteTaskErr  error
	UploadImageErr error
	LoginErr       error

	// UploadURL overrides the URL returned by UploadImage.
	UploadURL string

	// BeforeUpdate and BeforeDelete run at the start of the respective
	// call, before errors are injected.
	BeforeUpdate func(id string)
	BeforeDelete func(id string)

	// Calls counts invocations per method name.
	Calls map[string]int

	// Created records every NewTask received by CreateTask.
	Created []service.NewTask

	// Patches records every TaskPatch received by UpdateTask.
	Patches []service.TaskPatch

	// Uploaded records every path received by UploadImage.
	Uploaded []string
}

type fakeUser struct {
	name     string
	password string
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService accepting FakeToken.
func NewFakeService() *FakeService {
	return &FakeService{
		Token: FakeToken,
		users: make(map[string]fakeUser),
		Calls: make(map[string]int),
	}
}

// AddUser registers an account for Login.
func (f *FakeService) AddUser(email, name, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{name: name, password: password}
}

// AddTask appends a task to the backend list.
func (f *FakeService) AddTask(id, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:        id,
		Title:     title,
		Completed: completed,
		PhotoURI:  "https://cdn.example.com/" + id + ".jpg",
		CreatedAt: "2024-01-02T15:04:05Z",
	})
}

// Tasks returns a copy of the backend list.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

// CallCount returns the number of calls to method.
func (f *FakeService) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[method]
}

// record counts a call and checks the token. Must be called with f.mu held.
func (f *FakeService) record(method string, op service.Op, token string) error {
	f.Calls[method]++
	if token != f.Token {
		return service.StatusError(op, http.StatusUnauthorized, []byte(`{"message":"invalid or expired token"}`))
	}
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListTasks", service.OpListTasks, token); err != nil {
		return nil, err
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return append([]service.Task{}, f.tasks...), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, token string, task service.NewTask) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTask", service.OpCreateTask, token); err != nil {
		return service.Task{}, err
	}
	f.Created = append(f.Created, task)
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	f.nextID++
	created := service.Task{
		ID:        fmt.Sprintf("new-%d", f.nextID),
		Title:     task.Title,
		Completed: task.Completed,
		PhotoURI:  task.PhotoURI,
		Location:  task.Location,
		UserEmail: "ana@example.com",
		CreatedAt: "2024-01-02T15:04:05Z",
	}
	f.tasks = append([]service.Task{created}, f.tasks...)
	return created, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, token, id string, patch service.TaskPatch) (service.Task, error) {
	if f.BeforeUpdate != nil {
		f.BeforeUpdate(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateTask", service.OpUpdateTask, token); err != nil {
		return service.Task{}, err
	}
	f.Patches = append(f.Patches, patch)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}

	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.tasks[i].Title = *patch.Title
		}
		if patch.Completed != nil {
			f.tasks[i].Completed = *patch.Completed
		}
		return f.tasks[i], nil
	}
	return service.Task{}, service.StatusError(service.OpUpdateTask, http.StatusNotFound, []byte(`{"message":"task not found"}`))
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, token, id string) error {
	if f.BeforeDelete != nil {
		f.BeforeDelete(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteTask", service.OpDeleteTask, token); err != nil {
		return err
	}
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.StatusError(service.OpDeleteTask, http.StatusNotFound, []byte(`{"message":"task not found"}`))
}

// UploadImage implements service.Service.
func (f *FakeService) UploadImage(ctx context.Context, token, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UploadImage", service.OpUploadImage, token); err != nil {
		return "", err
	}
	f.Uploaded = append(f.Uploaded, localPath)
	if f.UploadImageErr != nil {
		return "", f.UploadImageErr
	}
	if f.UploadURL != "" {
		return f.UploadURL, nil
	}
	return "https://cdn.example.com/uploads/" + filepath.Base(localPath), nil
}

// Login implements service.Service.
// The returned token is Token, so the session works with the other calls.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls["Login"]++
	if f.LoginErr != nil {
		return service.AuthResult{}, f.LoginErr
	}
	u, ok := f.users[creds.Email]
	if !ok || u.password != creds.Password {
		return service.AuthResult{}, service.StatusError(service.OpLogin, http.StatusUnauthorized, []byte(`{"message":"invalid email or password"}`))
	}
	return service.AuthResult{
		Token: f.Token,
		User:  service.User{Email: creds.Email, Name: u.name},
	}, nil
}

// FakeSession is a session source holding a token in memory.
type FakeSession struct {
	mu       sync.Mutex
	token    string
	SignOuts int
}

// NewFakeSession returns a session holding token.
func NewFakeSession(token string) *FakeSession {
	return &FakeSession{token: token}
}

// Token returns the current token, or "" after SignOut.
func (s *FakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SignOut drops the token.
func (s *FakeSession) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.SignOuts++
	return nil
}

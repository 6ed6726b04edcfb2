package service

import "context"

// TaskGateway performs CRUD calls for task records.
// Every call takes the bearer token of the current session.
type TaskGateway interface {
	// ListTasks returns all tasks of the token's owner in backend order.
	ListTasks(ctx context.Context, token string) ([]Task, error)

	// CreateTask creates a task and returns the stored record.
	CreateTask(ctx context.Context, token string, task NewTask) (Task, error)

	// UpdateTask sends a partial update and returns the stored record.
	UpdateTask(ctx context.Context, token, id string, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, token, id string) error
}

// ImageGateway uploads photos.
type ImageGateway interface {
	// UploadImage uploads the file at localPath and returns its public URL.
	UploadImage(ctx context.Context, token, localPath string) (string, error)
}

// AuthGateway exchanges credentials for a session token.
type AuthGateway interface {
	Login(ctx context.Context, creds Credentials) (AuthResult, error)
}

// Service is the full backend surface used by commands.
// Commands never talk HTTP directly.
type Service interface {
	TaskGateway
	ImageGateway
	AuthGateway
}

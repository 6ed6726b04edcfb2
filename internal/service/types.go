// Package service defines the backend-agnostic types and gateway interfaces
// for task operations.
package service

import "time"

// Location is a GPS coordinate pair attached to a task at creation time.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Task represents a single illustrated task record.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	PhotoURI  string    `json:"photoUri"`
	Location  *Location `json:"location,omitempty"`
	UserEmail string    `json:"userEmail"`
	CreatedAt string    `json:"createdAt"`
}

// CreatedTime parses CreatedAt as RFC 3339.
// Returns the zero time if the backend sent something else.
func (t Task) CreatedTime() time.Time {
	ts, err := time.Parse(time.RFC3339, t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// NewTask is the body of a task creation request.
type NewTask struct {
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Location  *Location `json:"location"`
	PhotoURI  string    `json:"photoUri"`
}

// TaskPatch is a partial task update. Only non-nil fields are sent.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// User identifies the account a session belongs to.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

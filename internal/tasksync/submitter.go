package tasksync

import (
	"context"
	"log/slog"
	"strings"

	"phototask/internal/location"
	"phototask/internal/logging"
	"phototask/internal/service"
)

// Submitter runs the add-task flow: validate, locate, upload, create.
type Submitter struct {
	Tasks    *Controller
	Images   *Uploader
	Location location.Provider
	Log      *slog.Logger
}

// Submit creates a task titled title with the photo at photoPath.
// Validation failures return before any network call. The task is only
// created once the upload has produced a URL.
func (s *Submitter) Submit(ctx context.Context, title, photoPath string) (service.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return service.Task{}, service.ValidationError("task title is required")
	}
	if strings.TrimSpace(photoPath) == "" {
		return service.Task{}, service.ValidationError("a photo is required")
	}

	loc, err := location.Acquire(ctx, s.Location, logging.OrDiscard(s.Log))
	if err != nil {
		return service.Task{}, err
	}

	url, err := s.Images.Upload(ctx, photoPath)
	if err != nil {
		return service.Task{}, err
	}

	return s.Tasks.Create(ctx, title, url, &loc)
}

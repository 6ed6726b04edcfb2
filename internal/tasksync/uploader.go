package tasksync

import (
	"context"
	"log/slog"
	"sync"

	"phototask/internal/logging"
	"phototask/internal/service"
)

// Uploader sends local photos to the image gateway and tracks the
// in-flight upload.
type Uploader struct {
	gw   service.ImageGateway
	sess SessionSource
	log  *slog.Logger

	mu        sync.Mutex
	uploading bool
	errMsg    string
}

// NewUploader creates an Uploader.
func NewUploader(gw service.ImageGateway, sess SessionSource, log *slog.Logger) *Uploader {
	return &Uploader{gw: gw, sess: sess, log: logging.OrDiscard(log)}
}

// Uploading reports whether an upload is in flight.
func (u *Uploader) Uploading() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uploading
}

// Err returns the message of the last failed upload, or "".
func (u *Uploader) Err() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.errMsg
}

// Upload sends the photo at path and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, path string) (string, error) {
	token := u.sess.Token()
	if token == "" {
		return "", ErrNotSignedIn
	}

	u.mu.Lock()
	u.uploading = true
	u.errMsg = ""
	u.mu.Unlock()

	url, err := u.gw.UploadImage(ctx, token, path)

	u.mu.Lock()
	u.uploading = false
	if err != nil {
		u.errMsg = uploadMessage(err)
	}
	u.mu.Unlock()

	if err != nil {
		u.log.Error("upload failed", "path", path, "error", err, "status", service.StatusOf(err))
		if service.IsAuthorization(err) {
			signOut(u.sess, u.log)
		}
		return "", err
	}
	u.log.Debug("uploaded image", "path", path, "url", url)
	return url, nil
}

func uploadMessage(err error) string {
	switch {
	case service.IsAuthorization(err):
		return SessionExpiredMessage
	case service.KindOf(err) == service.KindServer:
		return "server error while uploading the image"
	case err.Error() != "":
		return err.Error()
	default:
		return "failed to upload the image"
	}
}

package commands

import (
	"errors"
	"fmt"
	"io"

	"phototask/internal/capture"
	"phototask/internal/exitcode"
	"phototask/internal/location"
	"phototask/internal/tasksync"
)

// report prints err and returns the matching exit code.
// msg, when set, replaces the error text (controller messages).
func report(errOut io.Writer, err error, msg string) int {
	if msg == "" {
		msg = err.Error()
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return codeFor(err)
}

func codeFor(err error) int {
	if code, ok := exitcode.ForService(err); ok {
		return code
	}
	var refErr *RefError
	switch {
	case errors.Is(err, tasksync.ErrNotSignedIn):
		return exitcode.AuthError
	case errors.As(err, &refErr),
		errors.Is(err, ErrTaskRefRequired),
		errors.Is(err, location.ErrPermissionDenied),
		errors.Is(err, location.ErrServicesDisabled),
		errors.Is(err, capture.ErrPermissionDenied),
		errors.Is(err, capture.ErrCanceled):
		return exitcode.UserError
	}
	// Local failures such as unreadable photos.
	return exitcode.UserError
}

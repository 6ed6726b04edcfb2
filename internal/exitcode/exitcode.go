// Package exitcode defines exit codes for the CLI and maps backend errors
// onto them.
package exitcode

import "phototask/internal/service"

// Exit codes returned by the CLI.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, invalid input).
	UserError = 1

	// AuthError indicates a missing, expired or rejected session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// ForService returns the exit code for an error produced by a gateway.
// Authorization failures are AuthError, validation failures UserError and
// every other backend kind BackendError. ok is false when err carries no
// service kind.
func ForService(err error) (code int, ok bool) {
	switch service.KindOf(err) {
	case service.KindAuthorization:
		return AuthError, true
	case service.KindValidation:
		return UserError, true
	case service.KindServer, service.KindRequest, service.KindNetwork, service.KindUnexpectedResponse:
		return BackendError, true
	}
	return Success, false
}

// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"voicetasks/internal/credentials"
	"voicetasks/internal/service"
)

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, bad flag values).
	UserError = 1

	// AuthError indicates a missing or malformed credential or OAuth failure.
	AuthError = 2

	// BackendError indicates a task API, token refresh or network error.
	BackendError = 3
)

// FromError maps a command error to its exit code.
func FromError(err error) int {
	var cfgErr *credentials.ConfigError
	var remoteErr *service.RemoteError
	switch {
	case err == nil:
		return Success
	case errors.As(err, &cfgErr):
		return AuthError
	case errors.As(err, &remoteErr):
		return BackendError
	default:
		return UserError
	}
}

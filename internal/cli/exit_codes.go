package cli

import apperrors "github.com/typhoonworks/claude-config/internal/errors"

// Exit codes for the claude-config CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the install or another operation failed
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if cliErr := apperrors.AsCLIError(err); cliErr != nil && cliErr.Category == apperrors.Argument {
		return ExitInvalidArguments
	}
	return ExitFailure
}

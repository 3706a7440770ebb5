package workflow

import (
	"context"
	"errors"
)

// Exit codes returned by the azimage binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// Sentinel errors describing why a browse run stopped. Callers wrap them
// with context using %w and map them to exit codes with ExitCode.
var (
	// ErrPrerequisiteMissing indicates az is absent, too old, or not signed in.
	ErrPrerequisiteMissing = errors.New("prerequisite missing")

	// ErrFetchFailed indicates an az command failed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrEmptyResult indicates a required stage returned no items.
	ErrEmptyResult = errors.New("no results")

	// ErrUserCancelled indicates the user quit a selection.
	ErrUserCancelled = errors.New("cancelled by user")
)

// ExitCode maps an error returned by Driver.Run to a process exit code.
// A user cancel is a graceful exit; an interrupt uses the shell convention
// 128+SIGINT.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUserCancelled):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors leaving the command layer. Hosts route on
// these codes rather than matching message strings.
const (
	codeValidationFailed = "COMMAND_VALIDATION_FAILED"
	codeContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	codeContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	codeContextError     = "COMMAND_CONTEXT_ERROR"
	codeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
)

// wrapValidationError tags message validation failures so dispatchers can
// tell a malformed lifecycle request apart from an execution fault. Errors
// already carrying go-errors metadata pass through untouched.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "lifecycle command rejected by validation").
		WithTextCode(codeValidationFailed)
}

// wrapContextError classifies context failures observed around a handler run.
// Cancellation and deadline expiry get distinct codes so a sweep scheduler
// can tell an operator abort from a slow storage backend.
func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "lifecycle command canceled").
			WithTextCode(codeContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "lifecycle command deadline exceeded").
			WithTextCode(codeContextTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "lifecycle command context failure").
			WithTextCode(codeContextError)
	}
}

// wrapExecuteError covers faults raised by the handler body itself, typically
// page service errors that arrive unwrapped.
func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "lifecycle command failed").
		WithTextCode(codeExecutionFailed)
}

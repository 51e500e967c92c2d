package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidation    = "ACTION_VALIDATION_FAILED"
	codeCanceled      = "ACTION_CONTEXT_CANCELED"
	codeTimeout       = "ACTION_CONTEXT_TIMEOUT"
	codeContextError  = "ACTION_CONTEXT_ERROR"
	codeExecuteFailed = "ACTION_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "action validation failed").
		WithTextCode(codeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "action cancelled").
			WithTextCode(codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "action deadline exceeded").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "action context error").
			WithTextCode(codeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "action execution failed").
		WithTextCode(codeExecuteFailed)
}

// IsValidation reports whether err was raised while validating an action.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

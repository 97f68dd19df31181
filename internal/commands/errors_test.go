package commands

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func textCodeOf(t *testing.T, err error) string {
	t.Helper()

	var gerr *goerrors.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected a wrapped error, got %v", err)
	}
	return gerr.TextCode
}

func TestWrapValidationErrorTagsCode(t *testing.T) {
	err := wrapValidationError(errors.New("slug required"))
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if code := textCodeOf(t, err); code != codeValidationFailed {
		t.Fatalf("expected %s, got %s", codeValidationFailed, code)
	}
}

func TestWrapContextErrorClassifiesCause(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"canceled", context.Canceled, codeContextCanceled},
		{"deadline", context.DeadlineExceeded, codeContextTimeout},
		{"other", errors.New("context poisoned"), codeContextError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := wrapContextError(tc.err)
			if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
				t.Fatalf("expected command category, got %v", err)
			}
			if code := textCodeOf(t, err); code != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, code)
			}
		})
	}
}

func TestWrapExecuteErrorPassesThroughWrapped(t *testing.T) {
	already := goerrors.New("storage unavailable", goerrors.CategoryCommand)
	if got := wrapExecuteError(already); got != error(already) {
		t.Fatalf("expected wrapped error to pass through, got %v", got)
	}

	err := wrapExecuteError(errors.New("boom"))
	if code := textCodeOf(t, err); code != codeExecutionFailed {
		t.Fatalf("expected %s, got %s", codeExecutionFailed, code)
	}
}

// Package errs implements goslice's error taxonomy and user-visible
// error-string translation, wrapping github.com/cockroachdb/errors
// sentinel values rather than hand-rolling a parallel error type
// hierarchy.
package errs

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors, one per distinct failure kind the pipeline can hit.
// Wrap these with errors.Wrap/Wrapf to add context while preserving
// Is()-checkability.
var (
	// ErrNotFound: the entry point does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput: the entry-point variant is not function or method.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDependencyNotFound: a lookup during synthesis yielded no result.
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrUnsupported: a type or construct the synthesizer does not know
	// how to emit.
	ErrUnsupported = errors.New("unsupported")

	// ErrUnexpectedDependency: a closure-time invariant violation,
	// treated as a bug.
	ErrUnexpectedDependency = errors.New("unexpected dependency")
)

// NotFound wraps ErrNotFound with context.
func NotFound(format string, args ...any) error {
	return errors.WithStack(errors.Wrapf(ErrNotFound, format, args...))
}

// InvalidInput wraps ErrInvalidInput with context.
func InvalidInput(format string, args ...any) error {
	return errors.WithStack(errors.Wrapf(ErrInvalidInput, format, args...))
}

// DependencyNotFound wraps ErrDependencyNotFound with a description of
// the missing dependency.
func DependencyNotFound(desc string) error {
	return errors.WithStack(errors.Wrapf(ErrDependencyNotFound, "%s", desc))
}

// Unsupported wraps ErrUnsupported with context.
func Unsupported(format string, args ...any) error {
	return errors.WithStack(errors.Wrapf(ErrUnsupported, format, args...))
}

// UnexpectedDependency wraps ErrUnexpectedDependency with context. It
// is reserved for closure-time invariant violations a correct caller
// should never trigger.
func UnexpectedDependency(format string, args ...any) error {
	return errors.WithStack(errors.Wrapf(ErrUnexpectedDependency, format, args...))
}

// Translate maps an error produced anywhere in the extraction pipeline
// to a user-visible string. It is the single place that decides what a
// caller (the CLI, a test) ever sees.
func Translate(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Not found!"
	case errors.Is(err, ErrInvalidInput):
		return "Unrecognized input. Expected: fully qualified function name or [fully qualified type name].[method_name]"
	case errors.Is(err, ErrDependencyNotFound):
		return fmt.Sprintf("Dependency not found: %s", stripSentinelSuffix(err))
	case errors.Is(err, ErrUnsupported):
		return withStack(err)
	case errors.Is(err, ErrUnexpectedDependency):
		return withStack(err)
	default:
		return withStack(err)
	}
}

// stripSentinelSuffix removes the ": dependency not found" suffix
// cockroachdb/errors' Wrapf appends after the caller-supplied message,
// leaving just the caller-supplied description.
func stripSentinelSuffix(err error) string {
	msg := err.Error()
	const suffix = ": dependency not found"
	if strings.HasSuffix(msg, suffix) {
		return msg[:len(msg)-len(suffix)]
	}
	return msg
}

// withStack renders an error plus its captured stack trace; Unsupported
// and UnexpectedDependency additionally surface a stack trace to aid
// debugging.
func withStack(err error) string {
	stack := errors.GetReportableStackTrace(err)
	if stack == nil {
		return err.Error()
	}
	return fmt.Sprintf("%s\n%+v", err.Error(), stack)
}

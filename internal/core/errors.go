package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ErrorKind classifies terminal resolve failures.
type ErrorKind string

const (
	KindNone                 ErrorKind = ""
	KindNonExistentReference ErrorKind = "non-existent-reference"
	KindInvalidPatternSyntax ErrorKind = "invalid-pattern-syntax"
	KindResolutionFailure    ErrorKind = "resolution-failure"
	KindInterrupted          ErrorKind = "interrupted"
	KindUnknown              ErrorKind = "unknown"
)

// KindOf maps an error returned by the evaluator to its kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeNotFound:
		return KindNonExistentReference
	case errbuilder.CodeInvalidArgument:
		return KindInvalidPatternSyntax
	case errbuilder.CodeFailedPrecondition:
		return KindResolutionFailure
	case errbuilder.CodeCanceled:
		return KindInterrupted
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindInterrupted
	}
	return KindUnknown
}

func nonExistentReference(pattern string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("%s references non-existing file", pattern))
}

func invalidPatternSyntax(key string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid target pattern %s", key)).
		WithCause(cause)
}

func resolutionFailure(msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

func interrupted(cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeCanceled).
		WithMsg("target pattern resolution interrupted").
		WithCause(cause)
}

// isInterruption reports whether err came from cooperative cancellation.
func isInterruption(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a stage failure for clients and the registry.
type ErrorKind string

const (
	ErrKindInvalidInput ErrorKind = "invalid_input"
	ErrKindGeneration   ErrorKind = "generation"
	ErrKindAssembly     ErrorKind = "assembly"
	ErrKindTimeout      ErrorKind = "timeout"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrArtifactNotFound = errors.New("artifact not found")
)

// KindError tags an error with its classification. Stage executors return
// KindErrors; the orchestrator attributes them to the stage in flight.
type KindError struct {
	Kind ErrorKind
	Err  error
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *KindError) Unwrap() error {
	return e.Err
}

func NewInvalidInputError(format string, args ...interface{}) error {
	return &KindError{Kind: ErrKindInvalidInput, Err: fmt.Errorf(format, args...)}
}

func NewGenerationError(err error) error {
	return &KindError{Kind: ErrKindGeneration, Err: err}
}

func NewAssemblyError(format string, args ...interface{}) error {
	return &KindError{Kind: ErrKindAssembly, Err: fmt.Errorf(format, args...)}
}

func NewTimeoutError(err error) error {
	return &KindError{Kind: ErrKindTimeout, Err: err}
}

// KindOf extracts the classification of err, defaulting to generation for
// untagged provider failures.
func KindOf(err error) ErrorKind {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return ErrKindGeneration
}

// pkg/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError indicates a path or resource is absent.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// IOError indicates a read, hash, or move failure against a path that exists.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// UnavailableError indicates an external collaborator (process, network, or
// metrics listing) could not be queried at all.
type UnavailableError struct {
	Source string
	Cause  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// OperationalError wraps a fault caught inside a monitoring cycle. It is
// logged at the loop boundary and never propagated to callers.
type OperationalError struct {
	Stage     string
	Timestamp time.Time
	Cause     error
}

func (e *OperationalError) Error() string {
	return fmt.Sprintf("monitoring fault in %s: %v", e.Stage, e.Cause)
}

func (e *OperationalError) Unwrap() error {
	return e.Cause
}

// Constructor helpers.

func NewNotFound(path string) *NotFoundError {
	return &NotFoundError{Path: path}
}

func NewIO(op, path string, cause error) *IOError {
	return &IOError{Op: op, Path: path, Cause: cause}
}

func NewUnavailable(source string, cause error) *UnavailableError {
	return &UnavailableError{Source: source, Cause: cause}
}

func NewOperational(stage string, cause error) *OperationalError {
	return &OperationalError{Stage: stage, Timestamp: time.Now(), Cause: cause}
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsIO reports whether err is or wraps an IOError.
func IsIO(err error) bool {
	var io *IOError
	return errors.As(err, &io)
}

// IsUnavailable reports whether err is or wraps an UnavailableError.
func IsUnavailable(err error) bool {
	var ua *UnavailableError
	return errors.As(err, &ua)
}

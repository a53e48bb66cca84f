package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. An OpError matches the sentinel
// of its Kind with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyExists = errors.New("already exists")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	// KindNotFound: an input directory, database or project is missing.
	KindNotFound ErrorKind = "not_found"
	// KindInvalidConfig: a config.yaml that cannot be parsed or mapped.
	KindInvalidConfig ErrorKind = "invalid_config"
	// KindInvalidInput: the command line does not describe usable input
	// data, such as a missing --input-directory or a malformed pattern.
	KindInvalidInput ErrorKind = "invalid_input"
	// KindAlreadyExists: the working directory is in the way.
	KindAlreadyExists ErrorKind = "already_exists"
	KindExecution     ErrorKind = "execution"
)

var kindSentinels = map[ErrorKind]error{
	KindNotFound:      ErrNotFound,
	KindInvalidConfig: ErrInvalidConfig,
	KindInvalidInput:  ErrInvalidInput,
	KindAlreadyExists: ErrAlreadyExists,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the sentinel of e.Kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

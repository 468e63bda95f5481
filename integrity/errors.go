package integrity

import (
	"errors"
	"fmt"
)

var (
	ErrIo                = errors.New("io error")
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)

// IoError describes a filesystem operation that failed on a specific path.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() []error {
	return []error{ErrIo, e.Err}
}

func ioErr(op string, path string, err error) error {
	return &IoError{Op: op, Path: path, Err: err}
}

// MismatchError reports content whose digest differs from the expected one.
type MismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s %s, got %s", e.Path, Algorithm, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return ErrIntegrityMismatch
}

// RepairError stops a repair or resync pass. Work done before it is kept.
type RepairError struct {
	Done  int
	Total int
	Path  string
	Err   error
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("repair stopped at %s after %d of %d: %v", e.Path, e.Done, e.Total, e.Err)
}

func (e *RepairError) Unwrap() error {
	return e.Err
}

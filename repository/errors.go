package repository

import (
	"errors"
	"fmt"
)

var ErrNetwork = errors.New("network error")

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	Url        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status error: %v (%s)", e.StatusCode, e.Url)
}

func (e *StatusError) Unwrap() error {
	return ErrNetwork
}

func networkErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = fmt.Errorf("%w: name already registered", ErrInvalidName)
	ErrDuplicateID   = errors.New("player id already registered")
	ErrNotFound      = errors.New("not found")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrInvalidMatch  = errors.New("invalid match")
)

// StorageError reports a failed persistence call. The in-memory league is left
// as it was before the call.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by KV.Get when the key has never been set or was removed.
var ErrNotFound = errors.New("key not found")

// StorageError reports a failed persistence operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}

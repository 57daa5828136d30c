package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSongNotFound       = errors.New("song not found")
	ErrDuplicateSong      = errors.New("song already present")
	ErrValidation         = errors.New("invalid request")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SongError carries a client-facing message and the kind used to pick a status code.
type SongError struct {
	Kind    error
	Message string
	Err     error
}

func (e *SongError) Error() string {
	return e.Message
}

func (e *SongError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NotFound(format string, args ...interface{}) error {
	return &SongError{Kind: ErrSongNotFound, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...interface{}) error {
	return &SongError{Kind: ErrDuplicateSong, Message: fmt.Sprintf(format, args...)}
}

func Invalid(message string) error {
	return &SongError{Kind: ErrValidation, Message: message}
}

// Unavailable marks err as a storage connectivity failure.
func Unavailable(err error) error {
	return &SongError{Kind: ErrStorageUnavailable, Message: err.Error(), Err: err}
}

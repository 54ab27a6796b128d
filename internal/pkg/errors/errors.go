package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalid     = errors.New("invalid")
	ErrBlobMissing = errors.New("file not found")
	ErrDelete      = errors.New("delete failed")
	ErrPersistence = errors.New("persistence failed")
	ErrTooMany     = errors.New("too many requests")
	ErrInternal    = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsBlobMissing(err error) bool {
	return errors.Is(err, ErrBlobMissing)
}

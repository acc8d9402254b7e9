package errors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid")
	ErrConflict        = errors.New("conflict")
	ErrTooMany         = errors.New("too many requests")
	ErrInternal        = errors.New("internal")
	ErrInvalidURL      = errors.New("invalid youtube url")
	ErrVideoNotFound   = errors.New("video not found")
	ErrNoContent       = errors.New("no relevant content found")
	ErrNoCaptions      = errors.New("no captions available")
	ErrEmptyTranscript = errors.New("empty transcript")
	ErrIngestionFailed = errors.New("no chunks could be stored")
	ErrAIUnavailable   = errors.New("ai provider unavailable")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrVideoNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

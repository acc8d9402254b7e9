package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrConflict
	ErrTooMany
	ErrInternal
	ErrInvalidURL
	ErrVideoNotFound
	ErrNoContent
	ErrNoCaptions
	ErrEmptyTranscript
	ErrIngestionFailed
	ErrAIUnavailable
)

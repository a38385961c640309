package orchestrator

import "errors"

var (
	ErrEmptyInput       = errors.New("request has no non-empty messages")
	ErrMalformedHistory = errors.New("conversation history is malformed")
	ErrModelUnavailable = errors.New("language model unavailable")
	ErrPersistence      = errors.New("conversation store failure")
)

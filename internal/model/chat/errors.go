package chat

import "errors"

var (
	// ErrConfiguration marks missing credentials, model identifiers or persona text.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalService marks a failed call to the completion or classification model.
	ErrExternalService = errors.New("external service error")

	ErrSessionNotFound = errors.New("session not found")
	ErrNotStarted      = errors.New("session not started")
	ErrEmptyInput      = errors.New("message text is required")
)

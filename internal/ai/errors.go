package ai

import (
	"errors"
	"net/http"
)

const (
	UnavailableMessage = "Chatbot service is temporarily unavailable."
	unknownError       = "Unknown error"
)

var (
	ErrBodyMissing       = errors.New("Request body is missing.")
	ErrMessagesRequired  = errors.New("messages array is required.")
	ErrNoUserMessages    = errors.New("No user messages found to send.")
	ErrEmptyResponse     = errors.New("Received an empty or invalid response from the AI model.")
	ErrConfiguration     = errors.New("Chatbot backend configuration error.")
	ErrMissingCredential = errors.New("upstream API key is not configured")
)

// UpstreamError is a provider failure with the HTTP status the provider reported.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return unknownError
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StatusOf returns the upstream status attached to err, or 502.
func StatusOf(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Status > 0 {
		return ue.Status
	}
	return http.StatusBadGateway
}

// MessageOf returns the provider's message for err.
func MessageOf(err error) string {
	if err == nil {
		return unknownError
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownError
}

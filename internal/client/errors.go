package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DuplicateMarker is the phrase the backend puts in a duplicate-email message.
const DuplicateMarker = "already exist"

// ErrDuplicateEmail matches, via errors.Is, any TransportError that the
// backend uses to signal a duplicate email.
var ErrDuplicateEmail = errors.New("duplicate email")

// TransportError is the only error type the client returns.
// Status is 0 when no HTTP response was received.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %s", e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Is reports duplicate-email errors as ErrDuplicateEmail.
func (e *TransportError) Is(target error) bool {
	return target == ErrDuplicateEmail && e.duplicate()
}

// duplicate applies the backend's convention: status 400, or a message
// containing DuplicateMarker.
func (e *TransportError) duplicate() bool {
	return e.Status == http.StatusBadRequest || strings.Contains(e.Message, DuplicateMarker)
}

// IsDuplicateEmail reports whether err signals a duplicate email.
func IsDuplicateEmail(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}

// errorMessage extracts the message from an error body. It understands the
// backend envelope ({"error": ...}), Spring-style bodies ({"message": ...})
// and falls back to the raw text or the status text.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

package formspree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingEndpoint = errors.New("formspree: endpoint is not configured")
	// ErrFileUploadsNotPermitted matches APIErrors caused by a plan without file uploads.
	ErrFileUploadsNotPermitted = errors.New("formspree: file uploads not permitted")
)

// APIError is a non-2xx reply from the relay. Err is set when the reply
// body could not be read or decoded.
type APIError struct {
	Message string
	Codes   []string
	Status  int
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("formspree: status %d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("formspree: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFileUploadsNotPermitted) detect upload refusals,
// which the relay reports either as a code or only in the message text.
func (e *APIError) Is(target error) bool {
	if target != ErrFileUploadsNotPermitted {
		return false
	}
	for _, code := range e.Codes {
		if strings.Contains(strings.ToUpper(code), "FILE") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.Message), "file")
}

package constants

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"
)

var (
	ErrNoFileSelected    = errors.New("No file selected")
	ErrEmptyPlaybackName = errors.New("Empty movie name")
	ErrListFailed        = errors.New("Failed to load movie list")
)

// TransportError means no response was obtained at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerRejectedError is a response with a non-2xx status.
type ServerRejectedError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("%d %s\n%s", e.StatusCode, e.Status, e.Body)
}

// ListError collapses every listing failure into one kind.
type ListError struct {
	Err error
}

func (e *ListError) Error() string {
	if e.Err == nil {
		return ErrListFailed.Error()
	}
	return ErrListFailed.Error() + ": " + e.Err.Error()
}

func (e *ListError) Unwrap() error { return e.Err }

func (e *ListError) Is(target error) bool { return target == ErrListFailed }

// IsSuccess reports whether status is a 2xx code.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// ParseError maps a response to nil for 2xx and a *ServerRejectedError otherwise.
// reason is the reason phrase from the status line and may be empty.
func ParseError(status int, reason string, body []byte) error {
	if IsSuccess(status) {
		return nil
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = fasthttp.StatusMessage(status)
	}

	return &ServerRejectedError{
		StatusCode: status,
		Status:     reason,
		Body:       string(body),
	}
}

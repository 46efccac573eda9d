package pipeline

import (
	"fmt"
	"net/http"
)

// Kind is the failure taxonomy surfaced to callers.
type Kind string

const (
	KindUnsupportedFormat  Kind = "unsupported_format"
	KindExtractionFailed   Kind = "extraction_failed"
	KindConversionFailed   Kind = "conversion_failed"
	KindServiceUnavailable Kind = "service_unavailable"
	KindStorageFailed      Kind = "storage_failed"
)

// Class separates caller mistakes from failures on our side.
type Class string

const (
	ClassClient Class = "client"
	ClassServer Class = "server"
)

// Error is the terminal failure of a pipeline run.
type Error struct {
	Kind    Kind
	Class   Class
	Stage   State
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus maps the classification to a response status.
func (e *Error) HTTPStatus() int {
	if e != nil && e.Class == ClassClient {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func classOf(k Kind) Class {
	if k == KindUnsupportedFormat {
		return ClassClient
	}
	return ClassServer
}

package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrSummarization = errors.New("summarization error")
	ErrDecode        = errors.New("decode error")
	ErrGeneration    = errors.New("generation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UserFacing reduces a classified error to a short user-visible message.
// Callers at the pipeline boundary turn errors into these instead of letting
// failures escape to the host process.
func UserFacing(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "The submitted record is incomplete or invalid."
	case errors.Is(err, ErrSummarization):
		return "Could not shorten the data. Please edit manually."
	case errors.Is(err, ErrDecode):
		return "The data in the QR code is corrupted or invalid."
	case errors.Is(err, ErrGeneration):
		return "Failed to generate QR code."
	case errors.Is(err, ErrConfiguration):
		return "The service is misconfigured."
	case errors.Is(err, ErrNotFound):
		return "No data was found."
	default:
		return "An unexpected error occurred."
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureReason maps a per-file error to the reason recorded on its failed
// analysis record. The marker label comes first, followed by the detail.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	label := "analysis failed"
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		label = "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrExternalTool):
		label = "external tool"
	case errors.Is(err, ErrNotFound):
		label = "not found"
	case errors.Is(err, ErrValidation):
		label = "invalid input"
	case errors.Is(err, ErrConfiguration):
		label = "configuration"
	}
	msg := strings.TrimSpace(err.Error())
	for _, marker := range []error{ErrTimeout, ErrExternalTool, ErrNotFound, ErrValidation, ErrConfiguration, ErrTransient} {
		msg = strings.TrimPrefix(msg, marker.Error()+": ")
	}
	if msg == "" || msg == label {
		return label
	}
	return label + ": " + msg
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
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

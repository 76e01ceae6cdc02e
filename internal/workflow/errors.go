package workflow

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound             = errors.New("workflow: not found")
	ErrForbidden            = errors.New("workflow: forbidden")
	ErrDuplicateApplication = errors.New("workflow: duplicate application")
	ErrInvalidTransition    = errors.New("workflow: invalid status transition")
	ErrValidationFailed     = errors.New("workflow: validation failed")
)

// ValidationError lists the offending fields of a rejected input. It matches
// ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

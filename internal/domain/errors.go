package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	// ErrProductNotFound indicates that no product has the requested ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductConflict indicates that another product already uses the name.
	ErrProductConflict = errors.New("product with this name already exists")

	// ErrMissingUserID indicates a rate-limited action without a user identity.
	ErrMissingUserID = errors.New("user id is required")
)

// QuotaExceededError is returned when a user ran out of actions in the
// current window.
type QuotaExceededError struct {
	Max        int64
	RetryAfter time.Duration
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("You have exceeded the allowed number of actions, max: %d", e.Max)
}

// ValidationError carries per-field messages for a malformed request.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

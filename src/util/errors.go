package util

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// NonFieldErrors is the key used for errors that concern the request as a
// whole rather than a single field (e.g. source == destination).
const NonFieldErrors = "non_field_errors"

// ValidationError collects field-keyed validation messages. It is built up
// before any write is attempted; a non-empty error aborts the request.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) AddNonField(message string) *ValidationError {
	return e.Add(NonFieldErrors, message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k + ": " + strings.Join(e.Fields[k], ", "))
	}
	return b.String()
}

// WriteValidationError renders a 400 with the field-keyed error body.
func WriteValidationError(w http.ResponseWriter, e *ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{"errors": e.Fields})
}

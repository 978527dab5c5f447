// Package server provides the HTTP API for translating JavaScript and
// exporting Xcode project archives.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/swiftblocks/internal/export"
	"github.com/jonathan/swiftblocks/internal/schemas"
	"github.com/jonathan/swiftblocks/internal/store"
)

// ErrBadRequest indicates a request that could not be read
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// ErrExportNotFound indicates an unknown export ID
type ErrExportNotFound struct {
	ID string
}

func (e *ErrExportNotFound) Error() string {
	return fmt.Sprintf("export not found: %s", e.ID)
}

func (e *ErrExportNotFound) Unwrap() error {
	return store.ErrNotFound
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		invalid    *export.ValidationError
		schemaErr  *schemas.ValidationError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &invalid), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrEmptyBody):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorFields lists the offending fields of a validation error.
func errorFields(err error) []string {
	var invalid *export.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Fields
	}
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		fields := make([]string, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			fields = append(fields, fe.Field+": "+fe.Message)
		}
		return fields
	}
	return nil
}

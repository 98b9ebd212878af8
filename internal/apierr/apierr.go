// Package apierr defines the closed set of errors the API reports to clients.
// Errors are constructed at the point of failure and translated into the wire
// envelope by the error middleware; From is the only place foreign error
// shapes (database driver errors, sql sentinels) are mapped into the set.
package apierr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Kind identifies the failure origin.
type Kind string

const (
	KindConfig       Kind = "configuration"
	KindUnauthorized Kind = "unauthorized"
	KindBadRequest   Kind = "bad_request"
	KindUpstream     Kind = "upstream"
	KindParse        Kind = "parse"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnknown      Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Details carries diagnostic payloads (raw upstream bodies, raw model
	// output, violated constraint names). Always non-nil so the envelope
	// serializes as [] rather than null.
	Details []any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Config reports missing or unusable provider credentials.
func Config(message string) *Error {
	return &Error{Kind: KindConfig, Status: 500, Message: message, Details: []any{}}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: 401, Message: message, Details: []any{}}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Status: 400, Message: message, Details: []any{}}
}

// Upstream reports a failed HTTP call to an external collaborator. The
// upstream status is forwarded and the raw body retained for diagnostics.
func Upstream(status int, body string) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  status,
		Message: fmt.Sprintf("Gemini API error: %s", body),
		Details: []any{},
	}
}

// Parse reports model output that no JSON object could be recovered from.
// The raw text rides along so the failure can be diagnosed after the fact.
func Parse(raw string) *Error {
	return &Error{
		Kind:    KindParse,
		Status:  500,
		Message: "Could not parse JSON from Gemini response",
		Details: []any{map[string]string{"raw": raw}},
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: 404, Message: message, Details: []any{}}
}

func Conflict(message string, details ...any) *Error {
	if details == nil {
		details = []any{}
	}
	return &Error{Kind: KindConflict, Status: 409, Message: message, Details: details}
}

func Internal(message string) *Error {
	return &Error{Kind: KindUnknown, Status: 500, Message: message, Details: []any{}}
}

// From translates any error into the closed set. Errors already in the set
// pass through untouched; known persistence failures are categorized;
// everything else becomes an unknown 500.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return Conflict("Duplicate record", map[string]string{"constraint": pqErr.Constraint})
		case "23503": // foreign_key_violation
			return Conflict("Record is referenced by other data", map[string]string{"constraint": pqErr.Constraint})
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("Record not found")
	}

	e := Internal("Internal server error")
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

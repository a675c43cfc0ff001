// Package httperr maps service errors onto the API's JSON error
// surface.
//
// The taxonomy is deliberate about what it reveals: authentication
// failures stay uninformative (unknown login ID and wrong password are
// indistinguishable), and persistence failures never leak internal
// detail to the caller.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// KindValidation is missing or malformed input (400).
	KindValidation Kind = iota
	// KindConflict is a uniqueness violation (409).
	KindConflict
	// KindAuth is bad credentials or an invalid/expired token (401).
	KindAuth
	// KindForbidden is an authenticated caller without permission (403).
	KindForbidden
	// KindNotFound is a missing or soft-deleted record (404).
	KindNotFound
	// KindUpstream is a failure in an external collaborator (502).
	KindUpstream
	// KindInternal is everything else (500); detail is logged, not returned.
	KindInternal
)

// Error is a classified error carrying the caller-visible message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, logged but never serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Constructors for each taxonomy entry.

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// Status returns the HTTP status code for a kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errBody struct {
	Message string `json:"message"`
}

// Write renders err as a JSON error response. Unclassified errors are
// treated as internal: logged with full detail, returned as a generic
// 500 body.
func Write(w http.ResponseWriter, log *zap.Logger, err error) {
	var he *Error
	if !errors.As(err, &he) {
		he = Internal(err)
	}
	if he.Kind == KindInternal || he.Kind == KindUpstream {
		if log != nil {
			log.Error(he.Message, zap.Error(he.Err))
		}
	}
	JSON(w, he.Kind.Status(), errBody{Message: he.Message})
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// maxBodyBytes caps request bodies; the original service allowed 10 MB.
const maxBodyBytes = 10 << 20

// Decode reads a JSON request body into dst, returning a validation
// error on malformed input.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return Validation("invalid request body")
	}
	return nil
}

package server

import (
	"errors"
	"fmt"
	"net/http"
)

type errorKind string

const (
	kindNotFound     errorKind = "not_found"
	kindInvalidState errorKind = "invalid_state"
	kindConflict     errorKind = "conflict"
	kindValidation   errorKind = "validation"
	kindExhausted    errorKind = "exhausted"
)

// gameError is a recoverable, caller-facing outcome. Expected game flow
// (wrong answers, empty opponent lists) is modeled as result values, not
// as gameError.
type gameError struct {
	kind    errorKind
	message string
}

func (e *gameError) Error() string { return e.message }

func errNotFound(format string, args ...any) error {
	return &gameError{kind: kindNotFound, message: fmt.Sprintf(format, args...)}
}

func errInvalidState(format string, args ...any) error {
	return &gameError{kind: kindInvalidState, message: fmt.Sprintf(format, args...)}
}

func errConflict(format string, args ...any) error {
	return &gameError{kind: kindConflict, message: fmt.Sprintf(format, args...)}
}

func errValidation(format string, args ...any) error {
	return &gameError{kind: kindValidation, message: fmt.Sprintf(format, args...)}
}

func errExhausted(format string, args ...any) error {
	return &gameError{kind: kindExhausted, message: fmt.Sprintf(format, args...)}
}

func kindOf(err error) errorKind {
	var gerr *gameError
	if errors.As(err, &gerr) {
		return gerr.kind
	}
	return ""
}

func statusFor(err error) int {
	switch kindOf(err) {
	case kindNotFound:
		return http.StatusNotFound
	case kindValidation:
		return http.StatusBadRequest
	case kindInvalidState, kindConflict, kindExhausted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

package httperr

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/lead-scheduler/internal/domain"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

// ConflictInfo names the lead already holding a slot.
type ConflictInfo struct {
	BusinessName string `json:"businessName"`
	Time         string `json:"time"`
}

type Error struct {
	Kind     Kind
	Code     string
	Message  string
	Conflict *ConflictInfo
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(code, message string) error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(info ConflictInfo) error {
	return &Error{
		Kind:     KindConflict,
		Code:     "slot_already_booked",
		Message:  "Time slot already booked",
		Conflict: &info,
	}
}

// Unavailable reports an optional integration that is not configured.
func Unavailable(code, message string) error {
	return &Error{Kind: KindUnavailable, Code: code, Message: message}
}

func Internal(code string, err error) error {
	return &Error{Kind: KindInternal, Code: code, Message: "Internal server error", Err: err}
}

// asError finds the *Error in err's chain. Domain rule violations become
// validation errors.
func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	var rule *domain.RuleError
	if errors.As(err, &rule) {
		return &Error{Kind: KindValidation, Code: rule.Code, Message: rule.Message, Err: err}, true
	}
	return nil, false
}

// KindOf reports KindInternal for anything that is not an *Error or a
// domain rule violation.
func KindOf(err error) Kind {
	if e, ok := asError(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, code string) bool {
	if e, ok := asError(err); ok {
		return e.Code == code
	}
	return false
}

// Wrap leaves typed errors untouched, turns rule violations into validation
// errors and marks anything else internal.
func Wrap(code string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	if e, ok := asError(err); ok {
		return e
	}
	return Internal(code, err)
}

package domain

import (
	"errors"
	"fmt"
)

// RuleError is a business rule violated by caller input. Code is a stable
// machine-readable key, Message is safe to show.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Invalid(code, message string) error {
	return &RuleError{Code: code, Message: message}
}

// IsRule reports whether err is a RuleError with code; an empty code matches any.
func IsRule(err error, code string) bool {
	var e *RuleError
	if !errors.As(err, &e) {
		return false
	}
	return code == "" || e.Code == code
}

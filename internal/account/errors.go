package account

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateAccount   = errors.New("email or nickname already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrTokenMismatch      = errors.New("verification token mismatch")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// FieldError ties a validation failure to the offending form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed so the caller can
// re-render the form with all of them flagged at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotificationDeliveryError reports a notifier failure during sign-up. The
// surrounding transaction is rolled back, so no account is left behind.
type NotificationDeliveryError struct {
	Email string
	Err   error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver verification mail to %s: %v", e.Email, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error { return e.Err }

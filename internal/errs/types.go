package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type ValidationError struct {
	ErrorMessage
}

// ForbiddenError is returned when the caller's role ranks below a widget's
// minimum role.
type ForbiddenError struct {
	ErrorMessage
}

// ConflictError is returned when a versioned save races another writer.
type ConflictError struct {
	ErrorMessage
	Expected int64
	Actual   int64
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError wraps failures of the upstream OWMS API. Transient
// errors (timeouts, 5xx, 429) map to 503, the rest to 502.
type ExternalServiceError struct {
	ErrorMessage
	Service    string
	StatusCode int
	Transient  bool
	Err        error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewConflictError(expected, actual int64) *ConflictError {
	return &ConflictError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf("preferences changed: expected version %d, found %d", expected, actual)},
		Expected:     expected,
		Actual:       actual,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service string, statusCode int, transient bool, err error) *ExternalServiceError {
	msg := fmt.Sprintf("%s request failed", service)
	if statusCode != 0 {
		msg = fmt.Sprintf("%s responded with status %d", service, statusCode)
	}
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: msg},
		Service:      service,
		StatusCode:   statusCode,
		Transient:    transient,
		Err:          err,
	}
}

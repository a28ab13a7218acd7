package errors

import "fmt"

// Error codes
const (
	ErrCodeLoad         = "LOAD_ERROR"
	ErrCodeMalformed    = "MALFORMED_CARD"
	ErrCodeCardNotFound = "CARD_NOT_FOUND"
	ErrCodeNoActiveCard = "NO_ACTIVE_CARD"
	ErrCodePersist      = "PERSIST_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "CARD_NOT_FOUND", "PERSIST_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewLoadError reports a missing or unparsable lesson source. A failed load
// and an empty deck are different facts; this is never downgraded to an
// empty deck.
func NewLoadError(lessonID string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeLoad,
		Message: fmt.Sprintf("failed to load lesson %q", lessonID),
		Status:  500,
		Err:     err,
	}
}

// NewMalformedCardError reports a single card that has no usable question or
// answer after every known field fallback was tried.
func NewMalformedCardError(cardID string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformed,
		Message: fmt.Sprintf("card %q is malformed: %s", cardID, reason),
		Status:  422,
	}
}

// NewCardNotFoundError reports a grade against an id absent from the deck.
func NewCardNotFoundError(cardID string) *AppError {
	return &AppError{
		Code:    ErrCodeCardNotFound,
		Message: fmt.Sprintf("card not found: %s", cardID),
		Status:  404,
	}
}

// NewNoActiveCardError reports a session operation that needs a current card
// when none is in flight.
func NewNoActiveCardError() *AppError {
	return &AppError{
		Code:    ErrCodeNoActiveCard,
		Message: "no active card in session",
		Status:  409,
	}
}

// NewPersistError reports a failed durable write after grading. The in-memory
// grade has already been applied and must not be rolled back.
func NewPersistError(err error) *AppError {
	return &AppError{
		Code:    ErrCodePersist,
		Message: "failed to persist deck state",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

package domain

// ValidationError is a recoverable client error carrying a field-specific
// message. The HTTP layer renders it verbatim with a 400 status.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError.
func Validation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

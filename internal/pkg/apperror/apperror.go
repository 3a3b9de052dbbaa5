// Package apperror carries an HTTP status alongside an error so handlers can
// map service failures to responses without type switches per domain.
package apperror

// AppError pairs a user-facing message with the status code it should be
// served as. Err, when set, is the internal cause and stays out of responses.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds a bare AppError, typically assigned to a package-level sentinel.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a status and message to an underlying error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

package apperror

import "net/http"

// AppError is rendered by the error middleware as {"ok": false, ...}.
// An empty Message is omitted from the body.
type AppError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Missing []string    `json:"missing,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest carries no message: clients only learn that the submission was rejected
func BadRequest(err error) *AppError {
	return New(http.StatusBadRequest, "", err)
}

func MethodNotAllowed() *AppError {
	return New(http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func UnsupportedMediaType() *AppError {
	return New(http.StatusUnsupportedMediaType, "Invalid content type", nil)
}

func TooManyRequests() *AppError {
	return New(http.StatusTooManyRequests, "Rate limit", nil)
}

// MissingConfig lists the configuration names that could not be resolved
func MissingConfig(missing []string) *AppError {
	e := New(http.StatusInternalServerError, "Missing environment variables", nil)
	e.Missing = missing
	return e
}

// Upstream reflects a provider failure; code defaults to 500 when the provider gave none
func Upstream(code int, message string, details interface{}, err error) *AppError {
	if code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}
	e := New(code, message, err)
	e.Details = details
	return e
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrPaymentRequired = errors.New("payment required")
	ErrUnauthorized    = errors.New("unauthorized")
)

// AppError carries a discriminating name and a message. Kind is one of the
// sentinels above so callers can match with errors.Is.
type AppError struct {
	Name    string
	Message string
	Kind    error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Name
}

func (e *AppError) Unwrap() error { return e.Kind }

func NotFoundError(msg string) *AppError {
	if msg == "" {
		msg = "No result for this search!"
	}
	return &AppError{Name: "NotFoundError", Message: msg, Kind: ErrNotFound}
}

func PaymentRequiredError(msg string) *AppError {
	if msg == "" {
		msg = "Ticket does not grant hotel access"
	}
	return &AppError{Name: "PaymentRequiredError", Message: msg, Kind: ErrPaymentRequired}
}

func UnauthorizedError(msg string) *AppError {
	if msg == "" {
		msg = "You must be signed in to continue"
	}
	return &AppError{Name: "UnauthorizedError", Message: msg, Kind: ErrUnauthorized}
}

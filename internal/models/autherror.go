package models

// ErrorCode classifies an auth failure by the operation that produced it.
type ErrorCode string

const (
	CodeInitError     ErrorCode = "INIT_ERROR"
	CodeLoginError    ErrorCode = "LOGIN_ERROR"
	CodeRegisterError ErrorCode = "REGISTER_ERROR"
	CodeProfileError  ErrorCode = "PROFILE_ERROR"
	CodeLogoutError   ErrorCode = "LOGOUT_ERROR"
)

// AuthError is the error shape attached to the session state and surfaced
// to the presentation layer as a single human-readable message.
type AuthError struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
	Status  int       `json:"status,omitempty"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// NewAuthError wraps err with the given code, falling back to a generic
// message when err is nil.
func NewAuthError(code ErrorCode, err error, fallback string) *AuthError {
	msg := fallback
	if err != nil {
		msg = err.Error()
	}
	return &AuthError{Message: msg, Code: code}
}

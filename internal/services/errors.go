package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map it onto a response status.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a failure with a stable, user-facing message. Err holds the cause
// for logging and is never shown to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the Kind of err, treating anything unclassified as internal.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return msgInternal
}

// Stable user-facing messages.
const (
	msgInternal           = "Internal server error"
	msgEmailRegistered    = "Email already registered"
	msgBadCredentials     = "Incorrect email or password"
	msgCredentials        = "Could not validate credentials"
	msgForgotPassword     = "If an account with that email exists, a password reset link has been sent."
	msgResetExpired       = "Password reset link has expired."
	msgResetInvalid       = "Invalid password reset link."
	msgResetDone          = "Password has been reset successfully."
	msgUserNotFound       = "User not found."
	msgInvalidRefresh     = "Invalid or expired refresh token"
	msgProjectNotFound    = "Project not found or not owned by user"
	msgPortfolioNotFound  = "User portfolio not found"
	msgContactNotFound    = "User to contact not found"
	msgContactNoEmail     = "Target user has no contact email set."
	msgContactSimulated   = "Contact email simulated successfully. In production, this would send an actual email."
	msgImagesOnly         = "Only image files are allowed."
	msgNoImage            = "No profile image to delete."
	msgImageUploaded      = "Profile image uploaded successfully."
	msgProfileAfterUpdate = "User not found after update"
)

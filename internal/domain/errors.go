package domain

import "errors"

// Sentinel errors returned by repositories and services.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateUserName = errors.New("user name already taken")
)

// User error codes carried in mutation payloads.
const (
	CodeTitleEmpty       = "TITLE_EMPTY"
	CodeNameEmpty        = "NAME_EMPTY"
	CodeNoSpeaker        = "NO_SPEAKER"
	CodeSpeakerNotFound  = "SPEAKER_NOT_FOUND"
	CodeEndTimeInvalid   = "END_TIME_INVALID"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeTrackNotFound    = "TRACK_NOT_FOUND"
	CodeAttendeeNotFound = "ATTENDEE_NOT_FOUND"
	CodeUserNameTaken    = "USER_NAME_TAKEN"
)

// UserError is a validation failure reported back to the caller inside a
// mutation payload instead of as a transport fault.
// swagger:model UserError
type UserError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// NewUserError returns a UserError with the given message and code.
func NewUserError(message, code string) UserError {
	return UserError{Message: message, Code: code}
}

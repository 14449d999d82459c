package domain

import "context"

// Attendee represents a registered conference attendee. UserName is globally unique.
// swagger:model Attendee
type Attendee struct {
	ID           int    `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	UserName     string `json:"user_name"`
	EmailAddress string `json:"email_address"`
}

// NewAttendee returns a new Attendee. ID is set by the repository on create.
func NewAttendee(firstName, lastName, userName, emailAddress string) *Attendee {
	return &Attendee{
		FirstName:    firstName,
		LastName:     lastName,
		UserName:     userName,
		EmailAddress: emailAddress,
	}
}

// AttendeeRepository defines storage operations for attendees.
type AttendeeRepository interface {
	// Create inserts the attendee. Returns ErrDuplicateUserName when the user name is taken.
	Create(ctx context.Context, attendee *Attendee) error
	ListByIDs(ctx context.Context, ids []int) (map[int]*Attendee, error)
	List(ctx context.Context) ([]*Attendee, error)
	ListPage(ctx context.Context, params PaginationParams) ([]*Attendee, error)
	Count(ctx context.Context) (int, error)
	// CheckIn links the attendee to the session. Checking in twice is a no-op.
	CheckIn(ctx context.Context, sessionID, attendeeID int) error
}

// RegisterAttendeeInput is the input of the registerAttendee mutation.
type RegisterAttendeeInput struct {
	FirstName    string `validate:"required,max=200"`
	LastName     string `validate:"required,max=200"`
	UserName     string `validate:"required,max=200"`
	EmailAddress string `validate:"omitempty,max=256,email"`
}

// CheckInAttendeeInput is the input of the checkInAttendee mutation.
type CheckInAttendeeInput struct {
	SessionID  int
	AttendeeID int
}

// AttendeeService defines attendee mutations.
type AttendeeService interface {
	RegisterAttendee(ctx context.Context, input RegisterAttendeeInput) (*Attendee, []UserError, error)
	CheckInAttendee(ctx context.Context, input CheckInAttendeeInput) (*Attendee, []UserError, error)
}

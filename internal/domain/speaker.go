package domain

import "context"

// Speaker represents a person presenting one or more sessions.
// swagger:model Speaker
type Speaker struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	Website string `json:"website"`
}

// NewSpeaker returns a new Speaker with the given fields. ID is set by the repository on create.
func NewSpeaker(name, bio, website string) *Speaker {
	return &Speaker{
		Name:    name,
		Bio:     bio,
		Website: website,
	}
}

// SpeakerRepository defines storage operations for speakers.
type SpeakerRepository interface {
	Create(ctx context.Context, speaker *Speaker) error
	// ListByIDs returns the speakers whose ids are in ids, keyed by id. Unknown ids are absent.
	ListByIDs(ctx context.Context, ids []int) (map[int]*Speaker, error)
	List(ctx context.Context) ([]*Speaker, error)
	ListPage(ctx context.Context, params PaginationParams) ([]*Speaker, error)
	Count(ctx context.Context) (int, error)
}

// AddSpeakerInput is the input of the addSpeaker mutation.
type AddSpeakerInput struct {
	Name    string `validate:"required,max=200"`
	Bio     string `validate:"max=4000"`
	Website string `validate:"omitempty,max=1000,url"`
}

// SpeakerService defines speaker mutations.
type SpeakerService interface {
	AddSpeaker(ctx context.Context, input AddSpeakerInput) (*Speaker, []UserError, error)
}

package domain

import "context"

// Track represents a named track (room) sessions are scheduled into.
// swagger:model Track
type Track struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NewTrack returns a new Track. ID is set by the repository on create.
func NewTrack(name string) *Track {
	return &Track{Name: name}
}

// TrackRepository defines storage operations for tracks.
type TrackRepository interface {
	Create(ctx context.Context, track *Track) error
	ListByIDs(ctx context.Context, ids []int) (map[int]*Track, error)
	List(ctx context.Context) ([]*Track, error)
	ListPage(ctx context.Context, params PaginationParams) ([]*Track, error)
	Count(ctx context.Context) (int, error)
	GetByName(ctx context.Context, name string) (*Track, error)
	ListByNames(ctx context.Context, names []string) ([]*Track, error)
	// Rename updates the track name and returns the updated track, or ErrNotFound.
	Rename(ctx context.Context, id int, name string) (*Track, error)
}

// TrackService defines track mutations.
type TrackService interface {
	AddTrack(ctx context.Context, name string) (*Track, []UserError, error)
	RenameTrack(ctx context.Context, id int, name string) (*Track, []UserError, error)
}

package bookmarks

import (
	"context"
	"time"

	"studyspots/internal/domain/venues"
)

type Bookmark struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	VenueID      string    `json:"venue_id"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

// WithVenue is a bookmark joined with its venue. Venue is nil when the venue
// was deleted after the bookmark was created.
type WithVenue struct {
	Bookmark
	Venue *venues.Summary `json:"venue"`
}

type Store interface {
	Create(ctx context.Context, bookmark *Bookmark) error
	GetByID(ctx context.Context, bookmarkID string) (*Bookmark, error)
	GetByUserAndVenue(ctx context.Context, userID, venueID string) (*Bookmark, error)
	Exists(ctx context.Context, userID, venueID string) (bool, error)
	// ListByUser returns the user's bookmarks newest first.
	ListByUser(ctx context.Context, userID string) ([]WithVenue, error)
	Delete(ctx context.Context, bookmarkID string) error
	DeleteByUserAndVenue(ctx context.Context, userID, venueID string) error
}

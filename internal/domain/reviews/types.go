package reviews

import (
	"context"
	"time"
)

// Photo is embedded in a review, in upload order.
type Photo struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	Caption *string   `json:"caption,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

type Review struct {
	ID                  string    `json:"id"`
	VenueID             string    `json:"venue_id"`
	UserID              string    `json:"user_id"`
	OverallRating       float64   `json:"overall_rating"`       // 0-5
	OutletAccessibility float64   `json:"outlet_accessibility"` // 0-5
	WifiQuality         float64   `json:"wifi_quality"`         // 0-5
	Atmosphere          *string   `json:"atmosphere,omitempty"`
	EnergyLevel         *string   `json:"energy_level,omitempty"`
	StudyFriendly       *string   `json:"study_friendly,omitempty"`
	Photos              []Photo   `json:"photos"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Patch is a sparse review update. The venue and author never change.
type Patch struct {
	OverallRating       *float64 `json:"overall_rating,omitempty" validate:"omitempty,min=0,max=5"`
	OutletAccessibility *float64 `json:"outlet_accessibility,omitempty" validate:"omitempty,min=0,max=5"`
	WifiQuality         *float64 `json:"wifi_quality,omitempty" validate:"omitempty,min=0,max=5"`
	Atmosphere          *string  `json:"atmosphere,omitempty" validate:"omitempty,max=100"`
	EnergyLevel         *string  `json:"energy_level,omitempty" validate:"omitempty,max=100"`
	StudyFriendly       *string  `json:"study_friendly,omitempty" validate:"omitempty,max=100"`
}

// Apply copies the set fields of p onto rv.
func (p Patch) Apply(rv *Review) {
	if p.OverallRating != nil {
		rv.OverallRating = *p.OverallRating
	}
	if p.OutletAccessibility != nil {
		rv.OutletAccessibility = *p.OutletAccessibility
	}
	if p.WifiQuality != nil {
		rv.WifiQuality = *p.WifiQuality
	}
	if p.Atmosphere != nil {
		rv.Atmosphere = p.Atmosphere
	}
	if p.EnergyLevel != nil {
		rv.EnergyLevel = p.EnergyLevel
	}
	if p.StudyFriendly != nil {
		rv.StudyFriendly = p.StudyFriendly
	}
}

// VenuePhoto is a photo flattened out of a review, annotated with its origin.
type VenuePhoto struct {
	Photo
	ReviewID string `json:"review_id"`
	UserID   string `json:"user_id"`
}

// RatingStats aggregates the overall ratings of one venue's reviews.
type RatingStats struct {
	Count int
	Mean  float64
}

type Store interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, reviewID string) (*Review, error)
	ListByVenue(ctx context.Context, venueID string) ([]Review, error)
	Update(ctx context.Context, reviewID string, patch Patch) (*Review, error)
	// Delete removes the review and returns the venue it belonged to.
	Delete(ctx context.Context, reviewID string) (venueID string, err error)
	// AddPhoto appends photo, assigning its ID and AddedAt.
	AddPhoto(ctx context.Context, reviewID string, photo *Photo) (*Review, error)
	RatingStats(ctx context.Context, venueID string) (RatingStats, error)
	ListPhotosByVenue(ctx context.Context, venueID string) ([]VenuePhoto, error)
}

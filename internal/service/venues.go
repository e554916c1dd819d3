package service

import (
	"context"
	"math"
	"strings"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/reviews"
	"studyspots/internal/domain/venues"
	"studyspots/internal/geo"
)

type CreateVenueInput struct {
	Name          string             `json:"name" validate:"required,max=100"`
	Address       venues.Address     `json:"address"`
	Location      geo.Point          `json:"location"`
	Phone         *string            `json:"phone,omitempty" validate:"omitempty,max=30"`
	Website       *string            `json:"website,omitempty" validate:"omitempty,url"`
	OpeningHours  map[string]string  `json:"opening_hours,omitempty"`
	ThumbnailURL  *string            `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	Amenities     []string           `json:"amenities"`
	WifiAccess    venues.AccessLevel `json:"wifi_access" validate:"min=0,max=3"`
	OutletAccess  venues.AccessLevel `json:"outlet_access" validate:"min=0,max=3"`
	Atmosphere    []string           `json:"atmosphere"`
	EnergyLevel   []string           `json:"energy_level"`
	StudyFriendly []string           `json:"study_friendly"`
}

// CreateVenue stores a new venue. Its rating starts at the default until the
// first review arrives.
func (s *Service) CreateVenue(ctx context.Context, in CreateVenueInput) (*venues.Venue, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := in.Location.Validate(); err != nil {
		return nil, err
	}

	if err := s.venues.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	v := &venues.Venue{
		Name:          in.Name,
		Address:       in.Address,
		Location:      in.Location,
		Phone:         in.Phone,
		Website:       in.Website,
		OpeningHours:  in.OpeningHours,
		ThumbnailURL:  in.ThumbnailURL,
		Amenities:     in.Amenities,
		WifiAccess:    in.WifiAccess,
		OutletAccess:  in.OutletAccess,
		AverageRating: venues.DefaultRating,
		Atmosphere:    in.Atmosphere,
		EnergyLevel:   in.EnergyLevel,
		StudyFriendly: in.StudyFriendly,
	}
	if err := s.venues.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Infow("venue created", "venue_id", v.ID, "name", v.Name)
	return v, nil
}

func (s *Service) GetVenue(ctx context.Context, venueID string) (*venues.Venue, error) {
	return s.venues.GetByID(ctx, venueID)
}

// ListVenues pages through venues in creation order.
func (s *Service) ListVenues(ctx context.Context, skip, limit int) ([]venues.Venue, error) {
	if err := checkPage(skip, limit); err != nil {
		return nil, err
	}
	return s.venues.Search(ctx, venues.Query{Skip: skip, Limit: limit})
}

func (s *Service) UpdateVenue(ctx context.Context, venueID string, patch venues.Patch) (*venues.Venue, error) {
	if err := s.check(patch); err != nil {
		return nil, err
	}
	if patch.Location != nil {
		if err := patch.Location.Validate(); err != nil {
			return nil, err
		}
	}

	v, err := s.venues.Update(ctx, venueID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("venue updated", "venue_id", venueID)
	return v, nil
}

// DeleteVenue removes only the venue. Its reviews and bookmarks stay and
// resolve to a missing venue on later reads.
func (s *Service) DeleteVenue(ctx context.Context, venueID string) error {
	if err := s.venues.Delete(ctx, venueID); err != nil {
		return err
	}
	s.logger.Infow("venue deleted", "venue_id", venueID)
	return nil
}

// SearchVenuesByText matches text as a case-insensitive substring of the
// venue's name, city or street.
func (s *Service) SearchVenuesByText(ctx context.Context, text string) ([]venues.Venue, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Invalid("query", "must not be empty")
	}
	return s.venues.Search(ctx, venues.Query{Text: text})
}

// FindNearbyVenues returns venues within maxDistance meters, nearest first.
func (s *Service) FindNearbyVenues(ctx context.Context, longitude, latitude, maxDistance float64) ([]venues.Venue, error) {
	near, err := proximity(longitude, latitude, maxDistance)
	if err != nil {
		return nil, err
	}
	return s.venues.Search(ctx, venues.Query{Near: near})
}

// FindVenuesByAmenities returns venues offering every listed amenity.
func (s *Service) FindVenuesByAmenities(ctx context.Context, amenities []string) ([]venues.Venue, error) {
	if err := checkAmenities(amenities); err != nil {
		return nil, err
	}
	return s.venues.Search(ctx, venues.Query{Amenities: amenities})
}

func (s *Service) FindVenuesByMinRating(ctx context.Context, minRating float64) ([]venues.Venue, error) {
	if err := checkMinRating(minRating); err != nil {
		return nil, err
	}
	return s.venues.Search(ctx, venues.Query{MinRating: &minRating})
}

// SearchVenues combines any of the discovery predicates. Each set predicate
// is checked the same way as by its single-purpose finder.
func (s *Service) SearchVenues(ctx context.Context, q venues.Query) ([]venues.Venue, error) {
	if q.Near != nil {
		near, err := proximity(q.Near.Center.Longitude, q.Near.Center.Latitude, q.Near.MaxDistance)
		if err != nil {
			return nil, err
		}
		q.Near = near
	}
	if q.Text != "" {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return nil, apperr.Invalid("query", "must not be blank")
		}
	}
	if q.Amenities != nil {
		if err := checkAmenities(q.Amenities); err != nil {
			return nil, err
		}
	}
	if q.MinRating != nil {
		if err := checkMinRating(*q.MinRating); err != nil {
			return nil, err
		}
	}
	if q.Skip < 0 {
		return nil, apperr.Invalid("skip", "must not be negative")
	}
	if q.Limit < 0 {
		return nil, apperr.Invalid("limit", "must not be negative")
	}
	return s.venues.Search(ctx, q)
}

// ListVenuePhotos flattens the photos of every review of the venue, oldest
// first.
func (s *Service) ListVenuePhotos(ctx context.Context, venueID string) ([]reviews.VenuePhoto, error) {
	return s.reviews.ListPhotosByVenue(ctx, venueID)
}

func proximity(longitude, latitude, maxDistance float64) (*venues.Proximity, error) {
	center := geo.Point{Longitude: longitude, Latitude: latitude}
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) || maxDistance <= 0 {
		return nil, apperr.Invalid("max_distance", "must be a positive number of meters")
	}
	return &venues.Proximity{Center: center, MaxDistance: maxDistance}, nil
}

func checkAmenities(amenities []string) error {
	if len(amenities) == 0 {
		return apperr.Invalid("amenities", "must not be empty")
	}
	for _, a := range amenities {
		if strings.TrimSpace(a) == "" {
			return apperr.Invalid("amenities", "must not contain blank values")
		}
	}
	return nil
}

func checkMinRating(minRating float64) error {
	if math.IsNaN(minRating) || minRating < venues.MinRating || minRating > venues.MaxRating {
		return apperr.Invalid("min_rating", "must be between %d and %d", venues.MinRating, venues.MaxRating)
	}
	return nil
}

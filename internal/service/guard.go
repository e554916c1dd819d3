package service

import (
	"context"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/reviews"
	"studyspots/internal/domain/users"
	"studyspots/internal/domain/venues"
)

// RequireVenue loads the venue a write is about to reference. A missing venue
// is an IntegrityError.
func (s *Service) RequireVenue(ctx context.Context, venueID string) (*venues.Venue, error) {
	v, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, missingReference(err, apperr.EntityVenue, venueID)
	}
	return v, nil
}

func (s *Service) RequireUser(ctx context.Context, userID string) (*users.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, missingReference(err, apperr.EntityUser, userID)
	}
	return u, nil
}

func (s *Service) RequireReview(ctx context.Context, reviewID string) (*reviews.Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, missingReference(err, apperr.EntityReview, reviewID)
	}
	return rv, nil
}

func missingReference(err error, entity apperr.Entity, id string) error {
	if apperr.IsNotFound(err) {
		return &apperr.IntegrityError{
			Reason:     apperr.MissingReference,
			Referenced: entity,
			ID:         id,
		}
	}
	return err
}

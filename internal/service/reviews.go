package service

import (
	"context"
	"io"

	"studyspots/internal/domain/reviews"
)

type CreateReviewInput struct {
	VenueID             string  `json:"venue_id" validate:"required"`
	UserID              string  `json:"user_id" validate:"required"`
	OverallRating       float64 `json:"overall_rating" validate:"gte=0,lte=5"`
	OutletAccessibility float64 `json:"outlet_accessibility" validate:"gte=0,lte=5"`
	WifiQuality         float64 `json:"wifi_quality" validate:"gte=0,lte=5"`
	Atmosphere          *string `json:"atmosphere,omitempty" validate:"omitempty,max=100"`
	EnergyLevel         *string `json:"energy_level,omitempty" validate:"omitempty,max=100"`
	StudyFriendly       *string `json:"study_friendly,omitempty" validate:"omitempty,max=100"`
}

type AddPhotoInput struct {
	URL     string  `json:"url" validate:"required,url"`
	Caption *string `json:"caption,omitempty" validate:"omitempty,max=500"`
}

// ReviewPhotoFolder is where uploaded review photos are stored.
const ReviewPhotoFolder = "reviews"

// CreateReview stores a review for an existing venue and user, then refreshes
// the venue's rating.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (*reviews.Review, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.RequireVenue(ctx, in.VenueID); err != nil {
		return nil, err
	}
	if _, err := s.RequireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	rv := &reviews.Review{
		VenueID:             in.VenueID,
		UserID:              in.UserID,
		OverallRating:       in.OverallRating,
		OutletAccessibility: in.OutletAccessibility,
		WifiQuality:         in.WifiQuality,
		Atmosphere:          in.Atmosphere,
		EnergyLevel:         in.EnergyLevel,
		StudyFriendly:       in.StudyFriendly,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	s.logger.Infow("review created", "review_id", rv.ID, "venue_id", rv.VenueID, "user_id", rv.UserID)

	s.refreshVenueRating(ctx, rv.VenueID)
	return rv, nil
}

func (s *Service) GetReview(ctx context.Context, reviewID string) (*reviews.Review, error) {
	return s.reviews.GetByID(ctx, reviewID)
}

// ListReviewsByVenue returns newest first. The venue need not exist.
func (s *Service) ListReviewsByVenue(ctx context.Context, venueID string) ([]reviews.Review, error) {
	return s.reviews.ListByVenue(ctx, venueID)
}

// UpdateReview applies patch and refreshes the venue's rating when the
// overall rating changed.
func (s *Service) UpdateReview(ctx context.Context, reviewID string, patch reviews.Patch) (*reviews.Review, error) {
	if err := s.check(patch); err != nil {
		return nil, err
	}

	before, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	rv, err := s.reviews.Update(ctx, reviewID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("review updated", "review_id", reviewID)

	if patch.OverallRating != nil && *patch.OverallRating != before.OverallRating {
		s.refreshVenueRating(ctx, rv.VenueID)
	}
	return rv, nil
}

func (s *Service) DeleteReview(ctx context.Context, reviewID string) error {
	venueID, err := s.reviews.Delete(ctx, reviewID)
	if err != nil {
		return err
	}
	s.logger.Infow("review deleted", "review_id", reviewID, "venue_id", venueID)

	s.refreshVenueRating(ctx, venueID)
	return nil
}

// AddPhotoToReview appends a photo that already lives in object storage.
func (s *Service) AddPhotoToReview(ctx context.Context, reviewID string, in AddPhotoInput) (*reviews.Review, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.RequireReview(ctx, reviewID); err != nil {
		return nil, err
	}

	photo := &reviews.Photo{URL: in.URL, Caption: in.Caption}
	rv, err := s.reviews.AddPhoto(ctx, reviewID, photo)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("review photo added", "review_id", reviewID, "photo_id", photo.ID)
	return rv, nil
}

// UploadReviewPhoto stores the image and attaches it to the review. The
// upload is removed again when the review cannot take it.
func (s *Service) UploadReviewPhoto(ctx context.Context, reviewID string, r io.Reader, contentType string, caption *string) (*reviews.Review, error) {
	if s.assets == nil {
		return nil, ErrUploadsDisabled
	}
	if _, err := s.RequireReview(ctx, reviewID); err != nil {
		return nil, err
	}

	url, err := s.assets.Put(ctx, r, contentType, ReviewPhotoFolder)
	if err != nil {
		return nil, err
	}

	rv, err := s.AddPhotoToReview(ctx, reviewID, AddPhotoInput{URL: url, Caption: caption})
	if err != nil {
		s.discardAsset(ctx, url)
		return nil, err
	}
	return rv, nil
}

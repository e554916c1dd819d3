package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/reviews"
)

type reviewStore struct {
	db *DB
}

func (s *reviewStore) Create(ctx context.Context, review *reviews.Review) error {
	review.ID = uuid.NewString()
	if review.Photos == nil {
		review.Photos = []reviews.Photo{}
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := s.db.now()
	review.CreatedAt, review.UpdatedAt = now, now
	s.db.reviews[review.ID] = record[reviews.Review]{seq: s.db.next(), v: cloneReview(*review)}
	return nil
}

func (s *reviewStore) GetByID(ctx context.Context, reviewID string) (*reviews.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.reviews[reviewID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityReview, reviewID)
	}
	rv := cloneReview(rec.v)
	return &rv, nil
}

// ListByVenue returns newest first.
func (s *reviewStore) ListByVenue(ctx context.Context, venueID string) ([]reviews.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	recs := sortedValues(s.db.reviews)
	out := []reviews.Review{}
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].v.VenueID == venueID {
			out = append(out, cloneReview(recs[i].v))
		}
	}
	return out, nil
}

func (s *reviewStore) Update(ctx context.Context, reviewID string, patch reviews.Patch) (*reviews.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.reviews[reviewID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityReview, reviewID)
	}
	rv := cloneReview(rec.v)
	patch.Apply(&rv)
	rv.UpdatedAt = s.db.now()
	rec.v = cloneReview(rv)
	s.db.reviews[reviewID] = rec
	return &rv, nil
}

func (s *reviewStore) Delete(ctx context.Context, reviewID string) (string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.reviews[reviewID]
	if !ok {
		return "", apperr.NotFound(apperr.EntityReview, reviewID)
	}
	delete(s.db.reviews, reviewID)
	return rec.v.VenueID, nil
}

func (s *reviewStore) AddPhoto(ctx context.Context, reviewID string, photo *reviews.Photo) (*reviews.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rec, ok := s.db.reviews[reviewID]
	if !ok {
		return nil, apperr.NotFound(apperr.EntityReview, reviewID)
	}
	photo.ID = uuid.NewString()
	photo.AddedAt = s.db.now()

	rv := cloneReview(rec.v)
	rv.Photos = append(rv.Photos, *photo)
	rv.Photos[len(rv.Photos)-1].Caption = clonePtr(photo.Caption)
	rv.UpdatedAt = photo.AddedAt
	rec.v = cloneReview(rv)
	s.db.reviews[reviewID] = rec
	return &rv, nil
}

func (s *reviewStore) RatingStats(ctx context.Context, venueID string) (reviews.RatingStats, error) {
	if err := ctx.Err(); err != nil {
		return reviews.RatingStats{}, apperr.Dependency("review rating stats", err)
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var (
		stats reviews.RatingStats
		sum   float64
	)
	for _, rec := range s.db.reviews {
		if rec.v.VenueID == venueID {
			stats.Count++
			sum += rec.v.OverallRating
		}
	}
	if stats.Count > 0 {
		stats.Mean = sum / float64(stats.Count)
	}
	return stats, nil
}

// ListPhotosByVenue orders photos by added_at, then by review age and
// position within the review.
func (s *reviewStore) ListPhotosByVenue(ctx context.Context, venueID string) ([]reviews.VenuePhoto, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []reviews.VenuePhoto{}
	for _, rec := range sortedValues(s.db.reviews) {
		if rec.v.VenueID != venueID {
			continue
		}
		for _, p := range rec.v.Photos {
			p.Caption = clonePtr(p.Caption)
			out = append(out, reviews.VenuePhoto{Photo: p, ReviewID: rec.v.ID, UserID: rec.v.UserID})
		}
	}
	slices.SortStableFunc(out, func(a, b reviews.VenuePhoto) int {
		return cmp.Compare(a.AddedAt.UnixNano(), b.AddedAt.UnixNano())
	})
	return out, nil
}

package service

import (
	"context"

	"studyspots/internal/domain/venues"
	"studyspots/internal/metrics"
)

// RecomputeVenueRating sets the venue's average rating to the rounded mean of
// its reviews' overall ratings. A venue without reviews keeps its current
// rating and the returned pointer is nil.
func (s *Service) RecomputeVenueRating(ctx context.Context, venueID string) (*int, error) {
	stats, err := s.reviews.RatingStats(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if stats.Count == 0 {
		return nil, nil
	}

	rating := venues.RatingFromMean(stats.Mean)
	if err := s.venues.SetAverageRating(ctx, venueID, rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// refreshVenueRating runs after a review write has already succeeded. A
// failure leaves the rating stale until the next recompute or repair.
func (s *Service) refreshVenueRating(ctx context.Context, venueID string) {
	rating, err := s.RecomputeVenueRating(ctx, venueID)
	if err != nil {
		metrics.RatingRecomputes.WithLabelValues("review_write", metrics.OutcomeFailed).Inc()
		s.logger.Warnw("venue rating not recomputed", "venue_id", venueID, "error", err)
		return
	}
	if rating == nil {
		metrics.RatingRecomputes.WithLabelValues("review_write", metrics.OutcomeUnrated).Inc()
		return
	}
	metrics.RatingRecomputes.WithLabelValues("review_write", metrics.OutcomeUpdated).Inc()
	s.logger.Debugw("venue rating recomputed", "venue_id", venueID, "average_rating", *rating)
}

// RepairVenueRating recomputes one venue's rating and surfaces any failure.
func (s *Service) RepairVenueRating(ctx context.Context, venueID string) (*int, error) {
	if _, err := s.venues.GetByID(ctx, venueID); err != nil {
		return nil, err
	}
	return s.RecomputeVenueRating(ctx, venueID)
}

type RepairReport struct {
	Venues   int      `json:"venues"`
	Updated  int      `json:"updated"`
	Unrated  int      `json:"unrated"`
	Failed   int      `json:"failed"`
	FailedID []string `json:"failed_ids,omitempty"`
}

// RepairAllVenueRatings recomputes every venue. Per-venue failures are
// counted and logged; only a dead context stops the run early.
func (s *Service) RepairAllVenueRatings(ctx context.Context) (RepairReport, error) {
	var report RepairReport

	ids, err := s.venues.ListIDs(ctx)
	if err != nil {
		return report, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Venues++

		rating, err := s.RecomputeVenueRating(ctx, id)
		outcome := metrics.OutcomeUpdated
		switch {
		case err != nil:
			outcome = metrics.OutcomeFailed
			report.Failed++
			report.FailedID = append(report.FailedID, id)
			s.logger.Errorw("venue rating repair failed", "venue_id", id, "error", err)
		case rating == nil:
			outcome = metrics.OutcomeUnrated
			report.Unrated++
		default:
			report.Updated++
		}
		metrics.RatingRecomputes.WithLabelValues("repair", outcome).Inc()
	}

	s.logger.Infow("venue ratings repaired",
		"venues", report.Venues, "updated", report.Updated,
		"unrated", report.Unrated, "failed", report.Failed)
	return report, nil
}

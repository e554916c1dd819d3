package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/venues"
	"studyspots/internal/metrics"
)

func TestRepairAllVenueRatings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "U")
	rated := f.venue(t, "Rated", 0, 0)
	unrated := f.venue(t, "Unrated", 0, 0)
	f.review(t, rated.ID, u, 4)

	// drift the stored rating away from the reviews
	one := 1
	_, err := f.svc.UpdateVenue(ctx, rated.ID, venues.Patch{AverageRating: &one})
	require.NoError(t, err)

	report, err := f.svc.RepairAllVenueRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, RepairReport{Venues: 2, Updated: 1, Unrated: 1}, report)
	assert.Equal(t, 4, f.rating(t, rated.ID))
	assert.Equal(t, 1, f.rating(t, unrated.ID))

	// repairing again changes nothing
	report, err = f.svc.RepairAllVenueRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Venues)
	assert.Equal(t, 4, f.rating(t, rated.ID))
}

func TestRepairCountsFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "U")
	v := f.venue(t, "V", 0, 0)
	f.review(t, v.ID, u, 3)

	failed := metrics.RatingRecomputes.WithLabelValues("repair", metrics.OutcomeFailed)
	before := testutil.ToFloat64(failed)

	f.svc.venues = brokenRatings{f.store.Venues}
	report, err := f.svc.RepairAllVenueRatings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{v.ID}, report.FailedID)
	assert.Equal(t, before+1, testutil.ToFloat64(failed))
}

func TestRepairVenueRatingMissingVenue(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RepairVenueRating(context.Background(), "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestRecomputeWithoutReviews(t *testing.T) {
	f := newFixture(t)
	v := f.venue(t, "V", 0, 0)

	rating, err := f.svc.RecomputeVenueRating(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Nil(t, rating)
	assert.Equal(t, 1, f.rating(t, v.ID))
}

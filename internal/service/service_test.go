package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"studyspots/internal/domain/storage"
	"studyspots/internal/domain/venues"
	"studyspots/internal/geo"
	"studyspots/internal/objectstore"
)

type fixture struct {
	svc    *Service
	store  *storage.Container
	assets *objectstore.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemoryContainer()
	assets := objectstore.NewMemory("https://assets.test")
	return &fixture{
		svc:    New(store, zaptest.NewLogger(t).Sugar(), WithObjectStore(assets)),
		store:  store,
		assets: assets,
	}
}

func venueInput(name string, lon, lat float64, amenities ...string) CreateVenueInput {
	return CreateVenueInput{
		Name: name,
		Address: venues.Address{
			Street:  "350 5th Ave",
			City:    "New York",
			State:   "NY",
			ZipCode: "10118",
		},
		Location:  geo.Point{Longitude: lon, Latitude: lat},
		Amenities: amenities,
	}
}

func (f *fixture) venue(t *testing.T, name string, lon, lat float64, amenities ...string) *venues.Venue {
	t.Helper()
	v, err := f.svc.CreateVenue(context.Background(), venueInput(name, lon, lat, amenities...))
	require.NoError(t, err)
	return v
}

func (f *fixture) user(t *testing.T, name string) string {
	t.Helper()
	u, err := f.svc.CreateUser(context.Background(), CreateUserInput{Name: name, Password: "secret"})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) rating(t *testing.T, venueID string) int {
	t.Helper()
	v, err := f.svc.GetVenue(context.Background(), venueID)
	require.NoError(t, err)
	return v.AverageRating
}

// brokenRatings fails every rating write.
type brokenRatings struct {
	venues.Store
}

var errStoreDown = errors.New("store down")

func (brokenRatings) SetAverageRating(context.Context, string, int) error {
	return errStoreDown
}

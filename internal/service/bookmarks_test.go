package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyspots/internal/apperr"
	"studyspots/internal/domain/bookmarks"
)

func TestBookmarkLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "U")
	v := f.venue(t, "V", -73.9857, 40.7484, "wifi")

	b, err := f.svc.CreateBookmark(ctx, u, v.ID)
	require.NoError(t, err)

	exists, err := f.svc.BookmarkExists(ctx, u, v.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	list, err := f.svc.ListBookmarksByUser(ctx, u)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Venue)
	current, err := f.svc.GetVenue(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, current.Name, list[0].Venue.Name)
	assert.Equal(t, current.AverageRating, list[0].Venue.AverageRating)

	require.NoError(t, f.svc.DeleteVenue(ctx, v.ID))

	list, err = f.svc.ListBookmarksByUser(ctx, u)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Nil(t, list[0].Venue)
}

func TestCreateBookmarkIntegrityAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "U")
	v := f.venue(t, "V", 0, 0)

	_, err := f.svc.CreateBookmark(ctx, "ghost", v.ID)
	assert.True(t, apperr.IsIntegrity(err))
	_, err = f.svc.CreateBookmark(ctx, u, "ghost")
	assert.True(t, apperr.IsIntegrity(err))
	_, err = f.svc.CreateBookmark(ctx, "", v.ID)
	assert.True(t, apperr.IsValidation(err))

	_, err = f.svc.CreateBookmark(ctx, u, v.ID)
	require.NoError(t, err)

	_, err = f.svc.CreateBookmark(ctx, u, v.ID)
	var cerr *apperr.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, apperr.DuplicateBookmark, cerr.Reason)

	// a writer that skipped the check still hits the store constraint
	err = f.store.Bookmarks.Create(ctx, &bookmarks.Bookmark{UserID: u, VenueID: v.ID})
	assert.True(t, apperr.IsConflict(err))

	list, err := f.svc.ListBookmarksByUser(ctx, u)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteBookmarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "U")
	v1 := f.venue(t, "V1", 0, 0)
	v2 := f.venue(t, "V2", 0, 0)

	b1, err := f.svc.CreateBookmark(ctx, u, v1.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateBookmark(ctx, u, v2.ID)
	require.NoError(t, err)

	list, err := f.svc.ListBookmarksByUser(ctx, u)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, v2.ID, list[0].VenueID, "newest first")

	got, err := f.svc.GetBookmark(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, got.VenueID)

	require.NoError(t, f.svc.DeleteBookmark(ctx, b1.ID))
	assert.True(t, apperr.IsNotFound(f.svc.DeleteBookmark(ctx, b1.ID)))

	require.NoError(t, f.svc.DeleteBookmarkByUserAndVenue(ctx, u, v2.ID))
	assert.True(t, apperr.IsNotFound(f.svc.DeleteBookmarkByUserAndVenue(ctx, u, v2.ID)))

	exists, err := f.svc.BookmarkExists(ctx, u, v2.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

package main

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyspots/internal/domain/bookmarks"
	"studyspots/internal/domain/reviews"
	"studyspots/internal/domain/users"
	"studyspots/internal/domain/venues"
	"studyspots/internal/service"
)

func TestErrorStatusMapping(t *testing.T) {
	s := newTestServer(t)
	venueID := s.createVenue(t, "Blue Bottle", -87.62, 41.88)
	s.createUser(t, "alice", "pw")

	noCity := venuePayload("Nowhere", 0, 0)
	noCity["address"] = map[string]string{"street": "x", "state": "y", "zip_code": "z"}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"validation", http.MethodPost, "/v1/venues", noCity, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/v1/venues", `{"name":"x","bogus":1}`, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/v1/users", `{"name":`, http.StatusBadRequest},
		{"trailing json", http.MethodPost, "/v1/users", `{"name":"x","password":"y"} {}`, http.StatusBadRequest},
		{"bad coordinates", http.MethodPost, "/v1/venues", venuePayload("Far", 200, 0), http.StatusBadRequest},
		{"missing venue", http.MethodGet, "/v1/venues/missing", nil, http.StatusNotFound},
		{"missing review", http.MethodDelete, "/v1/reviews/missing", nil, http.StatusNotFound},
		{"dangling reference", http.MethodPost, "/v1/reviews", map[string]any{
			"venue_id": venueID, "user_id": "ghost", "overall_rating": 4,
		}, http.StatusUnprocessableEntity},
		{"duplicate username", http.MethodPost, "/v1/users", map[string]any{"name": "alice", "password": "x"}, http.StatusConflict},
		{"wrong password", http.MethodPost, "/v1/authentication/token", map[string]any{"name": "alice", "password": "nope"}, http.StatusUnauthorized},
		{"bad pagination", http.MethodGet, "/v1/venues?limit=-1", nil, http.StatusBadRequest},
		{"missing proximity params", http.MethodGet, "/v1/venues/nearby?lon=1", nil, http.StatusBadRequest},
		{"empty text search", http.MethodGet, "/v1/venues/search?q=", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decodeError(t, rr))
		})
	}
}

func TestVenueDiscoveryEndpoints(t *testing.T) {
	s := newTestServer(t)
	near := s.createVenue(t, "Library Cafe", -87.6298, 41.8781, "wifi", "outlets")
	s.createVenue(t, "Far Roasters", -87.9, 42.1, "wifi")

	rr := s.do(t, http.MethodGet, "/v1/venues/nearby?lon=-87.6298&lat=41.8781&max_distance=1000", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	list := decodeData[[]venues.Venue](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, near, list[0].ID)

	rr = s.do(t, http.MethodGet, "/v1/venues/amenities?amenities=wifi,outlets", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list = decodeData[[]venues.Venue](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, near, list[0].ID)

	rr = s.do(t, http.MethodGet, "/v1/venues/search?q=roast", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list = decodeData[[]venues.Venue](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, "Far Roasters", list[0].Name)

	q := url.Values{}
	q.Set("lon", "-87.6298")
	q.Set("lat", "41.8781")
	q.Set("max_distance", "100000")
	q.Set("amenities", "wifi")
	q.Set("min_rating", "1")
	rr = s.do(t, http.MethodGet, "/v1/venues/discover?"+q.Encode(), nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	list = decodeData[[]venues.Venue](t, rr)
	require.Len(t, list, 2)
	assert.Equal(t, near, list[0].ID, "nearest first")

	rr = s.do(t, http.MethodGet, "/v1/venues?skip=1&limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeData[[]venues.Venue](t, rr), 1)
}

func TestVenueUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	id := s.createVenue(t, "Old Name", 0, 0)

	rr := s.do(t, http.MethodPatch, "/v1/venues/"+id, map[string]any{"name": "New Name", "wifi_access": 3}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	v := decodeData[venues.Venue](t, rr)
	assert.Equal(t, "New Name", v.Name)
	assert.Equal(t, venues.AccessExcellent, v.WifiAccess)
	assert.Equal(t, "Springfield", v.Address.City)

	rr = s.do(t, http.MethodDelete, "/v1/venues/"+id, nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/venues/"+id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReviewRatingFlow(t *testing.T) {
	s := newTestServer(t)
	venueID := s.createVenue(t, "Reading Room", 0, 0)
	userID := s.createUser(t, "bob", "pw")

	rating := func() int {
		rr := s.do(t, http.MethodGet, "/v1/venues/"+venueID, nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		return decodeData[venues.Venue](t, rr).AverageRating
	}

	first := s.createReview(t, venueID, userID, 4)
	assert.Equal(t, 4, rating())

	second := s.createReview(t, venueID, userID, 2)
	assert.Equal(t, 3, rating())

	rr := s.do(t, http.MethodPatch, "/v1/reviews/"+second, map[string]any{"overall_rating": 1}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 3, rating(), "2.5 rounds half away from zero")

	rr = s.do(t, http.MethodDelete, "/v1/reviews/"+first, nil, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, rating())

	rr = s.do(t, http.MethodGet, "/v1/venues/"+venueID+"/reviews", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeData[[]reviews.Review](t, rr)
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0].ID)
}

func TestReviewPhotos(t *testing.T) {
	s := newTestServer(t)
	venueID := s.createVenue(t, "Photo Spot", 0, 0)
	userID := s.createUser(t, "carol", "pw")
	reviewID := s.createReview(t, venueID, userID, 5)

	rr := s.do(t, http.MethodPost, "/v1/reviews/"+reviewID+"/photos",
		map[string]any{"url": "https://img.test/a.jpg", "caption": "window seat"}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.upload(t, http.MethodPost, "/v1/reviews/"+reviewID+"/photos/upload", "photo", map[string]string{"caption": "desk"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	review := decodeData[reviews.Review](t, rr)
	require.Len(t, review.Photos, 2)
	assert.True(t, s.assets.Has(review.Photos[1].URL))
	require.NotNil(t, review.Photos[1].Caption)
	assert.Equal(t, "desk", *review.Photos[1].Caption)

	rr = s.do(t, http.MethodGet, "/v1/venues/"+venueID+"/photos", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	photos := decodeData[[]reviews.VenuePhoto](t, rr)
	require.Len(t, photos, 2)
	assert.Equal(t, "https://img.test/a.jpg", photos[0].Photo.URL)

	rr = s.do(t, http.MethodPost, "/v1/reviews/"+reviewID+"/photos", map[string]any{"url": "not a url"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBookmarkFlow(t *testing.T) {
	s := newTestServer(t)
	venueID := s.createVenue(t, "Quiet Corner", 0, 0)
	userID := s.createUser(t, "dana", "pw")

	payload := map[string]any{"user_id": userID, "venue_id": venueID}
	rr := s.do(t, http.MethodPost, "/v1/bookmarks", payload, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	bookmarkID := decodeData[bookmarks.Bookmark](t, rr).ID

	rr = s.do(t, http.MethodPost, "/v1/bookmarks", payload, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/bookmarks/"+bookmarkID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	exists := "/v1/bookmarks/exists?user_id=" + userID + "&venue_id=" + venueID
	rr = s.do(t, http.MethodGet, exists, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeData[map[string]bool](t, rr)["bookmarked"])

	rr = s.do(t, http.MethodGet, "/v1/users/"+userID+"/bookmarks", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeData[[]bookmarks.WithVenue](t, rr)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Venue)
	assert.Equal(t, "Quiet Corner", list[0].Venue.Name)

	rr = s.do(t, http.MethodDelete, "/v1/venues/"+venueID, nil, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/users/"+userID+"/bookmarks", nil, nil)
	list = decodeData[[]bookmarks.WithVenue](t, rr)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Venue)

	rr = s.do(t, http.MethodDelete, "/v1/bookmarks?user_id="+userID+"&venue_id="+venueID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, exists, nil, nil)
	assert.False(t, decodeData[map[string]bool](t, rr)["bookmarked"])

	rr = s.do(t, http.MethodDelete, "/v1/bookmarks/"+bookmarkID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTokenAuthentication(t *testing.T) {
	s := newTestServer(t)
	userID := s.createUser(t, "Erin", "correct horse")

	rr := s.do(t, http.MethodPost, "/v1/authentication/token", map[string]any{"name": "erin", "password": "correct horse"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "names are case sensitive")

	rr = s.do(t, http.MethodPost, "/v1/authentication/token", map[string]any{"name": "Erin", "password": "correct horse"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tokens := decodeData[TokenResponse](t, rr)
	assert.Equal(t, userID, tokens.UserID)

	rr = s.do(t, http.MethodGet, "/v1/users/me", nil, bearer(tokens.AccessToken))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Erin", decodeData[users.User](t, rr).Name)

	rr = s.do(t, http.MethodGet, "/v1/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/users/me", nil, bearer(tokens.RefreshToken))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "refresh tokens are not access tokens")

	rr = s.do(t, http.MethodPost, "/v1/authentication/refresh", map[string]any{"refresh_token": tokens.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, decodeData[TokenResponse](t, rr).AccessToken)

	rr = s.do(t, http.MethodDelete, "/v1/users/"+userID, nil, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, "/v1/users/me", nil, bearer(tokens.AccessToken))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "deleted users lose access")
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(t, "Frank", "pw")
	s.createUser(t, "frankie", "pw")

	rr := s.do(t, http.MethodGet, "/v1/users/search?q=FRANK", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeData[[]users.User](t, rr), 2)

	rr = s.do(t, http.MethodPatch, "/v1/users/"+id, map[string]any{"name": "frankie"}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPatch, "/v1/users/"+id, map[string]any{"cafes_visited": 7}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 7, decodeData[users.User](t, rr).CafesVisited)

	rr = s.do(t, http.MethodGet, "/v1/users/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = s.do(t, http.MethodGet, "/v1/users?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeData[[]users.User](t, rr), 1)
}

func TestProfilePictureUpload(t *testing.T) {
	s := newTestServer(t)
	id := s.createUser(t, "gina", "pw")

	rr := s.upload(t, http.MethodPut, "/v1/users/"+id+"/profile-picture", "profile_picture", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	first := decodeData[users.User](t, rr).ProfilePicture
	require.NotNil(t, first)
	assert.True(t, s.assets.Has(*first))

	rr = s.upload(t, http.MethodPut, "/v1/users/"+id+"/profile-picture", "profile_picture", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	second := decodeData[users.User](t, rr).ProfilePicture
	require.NotNil(t, second)
	assert.False(t, s.assets.Has(*first), "replaced picture is deleted")

	rr = s.do(t, http.MethodDelete, "/v1/users/"+id+"/profile-picture", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decodeData[users.User](t, rr).ProfilePicture)
	assert.False(t, s.assets.Has(*second))

	rr = s.upload(t, http.MethodPut, "/v1/users/"+id+"/profile-picture", "wrong_field", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminRatingRepair(t *testing.T) {
	s := newTestServer(t)
	venueID := s.createVenue(t, "Stale", 0, 0)
	userID := s.createUser(t, "hal", "pw")
	s.createReview(t, venueID, userID, 5)

	// simulate a stale rating written behind the service's back
	one := 1
	_, err := s.app.store.Venues.Update(t.Context(), venueID, venues.Patch{AverageRating: &one})
	require.NoError(t, err)

	rr := s.do(t, http.MethodPost, "/v1/admin/ratings/repair", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	rr = s.do(t, http.MethodPost, "/v1/admin/ratings/repair", nil, basicAuth(testBasicUser, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/v1/admin/ratings/repair", nil, basicAuth(testBasicUser, testBasicPass))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	report := decodeData[service.RepairReport](t, rr)
	assert.Equal(t, 1, report.Venues)
	assert.Equal(t, 1, report.Updated)

	rr = s.do(t, http.MethodGet, "/v1/venues/"+venueID, nil, nil)
	assert.Equal(t, 5, decodeData[venues.Venue](t, rr).AverageRating)

	rr = s.do(t, http.MethodPost, "/v1/admin/ratings/repair/missing", nil, basicAuth(testBasicUser, testBasicPass))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

package main

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"studyspots/internal/domain/venues"
	"studyspots/internal/geo"
	"studyspots/internal/params"
	"studyspots/internal/service"
)

// CreateVenue godoc
//
//	@Summary		Register a study venue
//	@Description	Creates a venue. Its average rating starts at 1 and follows its reviews.
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		service.CreateVenueInput	true	"Venue details"
//	@Success		201		{object}	venues.Venue				"Venue created"
//	@Failure		400		{object}	error						"Invalid request payload"
//	@Failure		503		{object}	error						"Store unavailable"
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	var payload service.CreateVenueInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue, err := app.service.CreateVenue(r.Context(), payload)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListVenues godoc
//
//	@Summary	List venues
//	@Tags		Venue
//	@Produce	json
//	@Param		skip	query		int	false	"Items to skip"
//	@Param		limit	query		int	false	"Page size (max 100)"
//	@Success	200		{array}		venues.Venue
//	@Failure	400		{object}	error
//	@Router		/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	page, err := params.ParsePagination(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.service.ListVenues(r.Context(), page.Skip, page.Limit)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	venue, err := app.service.GetVenue(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateVenue godoc
//
//	@Summary		Update venue information
//	@Description	Applies the fields present in the payload; absent fields are left unchanged.
//	@Tags			Venue
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		string			true	"Venue ID"
//	@Param			payload	body		venues.Patch	true	"Fields to update"
//	@Success		200		{object}	venues.Venue
//	@Failure		400		{object}	error
//	@Failure		404		{object}	error
//	@Router			/venues/{venueID} [patch]
func (app *application) updateVenueHandler(w http.ResponseWriter, r *http.Request) {
	var patch venues.Patch
	if err := readJSON(w, r, &patch); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue, err := app.service.UpdateVenue(r.Context(), chi.URLParam(r, "venueID"), patch)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DeleteVenue godoc
//
//	@Summary		Delete a venue
//	@Description	Reviews and bookmarks of the venue are kept.
//	@Tags			Venue
//	@Param			venueID	path	string	true	"Venue ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Router			/venues/{venueID} [delete]
func (app *application) deleteVenueHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.service.DeleteVenue(r.Context(), chi.URLParam(r, "venueID")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchVenues godoc
//
//	@Summary	Search venues by name, city or street
//	@Tags		Venue
//	@Produce	json
//	@Param		q	query		string	true	"Substring to look for"
//	@Success	200	{array}		venues.Venue
//	@Failure	400	{object}	error
//	@Router		/venues/search [get]
func (app *application) searchVenuesByTextHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.service.SearchVenuesByText(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// NearbyVenues godoc
//
//	@Summary	Find venues near a point
//	@Tags		Venue
//	@Produce	json
//	@Param		lon				query		number	true	"Longitude"
//	@Param		lat				query		number	true	"Latitude"
//	@Param		max_distance	query		number	true	"Radius in meters"
//	@Success	200				{array}		venues.Venue
//	@Failure	400				{object}	error
//	@Router		/venues/nearby [get]
func (app *application) findNearbyVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	near, err := parseProximity(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.service.FindNearbyVenues(r.Context(), near.Center.Longitude, near.Center.Latitude, near.MaxDistance)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) findVenuesByAmenitiesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.service.FindVenuesByAmenities(r.Context(), params.List(r.URL.Query(), "amenities"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) findVenuesByMinRatingHandler(w http.ResponseWriter, r *http.Request) {
	minRating, err := params.RequiredFloat(r.URL.Query(), "min_rating")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.service.FindVenuesByMinRating(r.Context(), minRating)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// DiscoverVenues godoc
//
//	@Summary		Combined venue search
//	@Description	Every filter given is applied. With lon/lat/max_distance the results are nearest first.
//	@Tags			Venue
//	@Produce		json
//	@Param			q				query		string	false	"Substring of name, city or street"
//	@Param			lon				query		number	false	"Longitude"
//	@Param			lat				query		number	false	"Latitude"
//	@Param			max_distance	query		number	false	"Radius in meters"
//	@Param			amenities		query		string	false	"Comma separated amenities, all required"
//	@Param			min_rating		query		number	false	"Minimum average rating"
//	@Param			skip			query		int		false	"Items to skip"
//	@Param			limit			query		int		false	"Page size"
//	@Success		200				{array}		venues.Venue
//	@Failure		400				{object}	error
//	@Router			/venues/discover [get]
func (app *application) discoverVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := params.ParsePagination(q)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	query := venues.Query{
		Text:      q.Get("q"),
		Amenities: params.List(q, "amenities"),
		Skip:      page.Skip,
		Limit:     page.Limit,
	}

	if q.Has("lon") || q.Has("lat") || q.Has("max_distance") {
		if query.Near, err = parseProximity(q); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}
	if query.MinRating, err = params.Float(q, "min_rating"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.service.SearchVenues(r.Context(), query)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// VenuePhotos godoc
//
//	@Summary	Photos from every review of a venue, oldest first
//	@Tags		Venue
//	@Produce	json
//	@Param		venueID	path	string	true	"Venue ID"
//	@Success	200		{array}	reviews.VenuePhoto
//	@Router		/venues/{venueID}/photos [get]
func (app *application) listVenuePhotosHandler(w http.ResponseWriter, r *http.Request) {
	photos, err := app.service.ListVenuePhotos(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, photos); err != nil {
		app.internalServerError(w, r, err)
	}
}

func parseProximity(q url.Values) (*venues.Proximity, error) {
	lon, err := params.RequiredFloat(q, "lon")
	if err != nil {
		return nil, err
	}
	lat, err := params.RequiredFloat(q, "lat")
	if err != nil {
		return nil, err
	}
	maxDistance, err := params.RequiredFloat(q, "max_distance")
	if err != nil {
		return nil, err
	}
	return &venues.Proximity{
		Center:      geo.Point{Longitude: lon, Latitude: lat},
		MaxDistance: maxDistance,
	}, nil
}

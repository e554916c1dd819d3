package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RepairAllRatings godoc
//
//	@Summary		Recompute every venue's average rating
//	@Description	Repairs ratings left stale by a failed refresh. Failures are reported per venue.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	service.RepairReport
//	@Failure		401	{object}	error
//	@Security		BasicAuth
//	@Router			/admin/ratings/repair [post]
func (app *application) repairAllRatingsHandler(w http.ResponseWriter, r *http.Request) {
	report, err := app.service.RepairAllVenueRatings(r.Context())
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, report); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) repairVenueRatingHandler(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")

	rating, err := app.service.RepairVenueRating(r.Context(), venueID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	response := map[string]any{
		"venue_id":       venueID,
		"average_rating": rating,
		"updated":        rating != nil,
	}
	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

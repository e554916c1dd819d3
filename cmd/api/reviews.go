package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyspots/internal/domain/reviews"
	"studyspots/internal/service"
)

// CreateReview godoc
//
//	@Summary		Review a venue
//	@Description	The venue and the user must exist. The venue's average rating is recomputed afterwards.
//	@Tags			Review
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		service.CreateReviewInput	true	"Review"
//	@Success		201		{object}	reviews.Review
//	@Failure		400		{object}	error	"Invalid payload"
//	@Failure		422		{object}	error	"Venue or user does not exist"
//	@Router			/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var payload service.CreateReviewInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.service.CreateReview(r.Context(), payload)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	review, err := app.service.GetReview(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// Get Reviews Handler
func (app *application) listVenueReviewsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.service.ListReviewsByVenue(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateReview godoc
//
//	@Summary	Update a review
//	@Tags		Review
//	@Accept		json
//	@Produce	json
//	@Param		reviewID	path		string			true	"Review ID"
//	@Param		payload		body		reviews.Patch	true	"Fields to update"
//	@Success	200			{object}	reviews.Review
//	@Failure	400			{object}	error
//	@Failure	404			{object}	error
//	@Router		/reviews/{reviewID} [patch]
func (app *application) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	var patch reviews.Patch
	if err := readJSON(w, r, &patch); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.service.UpdateReview(r.Context(), chi.URLParam(r, "reviewID"), patch)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// Delete Review Handler
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.service.DeleteReview(r.Context(), chi.URLParam(r, "reviewID")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddReviewPhoto godoc
//
//	@Summary		Attach an already hosted photo to a review
//	@Tags			Review
//	@Accept			json
//	@Produce		json
//	@Param			reviewID	path		string					true	"Review ID"
//	@Param			payload		body		service.AddPhotoInput	true	"Photo"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Router			/reviews/{reviewID}/photos [post]
func (app *application) addReviewPhotoHandler(w http.ResponseWriter, r *http.Request) {
	var payload service.AddPhotoInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review, err := app.service.AddPhotoToReview(r.Context(), chi.URLParam(r, "reviewID"), payload)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UploadReviewPhoto godoc
//
//	@Summary		Upload a photo for a review
//	@Description	Stores the image in object storage and attaches its URL to the review.
//	@Tags			Review
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			reviewID	path		string	true	"Review ID"
//	@Param			photo		formData	file	true	"Image file (max 5MB)"
//	@Param			caption		formData	string	false	"Caption"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error
//	@Failure		503			{object}	error	"Uploads are not configured"
//	@Router			/reviews/{reviewID}/photos/upload [post]
func (app *application) uploadReviewPhotoHandler(w http.ResponseWriter, r *http.Request) {
	up, err := readImageUpload(w, r, "photo")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer up.file.Close()

	review, err := app.service.UploadReviewPhoto(
		r.Context(), chi.URLParam(r, "reviewID"), up.file, up.contentType, optionalFormValue(r, "caption"),
	)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

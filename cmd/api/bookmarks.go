package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createBookmarkPayload struct {
	UserID  string `json:"user_id" validate:"required"`
	VenueID string `json:"venue_id" validate:"required"`
}

// CreateBookmark godoc
//
//	@Summary	Bookmark a venue for a user
//	@Tags		Bookmarks
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		createBookmarkPayload	true	"User and venue"
//	@Success	201		{object}	bookmarks.Bookmark
//	@Failure	400		{object}	error
//	@Failure	409		{object}	error	"Already bookmarked"
//	@Failure	422		{object}	error	"User or venue does not exist"
//	@Router		/bookmarks [post]
func (app *application) createBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	var payload createBookmarkPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bookmark, err := app.service.CreateBookmark(r.Context(), payload.UserID, payload.VenueID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, bookmark); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	bookmark, err := app.service.GetBookmark(r.Context(), chi.URLParam(r, "bookmarkID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, bookmark); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListUserBookmarks godoc
//
//	@Summary		List a user's bookmarks
//	@Description	Newest first, each joined with a summary of its venue. The venue is null once deleted.
//	@Tags			Bookmarks
//	@Produce		json
//	@Param			userID	path	string	true	"User ID"
//	@Success		200		{array}	bookmarks.WithVenue
//	@Router			/users/{userID}/bookmarks [get]
func (app *application) listUserBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.service.ListBookmarksByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.service.DeleteBookmark(r.Context(), chi.URLParam(r, "bookmarkID")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remove bookmark by user_id and venue_id query parameters
func (app *application) deleteBookmarkByUserAndVenueHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if err := app.service.DeleteBookmarkByUserAndVenue(r.Context(), q.Get("user_id"), q.Get("venue_id")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) bookmarkExistsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	exists, err := app.service.BookmarkExists(r.Context(), q.Get("user_id"), q.Get("venue_id"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]bool{"bookmarked": exists}); err != nil {
		app.internalServerError(w, r, err)
	}
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyspots/internal/domain/users"
	"studyspots/internal/params"
	"studyspots/internal/service"
)

// CreateUser godoc
//
//	@Summary		Register a user
//	@Description	Usernames are unique and compared case-sensitively.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		service.CreateUserInput	true	"User"
//	@Success		201		{object}	users.User
//	@Failure		400		{object}	error	"Invalid payload"
//	@Failure		409		{object}	error	"Username taken"
//	@Router			/users [post]
func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload service.CreateUserInput
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.service.CreateUser(r.Context(), payload)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, err := params.ParsePagination(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.service.ListUsers(r.Context(), page.Skip, page.Limit)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) searchUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.service.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetCurrentUser godoc
//
//	@Summary	Fetch the authenticated user
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	users.User
//	@Failure	401	{object}	error
//	@Security	ApiKeyAuth
//	@Router		/users/me [get]
func (app *application) getCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.service.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// UpdateUser godoc
//
//	@Summary	Update a user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		userID	path		string		true	"User ID"
//	@Param		payload	body		users.Patch	true	"Fields to update"
//	@Success	200		{object}	users.User
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Failure	409		{object}	error	"Username taken"
//	@Router		/users/{userID} [patch]
func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var patch users.Patch
	if err := readJSON(w, r, &patch); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user, err := app.service.UpdateUser(r.Context(), chi.URLParam(r, "userID"), patch)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.service.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadProfilePicture godoc
//
//	@Summary		Upload or replace the user's profile picture
//	@Description	The previous picture, if any, is removed from object storage.
//	@Tags			Users
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			userID			path		string	true	"User ID"
//	@Param			profile_picture	formData	file	true	"Image file (max 5MB)"
//	@Success		200				{object}	users.User
//	@Failure		400				{object}	error
//	@Failure		404				{object}	error
//	@Failure		503				{object}	error	"Uploads are not configured"
//	@Router			/users/{userID}/profile-picture [put]
func (app *application) uploadProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	up, err := readImageUpload(w, r, "profile_picture")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer up.file.Close()

	user, err := app.service.UploadProfilePicture(r.Context(), chi.URLParam(r, "userID"), up.file, up.contentType)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) clearProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.service.SetProfilePicture(r.Context(), chi.URLParam(r, "userID"), nil)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pgnest/pgnest/internal/platform/middleware"
	requestutil "github.com/pgnest/pgnest/internal/platform/request"
	"github.com/pgnest/pgnest/internal/platform/respond"
	"github.com/pgnest/pgnest/internal/platform/validate"
)

// Handler implements the HTTP layer for profile management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Register attaches the account endpoints to the given router.
//
// # Endpoints
//   - GET /profile        : Returns the caller's profile.
//   - PUT /update-profile : Renames the caller's account.
func (handler *Handler) Register(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/profile", handler.getProfile)
		r.Put("/update-profile", handler.updateProfile)
	})
}

/*
GetProfile returns the authenticated caller's profile.

GET /profile

Response:
  - 200: Profile: {id, name, email}
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Token references a deleted account
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// updateProfileRequest defines the expected JSON payload for renames.
type updateProfileRequest struct {
	Name string `json:"name"`
}

/*
UpdateProfile renames the authenticated caller's account.

PUT /update-profile

Request:
  - Body: updateProfileRequest (Name)

Response:
  - 200: Profile: The updated profile
  - 400: ErrInvalidJSON/Validation: Empty or missing name
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name).MaxLen("name", input.Name, 100)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateName(request.Context(), accountID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

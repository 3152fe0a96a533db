// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package listing

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pgnest/pgnest/internal/platform/middleware"
	requestutil "github.com/pgnest/pgnest/internal/platform/request"
	"github.com/pgnest/pgnest/internal/platform/respond"
	"github.com/pgnest/pgnest/internal/platform/validate"
	"github.com/pgnest/pgnest/pkg/pagination"
)

// Handler implements the HTTP layer for the listing catalogue.
type Handler struct {
	listingService *Service
}

// NewHandler constructs a new listing [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{listingService: service}
}

// Register attaches the catalogue endpoints to the given router.
//
// # Endpoints
//   - GET    /pg       : Filtered public search.
//   - GET    /pg/{id}  : Listing details with owner.
//   - POST   /pg       : Publish a listing (auth).
//   - PUT    /pg/{id}  : Partial update, owner only (auth).
//   - DELETE /pg/{id}  : Remove a listing, owner only (auth).
//   - GET    /my/pg    : The caller's own listings (auth).
func (handler *Handler) Register(router chi.Router) {

	// Public discovery
	router.Get("/pg", handler.search)
	router.Get("/pg/{id}", handler.details)

	// Owner-scoped writes
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/pg", handler.create)
		r.Put("/pg/{id}", handler.update)
		r.Delete("/pg/{id}", handler.remove)
		r.Get("/my/pg", handler.mine)
	})
}

// # Catalogue Reads

/*
Search returns a filtered page of listings.

GET /pg

Query:
  - search: matches name or location, case-insensitive
  - gender: boy | girl | unisex
  - minPrice, maxPrice: inclusive price bounds
  - amenities: comma-separated; every listed amenity must be present
  - page, limit: pagination (limit defaults to 8)

Response:
  - 200: Paginated []Listing, newest first
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	filter := Filter{
		Search: strings.TrimSpace(query.Get("search")),
		Gender: strings.TrimSpace(query.Get("gender")),
	}

	if raw := query.Get("minPrice"); raw != "" {
		if price, err := strconv.Atoi(raw); err == nil {
			filter.MinPrice = &price
		}
	}
	if raw := query.Get("maxPrice"); raw != "" {
		if price, err := strconv.Atoi(raw); err == nil {
			filter.MaxPrice = &price
		}
	}
	if raw := query.Get("amenities"); raw != "" {
		filter.Amenities = splitAmenities(raw)
	}

	if filter.Gender != "" {
		v := &validate.Validator{}
		v.OneOf(FieldGender, filter.Gender, GenderBoy, GenderGirl, GenderUnisex)
		if err := v.Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	params := pagination.FromRequestWithLimit(request, DefaultPageSize)

	listings, total, err := handler.listingService.Search(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Details returns one listing with its owner's public profile.

GET /pg/{id}

Response:
  - 200: Details
  - 404: ErrNotFound: Unknown listing ID
*/
func (handler *Handler) details(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	details, err := handler.listingService.Details(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, details)
}

/*
Mine returns the caller's own listings.

GET /my/pg

Response:
  - 200: Paginated []Listing
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) mine(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequestWithLimit(request, DefaultPageSize)

	listings, total, err := handler.listingService.Mine(request.Context(), ownerID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, pagination.NewMeta(params.Page, params.Limit, total))
}

// # Owner-Scoped Writes

// listingPayload is the JSON body for create and update requests. Amenities
// is the comma-separated form the frontend submits.
type listingPayload struct {
	Name      *string  `json:"name"`
	Location  *string  `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Price     *int     `json:"price"`
	Gender    *string  `json:"gender"`
	Amenities *string  `json:"amenities"`
	Images    []Image  `json:"images"`
}

/*
Create publishes a new listing owned by the caller.

POST /pg

Request:
  - Body: listingPayload (all core fields required)

Response:
  - 201: Listing: The created entity
  - 400: ErrInvalidJSON/Validation: Missing fields or bad gender
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input listingPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Custom(FieldName, input.Name == nil || *input.Name == "", "is required").
		Custom(FieldLocation, input.Location == nil || *input.Location == "", "is required").
		Custom(FieldPrice, input.Price == nil || *input.Price <= 0, "must be a positive number").
		Custom(FieldGender, input.Gender == nil, "is required")
	if input.Gender != nil {
		v.OneOf(FieldGender, *input.Gender, GenderBoy, GenderGirl, GenderUnisex)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	createInput := CreateInput{
		Name:     *input.Name,
		Location: *input.Location,
		Price:    *input.Price,
		Gender:   *input.Gender,
		Images:   input.Images,
	}
	if input.Latitude != nil {
		createInput.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		createInput.Longitude = *input.Longitude
	}
	if input.Amenities != nil {
		createInput.Amenities = *input.Amenities
	}

	created, err := handler.listingService.Create(request.Context(), ownerID, createInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Update applies a partial set of changes to a listing the caller owns.

PUT /pg/{id}

Request:
  - Body: listingPayload (partial; absent fields are untouched)

Response:
  - 200: Listing: The updated entity
  - 403: ErrForbidden: Caller does not own the listing
  - 404: ErrNotFound: Unknown listing ID
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input listingPayload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	if input.Gender != nil {
		v.OneOf(FieldGender, *input.Gender, GenderBoy, GenderGirl, GenderUnisex)
	}
	if input.Price != nil {
		v.Custom(FieldPrice, *input.Price <= 0, "must be a positive number")
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.listingService.Update(request.Context(), ownerID, requestutil.ID(request, "id"), UpdateInput{
		Name:      input.Name,
		Location:  input.Location,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Price:     input.Price,
		Gender:    input.Gender,
		Amenities: input.Amenities,
		Images:    input.Images,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
Remove deletes a listing the caller owns.

DELETE /pg/{id}

Response:
  - 204: No Content: Listing removed
  - 403: ErrForbidden: Caller does not own the listing
  - 404: ErrNotFound: Unknown listing ID
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredAccountID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.listingService.Delete(request.Context(), ownerID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

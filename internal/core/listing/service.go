// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pgnest/pgnest/internal/platform/apperr"
	"github.com/pgnest/pgnest/pkg/uuid"
)

// # Service Layer

// Service orchestrates catalogue reads and owner-scoped writes.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new listing [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// # Catalogue Reads

/*
Search returns a filtered, newest-first page of listings.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Listing: The page
  - int: Total matches before paging
  - error: Retrieval failures
*/
func (service *Service) Search(context context.Context, filter Filter, limit, offset int) ([]*Listing, int, error) {
	return service.repository.List(context, filter, limit, offset)
}

/*
Details returns a listing hydrated with its owner's public profile.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Details: Listing plus owner
  - error: Not found or retrieval failures
*/
func (service *Service) Details(context context.Context, id string) (*Details, error) {
	return service.repository.FindByID(context, id)
}

/*
Mine returns a newest-first page of the caller's own listings.

Parameters:
  - context: context.Context
  - ownerID: string
  - limit: int
  - offset: int

Returns:
  - []*Listing: The page
  - int: Total owned listings
  - error: Retrieval failures
*/
func (service *Service) Mine(context context.Context, ownerID string, limit, offset int) ([]*Listing, int, error) {
	return service.repository.ListByOwner(context, ownerID, limit, offset)
}

// # Owner-Scoped Writes

// CreateInput holds the data required to publish a new listing.
//
// Amenities arrives as the comma-separated string the frontend submits; it is
// split and trimmed server-side.
type CreateInput struct {
	Name      string
	Location  string
	Latitude  float64
	Longitude float64
	Price     int
	Gender    string
	Amenities string
	Images    []Image
}

/*
Create publishes a new listing owned by the caller.

Parameters:
  - context: context.Context
  - ownerID: string
  - input: CreateInput

Returns:
  - *Listing: The created entity
  - error: Persistence failures
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Listing, error) {
	entity := &Listing{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Location:  input.Location,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Price:     input.Price,
		Gender:    input.Gender,
		Amenities: splitAmenities(input.Amenities),
		Images:    input.Images,
	}
	if entity.Images == nil {
		entity.Images = []Image{}
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, fmt.Errorf("listing_service_create_failed: %w", err)
	}

	service.logger.Info("listing_created",
		slog.String("listing_id", entity.ID),
		slog.String("owner_id", ownerID),
	)

	return entity, nil
}

// UpdateInput defines the mutable subset of listing fields. Nil fields are
// left untouched.
type UpdateInput struct {
	Name      *string
	Location  *string
	Latitude  *float64
	Longitude *float64
	Price     *int
	Gender    *string
	Amenities *string
	Images    []Image
}

/*
Update applies a partial set of changes to a listing the caller owns.

Parameters:
  - context: context.Context
  - ownerID: string
  - listingID: string
  - input: UpdateInput

Returns:
  - *Listing: The updated entity
  - error: NotFound, Forbidden (non-owner), or update failures
*/
func (service *Service) Update(context context.Context, ownerID, listingID string, input UpdateInput) (*Listing, error) {

	// Resolve and gate on ownership before touching anything.
	current, err := service.repository.FindByID(context, listingID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != ownerID {
		return nil, apperr.Forbidden("You do not own this listing")
	}

	entity := current.Listing

	// Apply delta updates
	if input.Name != nil {
		entity.Name = *input.Name
	}
	if input.Location != nil {
		entity.Location = *input.Location
	}
	if input.Latitude != nil {
		entity.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		entity.Longitude = *input.Longitude
	}
	if input.Price != nil {
		entity.Price = *input.Price
	}
	if input.Gender != nil {
		entity.Gender = *input.Gender
	}
	if input.Amenities != nil {
		entity.Amenities = splitAmenities(*input.Amenities)
	}
	if input.Images != nil {
		entity.Images = input.Images
	}

	if err := service.repository.Update(context, &entity); err != nil {
		return nil, fmt.Errorf("listing_service_update_failed: %w", err)
	}

	return &entity, nil
}

/*
Delete removes a listing the caller owns.

Parameters:
  - context: context.Context
  - ownerID: string
  - listingID: string

Returns:
  - error: NotFound, Forbidden (non-owner), or deletion failures
*/
func (service *Service) Delete(context context.Context, ownerID, listingID string) error {
	current, err := service.repository.FindByID(context, listingID)
	if err != nil {
		return err
	}
	if current.OwnerID != ownerID {
		return apperr.Forbidden("You do not own this listing")
	}

	if err := service.repository.Delete(context, listingID); err != nil {
		return fmt.Errorf("listing_service_delete_failed: %w", err)
	}

	service.logger.Info("listing_deleted",
		slog.String("listing_id", listingID),
		slog.String("owner_id", ownerID),
	)

	return nil
}

// splitAmenities turns the frontend's comma-separated amenity string into a
// trimmed slice, dropping empty segments.
func splitAmenities(raw string) []string {
	parts := strings.Split(raw, ",")
	amenities := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			amenities = append(amenities, trimmed)
		}
	}
	return amenities
}

// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

package listing

import "context"

// # Listing Data Access

// Repository defines the data access contract for listings.
type Repository interface {

	/*
		Create persists a brand-new listing.

		Parameters:
		  - context: context.Context
		  - listing: *Listing

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, listing *Listing) error

	/*
		FindByID returns the listing with its owner hydrated.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Details: Listing plus owner projection
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Details, error)

	/*
		List returns a filtered, newest-first page of listings and the total
		match count.

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
	List(context context.Context, filter Filter, limit, offset int) ([]*Listing, int, error)

	/*
		ListByOwner returns a newest-first page of one owner's listings.

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
	ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Listing, int, error)

	/*
		Update persists changes to a listing's mutable fields.

		Parameters:
		  - context: context.Context
		  - listing: *Listing

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, listing *Listing) error

	/*
		Delete permanently removes a listing.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}

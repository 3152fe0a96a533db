// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

/*
Package listing implements the PG (paying-guest) accommodation catalogue.

It defines the Listing entity, owner-scoped write operations, and the public
filtered search that powers the discovery pages.

# Architecture

Listings are owned by accounts from the users domain; ownership is enforced
in the service layer, never in SQL alone.
*/
package listing

import "time"

// # Domain Entities

// Gender values a listing may accept.
const (
	GenderBoy    = "boy"
	GenderGirl   = "girl"
	GenderUnisex = "unisex"
)

// Image is a hosted photo of a listing: the public URL plus the media
// provider's handle used for later deletion.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Listing represents a PG accommodation offer.
type Listing struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Price     int       `json:"price"`
	Gender    string    `json:"gender"`
	Amenities []string  `json:"amenities"`
	Images    []Image   `json:"images"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner is the public projection of a listing's owner.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Details is a listing hydrated with its owner, served on the detail page.
type Details struct {
	Listing
	Owner Owner `json:"owner"`
}

// # Search

// Filter holds the optional predicates of a catalogue search.
type Filter struct {
	// Search matches name or location, case-insensitively.
	Search string
	// Gender restricts to listings accepting the given gender.
	Gender string
	// MinPrice / MaxPrice bound the monthly price, inclusive.
	MinPrice *int
	MaxPrice *int
	// Amenities must ALL be present on a matching listing.
	Amenities []string
}

// DefaultPageSize is the catalogue page size when the client sends no limit.
const DefaultPageSize = 8

// # Field Identifiers

const (
	FieldName      = "name"
	FieldLocation  = "location"
	FieldPrice     = "price"
	FieldGender    = "gender"
	FieldAmenities = "amenities"
	FieldImages    = "images"
)

// Copyright (c) 2026 PGNest. All rights reserved.
// Author: hello@pgnest.app

// PostgreSQL storage implementation for the listing catalogue.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgnest/pgnest/internal/platform/dberr"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new listing record into the core.pg_listing table.

Parameters:
  - context: context.Context
  - listing: *Listing

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, listing *Listing) error {
	const query = `
		INSERT INTO core.pg_listing (
			id, ownerid, name, location, latitude, longitude, price, gender,
			amenities, images, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	images, err := json.Marshal(listing.Images)
	if err != nil {
		return fmt.Errorf("postgres_listing_repo_marshal_images_failed: %w", err)
	}

	_, err = repository.pool.Exec(context, query,
		listing.ID,
		listing.OwnerID,
		listing.Name,
		listing.Location,
		listing.Latitude,
		listing.Longitude,
		listing.Price,
		listing.Gender,
		listing.Amenities,
		images,
		listing.CreatedAt,
		listing.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_listing_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a listing joined with its owner's public profile.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Details: Hydrated listing with owner
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Details, error) {
	const query = `
		SELECT
			l.id, l.ownerid, l.name, l.location, l.latitude, l.longitude,
			l.price, l.gender, l.amenities, l.images, l.createdat, l.updatedat,
			a.id, a.name, a.email
		FROM core.pg_listing l
		JOIN users.account a ON a.id = l.ownerid
		WHERE l.id = $1`

	details := &Details{}
	var images []byte
	err := repository.pool.QueryRow(context, query, id).Scan(
		&details.ID,
		&details.OwnerID,
		&details.Name,
		&details.Location,
		&details.Latitude,
		&details.Longitude,
		&details.Price,
		&details.Gender,
		&details.Amenities,
		&images,
		&details.CreatedAt,
		&details.UpdatedAt,
		&details.Owner.ID,
		&details.Owner.Name,
		&details.Owner.Email,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "PG")
	}

	if err := json.Unmarshal(images, &details.Images); err != nil {
		return nil, fmt.Errorf("postgres_listing_repo_unmarshal_images_failed: %w", err)
	}

	return details, nil
}

/*
List returns a filtered, newest-first page of listings.

Description: Dynamic WHERE construction; a window function carries the total
match count alongside each row so a second COUNT query is unnecessary.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Listing: The page
  - int: Total matches before paging
  - error: Execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Listing, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(`
		SELECT
			id, ownerid, name, location, latitude, longitude, price, gender,
			amenities, images, createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM core.pg_listing
		WHERE TRUE`)

	// Free-text search over name and location
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR location ILIKE $%d)", argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	// Gender Filtering
	if filter.Gender != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND gender = $%d", argID))
		args = append(args, filter.Gender)
		argID++
	}

	// Price Range Filtering (inclusive bounds)
	if filter.MinPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND price >= $%d", argID))
		args = append(args, *filter.MinPrice)
		argID++
	}
	if filter.MaxPrice != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND price <= $%d", argID))
		args = append(args, *filter.MaxPrice)
		argID++
	}

	// Amenities Filtering (every requested amenity must be present)
	if len(filter.Amenities) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND $%d::text[] <@ amenities", argID))
		args = append(args, filter.Amenities)
		argID++
	}

	// Newest listings first, then page
	queryBuilder.WriteString(" ORDER BY createdat DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	return repository.queryPage(context, queryBuilder.String(), args...)
}

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
  - error: Execution errors
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Listing, int, error) {
	const query = `
		SELECT
			id, ownerid, name, location, latitude, longitude, price, gender,
			amenities, images, createdat, updatedat,
			COUNT(*) OVER() AS total_count
		FROM core.pg_listing
		WHERE ownerid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	return repository.queryPage(context, query, ownerID, limit, offset)
}

// queryPage executes a page query whose rows carry a trailing total_count column.
func (repository *PostgresRepository) queryPage(context context.Context, query string, args ...any) ([]*Listing, int, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_listing_repo_list_failed: %w", err)
	}
	defer rows.Close()

	listings := make([]*Listing, 0)
	total := 0

	for rows.Next() {
		item := &Listing{}
		var images []byte

		err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.Location,
			&item.Latitude,
			&item.Longitude,
			&item.Price,
			&item.Gender,
			&item.Amenities,
			&images,
			&item.CreatedAt,
			&item.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_listing_repo_scan_failed: %w", err)
		}

		if err := json.Unmarshal(images, &item.Images); err != nil {
			return nil, 0, fmt.Errorf("postgres_listing_repo_unmarshal_images_failed: %w", err)
		}

		listings = append(listings, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_listing_repo_rows_failed: %w", err)
	}

	return listings, total, nil
}

/*
Update persists changes to a listing's mutable fields.

Parameters:
  - context: context.Context
  - listing: *Listing

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Update(context context.Context, listing *Listing) error {
	const query = `
		UPDATE core.pg_listing
		SET name = $2, location = $3, latitude = $4, longitude = $5,
			price = $6, gender = $7, amenities = $8, images = $9, updatedat = $10
		WHERE id = $1`

	listing.UpdatedAt = time.Now()

	images, err := json.Marshal(listing.Images)
	if err != nil {
		return fmt.Errorf("postgres_listing_repo_marshal_images_failed: %w", err)
	}

	_, err = repository.pool.Exec(context, query,
		listing.ID,
		listing.Name,
		listing.Location,
		listing.Latitude,
		listing.Longitude,
		listing.Price,
		listing.Gender,
		listing.Amenities,
		images,
		listing.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_listing_repo_update_failed: %w", err)
	}

	return nil
}

/*
Delete permanently removes a listing.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM core.pg_listing WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_listing_repo_delete_failed: %w", err)
	}
	return nil
}

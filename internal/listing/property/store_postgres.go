// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package property

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xcalibur215/mmhub/internal/platform/database/schema"
	"github.com/xcalibur215/mmhub/internal/platform/dberr"
	"github.com/xcalibur215/mmhub/internal/platform/postgres"
	"github.com/xcalibur215/mmhub/pkg/pagination"
)

// PostgresRepository implements [Repository] over listing.property.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository creates a new Postgres listing repository.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectProperty = fmt.Sprintf("SELECT %s FROM %s", schema.ListingProperty.Select(), schema.ListingProperty.Table)

/*
Search returns available listings matching the filter.

Description: Builds the WHERE clause dynamically. The total is computed in
the same statement with a window function so one round trip serves both;
a page past the end therefore reports a total of 0.

Parameters:
  - context: context.Context
  - filter: Filter (Location, price bounds, minimum rooms, type, Box)
  - page: pagination.Params

Returns:
  - []*Property: One page of matches
  - int: Total matches
  - error: Database errors
*/
func (repository *PostgresRepository) Search(context context.Context, filter Filter, page pagination.Params) ([]*Property, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() FROM %s WHERE %s = $1",
		schema.ListingProperty.Select(), schema.ListingProperty.Table, schema.ListingProperty.Status))

	args := []any{string(StatusAvailable)}
	where := func(format string, values ...any) {
		placeholders := make([]any, len(values))
		for i, value := range values {
			args = append(args, value)
			placeholders[i] = len(args)
		}
		queryBuilder.WriteString(" AND ")
		queryBuilder.WriteString(fmt.Sprintf(format, placeholders...))
	}

	// Location matches city or state
	if filter.Location != "" {
		pattern := "%" + escapeLike(filter.Location) + "%"
		where(fmt.Sprintf("(%s ILIKE $%%d OR %s ILIKE $%%d)", schema.ListingProperty.City, schema.ListingProperty.State), pattern, pattern)
	}

	// Price bounds
	if filter.MinPrice != nil {
		where(schema.ListingProperty.RentPrice+" >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where(schema.ListingProperty.RentPrice+" <= $%d", *filter.MaxPrice)
	}

	// Minimum rooms
	if filter.Bedrooms != nil {
		where(schema.ListingProperty.Bedrooms+" >= $%d", *filter.Bedrooms)
	}
	if filter.Bathrooms != nil {
		where(schema.ListingProperty.Bathrooms+" >= $%d", *filter.Bathrooms)
	}

	if filter.PropertyType != "" {
		where(schema.ListingProperty.PropertyType+" = $%d", string(filter.PropertyType))
	}

	// Coarse geographic pre-filter
	if box := filter.Box; box != nil {
		where(fmt.Sprintf("%s BETWEEN $%%d AND $%%d", schema.ListingProperty.Latitude), box.MinLat, box.MaxLat)
		where(fmt.Sprintf("%s BETWEEN $%%d AND $%%d", schema.ListingProperty.Longitude), box.MinLng, box.MaxLng)
	}

	args = append(args, page.Limit, page.Offset())
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d",
		schema.ListingProperty.CreatedAt, schema.ListingProperty.ID, len(args)-1, len(args)))

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_property_repo_search_failed: %w", err)
	}
	defer rows.Close()

	properties := make([]*Property, 0, page.Limit)
	total := 0
	for rows.Next() {
		property, err := scanProperty(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_property_repo_scan_failed: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_property_repo_rows_failed: %w", err)
	}

	return properties, total, nil
}

/*
FindByID retrieves one listing.

Returns:
  - *Property: The listing
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Property, error) {
	return scanOne(repository.db.QueryRow(context, selectProperty+" WHERE id = $1", id))
}

// ListByOwner returns every listing of one owner, newest first.
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Property, error) {
	query := fmt.Sprintf("%s WHERE %s = $1 ORDER BY %s DESC",
		selectProperty, schema.ListingProperty.OwnerID, schema.ListingProperty.CreatedAt)

	rows, err := repository.db.Query(context, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("postgres_property_repo_list_by_owner_failed: %w", err)
	}
	defer rows.Close()

	var properties []*Property
	for rows.Next() {
		property, err := scanProperty(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("postgres_property_repo_scan_failed: %w", err)
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

/*
Create inserts a new listing.

Parameters:
  - context: context.Context
  - property: *Property (ID and OwnerID must be set)

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) Create(context context.Context, property *Property) error {
	columns := schema.ListingProperty.Columns()

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	now := time.Now().UTC()
	property.CreatedAt, property.UpdatedAt = now, now

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.ListingProperty.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	_, err := repository.db.Exec(context, query,
		property.ID,
		property.OwnerID,
		property.Title,
		property.Description,
		string(property.PropertyType),
		string(property.Status),
		property.Address,
		property.City,
		property.State,
		property.PostalCode,
		property.Country,
		property.Latitude,
		property.Longitude,
		property.Bedrooms,
		property.Bathrooms,
		property.SquareFeet,
		property.RentPrice,
		property.SecurityDeposit,
		property.IsFurnished,
		property.PetsAllowed,
		property.ParkingAvailable,
		property.AvailableFrom,
		property.ViewsCount,
		property.IsFeatured,
		property.CreatedAt,
		property.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_property_repo_create_failed: %w", err)
	}
	return nil
}

/*
Update applies a PATCH-style change set and returns the stored row.

Returns:
  - *Property: The listing after the change
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, id string, changes Changes) (*Property, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET %s = NOW()", schema.ListingProperty.Table, schema.ListingProperty.UpdatedAt))

	args := []any{id}
	set := func(column string, value any) {
		args = append(args, value)
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, len(args)))
	}

	if changes.Title != nil {
		set(schema.ListingProperty.Title, *changes.Title)
	}
	if changes.Description != nil {
		set(schema.ListingProperty.Description, *changes.Description)
	}
	if changes.PropertyType != nil {
		set(schema.ListingProperty.PropertyType, string(*changes.PropertyType))
	}
	if changes.Status != nil {
		set(schema.ListingProperty.Status, string(*changes.Status))
	}
	if changes.Address != nil {
		set(schema.ListingProperty.Address, *changes.Address)
	}
	if changes.City != nil {
		set(schema.ListingProperty.City, *changes.City)
	}
	if changes.State != nil {
		set(schema.ListingProperty.State, *changes.State)
	}
	if changes.PostalCode != nil {
		set(schema.ListingProperty.PostalCode, *changes.PostalCode)
	}
	if changes.Country != nil {
		set(schema.ListingProperty.Country, *changes.Country)
	}
	if changes.Latitude != nil {
		set(schema.ListingProperty.Latitude, *changes.Latitude)
	}
	if changes.Longitude != nil {
		set(schema.ListingProperty.Longitude, *changes.Longitude)
	}
	if changes.Bedrooms != nil {
		set(schema.ListingProperty.Bedrooms, *changes.Bedrooms)
	}
	if changes.Bathrooms != nil {
		set(schema.ListingProperty.Bathrooms, *changes.Bathrooms)
	}
	if changes.SquareFeet != nil {
		set(schema.ListingProperty.SquareFeet, *changes.SquareFeet)
	}
	if changes.RentPrice != nil {
		set(schema.ListingProperty.RentPrice, *changes.RentPrice)
	}
	if changes.SecurityDeposit != nil {
		set(schema.ListingProperty.SecurityDeposit, *changes.SecurityDeposit)
	}
	if changes.IsFurnished != nil {
		set(schema.ListingProperty.IsFurnished, *changes.IsFurnished)
	}
	if changes.PetsAllowed != nil {
		set(schema.ListingProperty.PetsAllowed, *changes.PetsAllowed)
	}
	if changes.ParkingAvailable != nil {
		set(schema.ListingProperty.ParkingAvailable, *changes.ParkingAvailable)
	}
	if changes.AvailableFrom != nil {
		set(schema.ListingProperty.AvailableFrom, *changes.AvailableFrom)
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $1 RETURNING %s", schema.ListingProperty.ID, schema.ListingProperty.Select()))
	return scanOne(repository.db.QueryRow(context, queryBuilder.String(), args...))
}

// Delete removes one listing; dberr.ErrNotFound when absent.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.ListingProperty.Table, schema.ListingProperty.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_property_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Row Mapping

// ScanProperty hydrates a [Property] from a row produced with
// [schema.ListingPropertyTable.Select].
func ScanProperty(row pgx.Row) (*Property, error) {
	return scanProperty(row, nil)
}

// scanProperty reads the listing columns plus, when total is non-nil, a
// trailing COUNT(*) OVER() column.
func scanProperty(row pgx.Row, total *int) (*Property, error) {
	property := &Property{}
	var propertyType, status string

	dest := []any{
		&property.ID,
		&property.OwnerID,
		&property.Title,
		&property.Description,
		&propertyType,
		&status,
		&property.Address,
		&property.City,
		&property.State,
		&property.PostalCode,
		&property.Country,
		&property.Latitude,
		&property.Longitude,
		&property.Bedrooms,
		&property.Bathrooms,
		&property.SquareFeet,
		&property.RentPrice,
		&property.SecurityDeposit,
		&property.IsFurnished,
		&property.PetsAllowed,
		&property.ParkingAvailable,
		&property.AvailableFrom,
		&property.ViewsCount,
		&property.IsFeatured,
		&property.CreatedAt,
		&property.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	property.PropertyType = Type(propertyType)
	property.Status = Status(status)
	return property, nil
}

func scanOne(row pgx.Row) (*Property, error) {
	property, err := ScanProperty(row)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_property_repo_query_failed: %w", err)
	}
	return property, nil
}

// escapeLike escapes ILIKE metacharacters in user input.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

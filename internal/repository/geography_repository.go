package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/communet/communet-api/internal/model"
)

// GeographyRepo reads the country, state and city lookup tables.
type GeographyRepo struct{ DB *sql.DB }

func NewGeographyRepo(db *sql.DB) *GeographyRepo { return &GeographyRepo{DB: db} }

// Countries lists every country.
func (r *GeographyRepo) Countries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT countryId, name FROM country ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	out := []model.Country{}
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// States lists non-deleted states, optionally restricted to one country.
func (r *GeographyRepo) States(ctx context.Context, countryID *uint64) ([]model.State, error) {
	q := "SELECT stateId, countryId, name FROM state WHERE status <> 2"
	var args []any
	if countryID != nil {
		q += " AND countryId = ?"
		args = append(args, *countryID)
	}
	rows, err := r.DB.QueryContext(ctx, q+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()

	out := []model.State{}
	for rows.Next() {
		var s model.State
		if err := rows.Scan(&s.ID, &s.CountryID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Cities lists non-deleted cities, optionally restricted to one state.
func (r *GeographyRepo) Cities(ctx context.Context, stateID *uint64) ([]model.City, error) {
	q := "SELECT cityId, stateId, name FROM city WHERE status <> 2"
	var args []any
	if stateID != nil {
		q += " AND stateId = ?"
		args = append(args, *stateID)
	}
	rows, err := r.DB.QueryContext(ctx, q+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	out := []model.City{}
	for rows.Next() {
		var c model.City
		if err := rows.Scan(&c.ID, &c.StateID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/autoapply/internal/types"
)

const jobListingColumns = `id, company_name, company_logo_url, company_website, role_title, domain,
	location_type, city, experience_required, qualification, compensation_amount, compensation_type,
	short_description, full_description, application_url, is_active, referral, selection_process,
	created_at, updated_at`

func scanJobListing(row pgx.Row) (*types.JobListing, error) {
	var j types.JobListing
	var logo, website, domain, locType, city, exp, qual, compAmount, compType, short, full, appURL *string
	var referral, selection []byte

	err := row.Scan(&j.ID, &j.CompanyName, &logo, &website, &j.RoleTitle, &domain,
		&locType, &city, &exp, &qual, &compAmount, &compType,
		&short, &full, &appURL, &j.IsActive, &referral, &selection,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}

	j.CompanyLogoURL = derefString(logo)
	j.CompanyWebsite = derefString(website)
	j.Domain = derefString(domain)
	j.LocationType = derefString(locType)
	j.City = derefString(city)
	j.ExperienceRequired = derefString(exp)
	j.Qualification = derefString(qual)
	j.CompensationAmount = derefString(compAmount)
	j.CompensationType = derefString(compType)
	j.ShortDescription = derefString(short)
	j.FullDescription = derefString(full)
	j.ApplicationURL = derefString(appURL)

	if len(referral) > 0 && string(referral) != "null" {
		j.Referral = &types.Referral{}
		if err := json.Unmarshal(referral, j.Referral); err != nil {
			return nil, fmt.Errorf("failed to decode referral: %w", err)
		}
	}
	if len(selection) > 0 && string(selection) != "null" {
		j.SelectionProcess = &types.SelectionProcess{}
		if err := json.Unmarshal(selection, j.SelectionProcess); err != nil {
			return nil, fmt.Errorf("failed to decode selection process: %w", err)
		}
	}
	return &j, nil
}

// optionalJSON encodes v for a nullable JSONB column.
func optionalJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// GetJobListing retrieves a job listing by ID. Returns nil, nil when not found.
func (db *DB) GetJobListing(ctx context.Context, id uuid.UUID) (*types.JobListing, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+jobListingColumns+` FROM job_listings WHERE id = $1`, id)
	j, err := scanJobListing(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job listing: %w", err)
	}
	return j, nil
}

// JobListingFilters holds optional filters for listing jobs
type JobListingFilters struct {
	ActiveOnly   bool
	Domain       string
	LocationType string
	Limit        int
	Offset       int
}

// ListJobListings retrieves job listings, newest first.
func (db *DB) ListJobListings(ctx context.Context, filters JobListingFilters) ([]types.JobListing, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + jobListingColumns + ` FROM job_listings WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.ActiveOnly {
		query += " AND is_active"
	}
	if filters.Domain != "" {
		query += fmt.Sprintf(" AND domain ILIKE $%d", argNum)
		args = append(args, "%"+filters.Domain+"%")
		argNum++
	}
	if filters.LocationType != "" {
		query += fmt.Sprintf(" AND location_type = $%d", argNum)
		args = append(args, filters.LocationType)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job listings: %w", err)
	}
	defer rows.Close()

	listings := []types.JobListing{}
	for rows.Next() {
		j, err := scanJobListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job listing: %w", err)
		}
		listings = append(listings, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job listings: %w", err)
	}
	return listings, nil
}

func jobListingArgs(j *types.JobListing) ([]any, error) {
	referral, err := optionalJSON(j.Referral)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal referral: %w", err)
	}
	selection, err := optionalJSON(j.SelectionProcess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selection process: %w", err)
	}
	return []any{
		j.CompanyName, nullIfEmpty(j.CompanyLogoURL), nullIfEmpty(j.CompanyWebsite), j.RoleTitle,
		nullIfEmpty(j.Domain), nullIfEmpty(j.LocationType), nullIfEmpty(j.City),
		nullIfEmpty(j.ExperienceRequired), nullIfEmpty(j.Qualification),
		nullIfEmpty(j.CompensationAmount), nullIfEmpty(j.CompensationType),
		nullIfEmpty(j.ShortDescription), nullIfEmpty(j.FullDescription), nullIfEmpty(j.ApplicationURL),
		j.IsActive, referral, selection,
	}, nil
}

// CreateJobListing inserts a job listing and returns the stored row.
func (db *DB) CreateJobListing(ctx context.Context, j *types.JobListing) (*types.JobListing, error) {
	args, err := jobListingArgs(j)
	if err != nil {
		return nil, err
	}
	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_listings (company_name, company_logo_url, company_website, role_title, domain,
		   location_type, city, experience_required, qualification, compensation_amount, compensation_type,
		   short_description, full_description, application_url, is_active, referral, selection_process)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING `+jobListingColumns,
		args...,
	)
	created, err := scanJobListing(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job listing: %w", err)
	}
	return created, nil
}

// UpdateJobListing replaces a job listing's fields. Returns nil, nil when not found.
func (db *DB) UpdateJobListing(ctx context.Context, id uuid.UUID, j *types.JobListing) (*types.JobListing, error) {
	args, err := jobListingArgs(j)
	if err != nil {
		return nil, err
	}
	args = append(args, id)
	row := db.pool.QueryRow(ctx,
		`UPDATE job_listings SET company_name = $1, company_logo_url = $2, company_website = $3,
		   role_title = $4, domain = $5, location_type = $6, city = $7, experience_required = $8,
		   qualification = $9, compensation_amount = $10, compensation_type = $11,
		   short_description = $12, full_description = $13, application_url = $14, is_active = $15,
		   referral = $16, selection_process = $17, updated_at = NOW()
		 WHERE id = $18
		 RETURNING `+jobListingColumns,
		args...,
	)
	updated, err := scanJobListing(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job listing: %w", err)
	}
	return updated, nil
}

// ToggleJobListing flips a listing's active flag and returns the new value.
func (db *DB) ToggleJobListing(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	err := db.pool.QueryRow(ctx,
		`UPDATE job_listings SET is_active = NOT is_active, updated_at = NOW()
		 WHERE id = $1 RETURNING is_active`,
		id,
	).Scan(&active)
	if err != nil {
		if isNoRows(err) {
			return false, fmt.Errorf("job listing %s: %w", id, ErrNotFound)
		}
		return false, fmt.Errorf("failed to toggle job listing: %w", err)
	}
	return active, nil
}

// DeleteJobListing removes a job listing.
func (db *DB) DeleteJobListing(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job listing %s: %w", id, ErrNotFound)
	}
	return nil
}

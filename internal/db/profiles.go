package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/types"
)

// GetProfile retrieves a user's profile. Returns nil, nil when none exists.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	var p types.Profile
	var linkedin, github, location, headline *string
	var education, experience, projects, skills, certs []byte

	err := db.pool.QueryRow(ctx,
		`SELECT user_id, full_name, email, phone, linkedin, github, location, headline,
		        education, experience, projects, skills, certifications, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &linkedin, &github, &location, &headline,
		&education, &experience, &projects, &skills, &certs, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.LinkedIn = derefString(linkedin)
	p.GitHub = derefString(github)
	p.Location = derefString(location)
	p.Headline = derefString(headline)

	for _, col := range []struct {
		name string
		data []byte
		dst  any
	}{
		{"education", education, &p.Education},
		{"experience", experience, &p.Experience},
		{"projects", projects, &p.Projects},
		{"skills", skills, &p.Skills},
		{"certifications", certs, &p.Certifications},
	} {
		if err := unmarshalJSONB(col.data, col.dst); err != nil {
			return nil, fmt.Errorf("failed to decode profile %s: %w", col.name, err)
		}
	}

	return &p, nil
}

// UpsertProfile normalizes and writes a user's profile.
func (db *DB) UpsertProfile(ctx context.Context, p *types.Profile) error {
	p.Normalize()

	cols := make([][]byte, 0, 5)
	for _, v := range []any{p.Education, p.Experience, p.Projects, p.Skills, p.Certifications} {
		data, err := marshalJSONB(v)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		cols = append(cols, data)
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, full_name, email, phone, linkedin, github, location, headline,
		                       education, experience, projects, skills, certifications, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   full_name = $2, email = $3, phone = $4, linkedin = $5, github = $6, location = $7,
		   headline = $8, education = $9, experience = $10, projects = $11, skills = $12,
		   certifications = $13, updated_at = NOW()
		 RETURNING updated_at`,
		p.UserID, p.FullName, p.Email, p.Phone,
		nullIfEmpty(p.LinkedIn), nullIfEmpty(p.GitHub), nullIfEmpty(p.Location), nullIfEmpty(p.Headline),
		cols[0], cols[1], cols[2], cols[3], cols[4],
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ListInternships returns a user's internships, newest start date first.
func (db *DB) ListInternships(ctx context.Context, userID uuid.UUID) ([]types.InternshipRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, role, company, start_date, end_date, COALESCE(description, '')
		 FROM internships WHERE user_id = $1
		 ORDER BY start_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list internships: %w", err)
	}
	defer rows.Close()

	internships := []types.InternshipRecord{}
	for rows.Next() {
		var rec types.InternshipRecord
		var endDate *time.Time
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Role, &rec.Company, &rec.StartDate, &endDate, &rec.Description); err != nil {
			return nil, fmt.Errorf("failed to scan internship: %w", err)
		}
		rec.EndDate = endDate
		internships = append(internships, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate internships: %w", err)
	}
	return internships, nil
}

// ListCompletedCourses returns the courses a user has completed.
func (db *DB) ListCompletedCourses(ctx context.Context, userID uuid.UUID) ([]types.CourseRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.title, COALESCE(c.description, '')
		 FROM course_enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.user_id = $1 AND e.status = 'completed'
		 ORDER BY e.completed_at DESC NULLS LAST`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed courses: %w", err)
	}
	defer rows.Close()

	courses := []types.CourseRecord{}
	for rows.Next() {
		var c types.CourseRecord
		if err := rows.Scan(&c.ID, &c.Title, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	return courses, nil
}

// ListStoredResumes returns a user's saved resumes, newest first.
func (db *DB) ListStoredResumes(ctx context.Context, userID uuid.UUID, limit int) ([]types.StoredResume, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, COALESCE(title, ''), resume_data, created_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.StoredResume{}
	for rows.Next() {
		var r types.StoredResume
		var data []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &data, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stored resume: %w", err)
		}
		var doc types.ResumeDocument
		if err := unmarshalJSONB(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode stored resume %s: %w", r.ID, err)
		}
		r.Resume = &doc
		resumes = append(resumes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stored resumes: %w", err)
	}
	return resumes, nil
}

// GetUserRole returns a user's role, defaulting to RoleUser when unset.
func (db *DB) GetUserRole(ctx context.Context, userID uuid.UUID) (types.Role, error) {
	var role string
	err := db.pool.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID).Scan(&role)
	if err != nil {
		if isNoRows(err) {
			return types.RoleUser, nil
		}
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return types.Role(role), nil
}

// SetUserRole assigns a role to a user.
func (db *DB) SetUserRole(ctx context.Context, userID uuid.UUID, role types.Role) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_roles (user_id, role, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET role = $2, updated_at = NOW()`,
		userID, string(role),
	)
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return nil
}

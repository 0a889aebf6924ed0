package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/types"
)

// InsertOptimizedResume stores an optimized resume snapshot. Records are
// immutable once written.
func (db *DB) InsertOptimizedResume(ctx context.Context, rec *types.OptimizedResumeRecord) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO optimized_resumes (id, user_id, job_id, resume_data, pdf_url, docx_url, optimization_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		rec.ID, rec.UserID, rec.JobID, []byte(rec.Resume), rec.PDFURL, rec.DOCXURL, rec.OptimizationScore,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert optimized resume: %w", err)
	}
	return nil
}

// GetOptimizedResume retrieves a user's optimized resume. Returns nil, nil when
// not found or owned by another user.
func (db *DB) GetOptimizedResume(ctx context.Context, id, userID uuid.UUID) (*types.OptimizedResumeRecord, error) {
	var rec types.OptimizedResumeRecord
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_id, resume_data, pdf_url, docx_url, optimization_score, created_at
		 FROM optimized_resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&rec.ID, &rec.UserID, &rec.JobID, &data, &rec.PDFURL, &rec.DOCXURL, &rec.OptimizationScore, &rec.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get optimized resume: %w", err)
	}
	rec.Resume = data
	return &rec, nil
}

package db

import (
	"context"
	"fmt"
	"log"
)

// Migration is a named, idempotent schema change.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema in apply order. Every statement must be safe to re-run.
var Migrations = []Migration{
	{
		Name: "create_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
			user_id        UUID PRIMARY KEY,
			full_name      TEXT NOT NULL DEFAULT '',
			email          TEXT NOT NULL DEFAULT '',
			phone          TEXT NOT NULL DEFAULT '',
			linkedin       TEXT,
			github         TEXT,
			location       TEXT,
			headline       TEXT,
			education      JSONB NOT NULL DEFAULT '[]'::jsonb,
			experience     JSONB NOT NULL DEFAULT '[]'::jsonb,
			projects       JSONB NOT NULL DEFAULT '[]'::jsonb,
			skills         JSONB NOT NULL DEFAULT '[]'::jsonb,
			certifications JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "create_user_roles",
		SQL: `CREATE TABLE IF NOT EXISTS user_roles (
			user_id    UUID PRIMARY KEY,
			role       TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "create_internships",
		SQL: `CREATE TABLE IF NOT EXISTS internships (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id     UUID NOT NULL,
			role        TEXT NOT NULL,
			company     TEXT NOT NULL,
			start_date  DATE NOT NULL,
			end_date    DATE,
			description TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_internships_user ON internships (user_id, start_date DESC)`,
	},
	{
		Name: "create_courses",
		SQL: `CREATE TABLE IF NOT EXISTS courses (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title       TEXT NOT NULL,
			description TEXT
		);
		CREATE TABLE IF NOT EXISTS course_enrollments (
			user_id      UUID NOT NULL,
			course_id    UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			status       TEXT NOT NULL DEFAULT 'enrolled',
			completed_at TIMESTAMPTZ,
			PRIMARY KEY (user_id, course_id)
		)`,
	},
	{
		Name: "create_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS resumes (
			id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id     UUID NOT NULL,
			title       TEXT,
			resume_data JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes (user_id, created_at DESC)`,
	},
	{
		Name: "create_job_listings",
		SQL: `CREATE TABLE IF NOT EXISTS job_listings (
			id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			company_name        TEXT NOT NULL,
			company_logo_url    TEXT,
			company_website     TEXT,
			role_title          TEXT NOT NULL,
			domain              TEXT,
			location_type       TEXT,
			city                TEXT,
			experience_required TEXT,
			qualification       TEXT,
			compensation_amount TEXT,
			compensation_type   TEXT,
			short_description   TEXT,
			full_description    TEXT,
			application_url     TEXT,
			is_active           BOOLEAN NOT NULL DEFAULT TRUE,
			referral            JSONB,
			selection_process   JSONB,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "create_optimized_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS optimized_resumes (
			id                 UUID PRIMARY KEY,
			user_id            UUID NOT NULL,
			job_id             UUID NOT NULL REFERENCES job_listings(id),
			resume_data        JSONB NOT NULL,
			pdf_url            TEXT NOT NULL,
			docx_url           TEXT NOT NULL,
			optimization_score INTEGER NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_optimized_resumes_user ON optimized_resumes (user_id, created_at DESC)`,
	},
	{
		Name: "create_payment_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS payment_transactions (
			id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id            UUID NOT NULL,
			plan_id            TEXT NOT NULL,
			coupon_code        TEXT,
			base_amount        BIGINT NOT NULL,
			discount_amount    BIGINT NOT NULL DEFAULT 0,
			wallet_deduction   BIGINT NOT NULL DEFAULT 0,
			addons_total       BIGINT NOT NULL DEFAULT 0,
			final_amount       BIGINT NOT NULL,
			currency           TEXT NOT NULL DEFAULT 'INR',
			purchase_type      TEXT NOT NULL DEFAULT 'plan',
			selected_addons    JSONB NOT NULL DEFAULT '[]'::jsonb,
			status             TEXT NOT NULL CHECK (status IN ('pending', 'success', 'failed')),
			gateway_order_id   TEXT,
			gateway_payment_id TEXT,
			error_message      TEXT,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_payment_transactions_coupon ON payment_transactions (coupon_code, status);
		CREATE INDEX IF NOT EXISTS idx_payment_transactions_user_coupon ON payment_transactions (user_id, coupon_code, status);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_transactions_order ON payment_transactions (gateway_order_id) WHERE gateway_order_id IS NOT NULL`,
	},
	{
		Name: "create_wallets",
		SQL: `CREATE TABLE IF NOT EXISTS wallets (
			user_id    UUID PRIMARY KEY,
			balance    BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
}

// Migrate applies every migration in order.
func (db *DB) Migrate(ctx context.Context) error {
	log.Printf("[db] applying %d migrations", len(Migrations))
	for _, m := range Migrations {
		if _, err := db.pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		log.Printf("[db] migration %s applied", m.Name)
	}
	return nil
}

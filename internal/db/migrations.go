package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contact_job_status') THEN
			CREATE TYPE contact_job_status AS ENUM ('queued', 'running', 'completed', 'canceled', 'failed');
		END IF;
	END
	$$;`,
	`ALTER TYPE contact_job_status ADD VALUE IF NOT EXISTS 'failed';`,
	`CREATE TABLE IF NOT EXISTS contact_jobs (
		id UUID PRIMARY KEY,
		status contact_job_status NOT NULL DEFAULT 'queued',
		total INTEGER NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		dropped INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		started_at TIMESTAMPTZ,
		finished_at TIMESTAMPTZ
	);`,
	`CREATE TABLE IF NOT EXISTS contact_job_records (
		job_id UUID NOT NULL REFERENCES contact_jobs(id) ON DELETE CASCADE,
		record_id INTEGER NOT NULL,
		city TEXT NOT NULL,
		district TEXT NOT NULL,
		neighborhood TEXT NOT NULL,
		lot TEXT NOT NULL DEFAULT '',
		extra_info TEXT NOT NULL DEFAULT '',
		full_address TEXT NOT NULL CHECK (full_address <> ''),
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		resolved_place_name TEXT NOT NULL DEFAULT '',
		resolved_phone TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		match_type VARCHAR(32) NOT NULL DEFAULT 'none',
		error_message TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (job_id, record_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contact_jobs_status ON contact_jobs (status);`,
	`CREATE INDEX IF NOT EXISTS idx_contact_job_records_status ON contact_job_records (job_id, status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/conon21154/lineguide/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreateJob(ctx context.Context, job model.Job, records []model.AddressRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO contact_jobs (
				id,
				status,
				total,
				processed,
				succeeded,
				failed,
				dropped,
				created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			job.ID,
			job.Status,
			job.Total,
			job.Processed,
			job.Succeeded,
			job.Failed,
			job.Dropped,
			job.CreatedAt,
		).Error; err != nil {
			return err
		}

		for _, record := range records {
			if err := tx.Exec(`
				INSERT INTO contact_job_records (
					job_id,
					record_id,
					city,
					district,
					neighborhood,
					lot,
					extra_info,
					full_address,
					status,
					match_type
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				job.ID,
				record.ID,
				record.City,
				record.District,
				record.Neighborhood,
				record.Lot,
				record.ExtraInfo,
				record.FullAddress,
				record.Status,
				record.MatchType,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *JobRepository) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			total,
			processed,
			succeeded,
			failed,
			dropped,
			created_at,
			started_at,
			finished_at
		FROM contact_jobs
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &job, nil
}

func (r *JobRepository) UpdateJob(ctx context.Context, job model.Job) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE contact_jobs
		SET
			status = ?,
			processed = ?,
			succeeded = ?,
			failed = ?,
			started_at = ?,
			finished_at = ?
		WHERE id = ?
	`, job.Status, job.Processed, job.Succeeded, job.Failed, job.StartedAt, job.FinishedAt, job.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *JobRepository) UpdateRecord(ctx context.Context, jobID uuid.UUID, record model.AddressRecord) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contact_job_records
		SET
			status = ?,
			resolved_place_name = ?,
			resolved_phone = ?,
			category = ?,
			match_type = ?,
			error_message = ?,
			updated_at = NOW()
		WHERE job_id = ? AND record_id = ?
	`,
		record.Status,
		record.ResolvedPlaceName,
		record.ResolvedPhone,
		record.Category,
		record.MatchType,
		record.Error,
		jobID,
		record.ID,
	).Error
}

func (r *JobRepository) ListRecords(ctx context.Context, jobID uuid.UUID) ([]model.AddressRecord, error) {
	var records []model.AddressRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			record_id AS id,
			city,
			district,
			neighborhood,
			lot,
			extra_info,
			full_address,
			status,
			resolved_place_name,
			resolved_phone,
			category,
			match_type,
			error_message AS error
		FROM contact_job_records
		WHERE job_id = ?
		ORDER BY record_id
	`, jobID).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

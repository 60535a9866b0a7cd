// Package repos provides access to job, credential and lead persistence.
package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadgrid/leadgrid/internal/db/models"
)

// ErrJobNotFound is returned when a job lookup matches no row
var ErrJobNotFound = errors.New("job not found")

// JobRepository provides access to scrape-job database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.ScrapeJob) error {
	if job.SearchTerm == "" {
		return fmt.Errorf("search term is required")
	}
	if job.Location == "" {
		return fmt.Errorf("location is required")
	}
	if job.Limit <= 0 {
		return fmt.Errorf("result limit must be positive, got %d", job.Limit)
	}
	if job.Status == "" {
		job.Status = models.JobStatusQueued
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a job by its ID
func (r *JobRepository) GetByID(ctx context.Context, id uint) (*models.ScrapeJob, error) {
	var job models.ScrapeJob
	err := r.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// GetStatus retrieves only the current status of a job. The engine polls
// this between units of work to observe external cancellation.
func (r *JobRepository) GetStatus(ctx context.Context, id uint) (models.JobStatus, error) {
	var job models.ScrapeJob
	err := r.db.WithContext(ctx).Select("status").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrJobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get job status: %w", err)
	}
	return job.Status, nil
}

// NextEligible returns the oldest-created job that is still runnable, or
// nil when the queue is idle. The total ordering on created_at is what
// guarantees at most one job is advanced per engine invocation.
func (r *JobRepository) NextEligible(ctx context.Context) (*models.ScrapeJob, error) {
	var job models.ScrapeJob
	err := r.db.WithContext(ctx).
		Where("status IN ?", models.RunnableStatuses).
		Order(models.JobCreatedAtField + " ASC").
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next eligible job: %w", err)
	}
	return &job, nil
}

// SaveProgress persists the full resumption cursor of a job as one atomic
// update. Partial progress is never visible to other readers.
func (r *JobRepository) SaveProgress(ctx context.Context, id uint, status models.JobStatus, foundCount, cityIndex int, pageToken string) error {
	return r.db.WithContext(ctx).Model(&models.ScrapeJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"found_count": foundCount,
			"city_index":  cityIndex,
			"page_token":  pageToken,
		}).Error
}

// UpdateStatus updates only the status of a job
func (r *JobRepository) UpdateStatus(ctx context.Context, id uint, status models.JobStatus) error {
	res := r.db.WithContext(ctx).Model(&models.ScrapeJob{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// List returns jobs, newest first, optionally filtered by status
func (r *JobRepository) List(ctx context.Context, status models.JobStatus, opts *models.ListOptions) ([]models.ScrapeJob, error) {
	if opts == nil {
		opts = &models.ListOptions{}
	}
	opts.Normalize()

	var jobs []models.ScrapeJob
	q := r.db.WithContext(ctx).Model(&models.ScrapeJob{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Limit(opts.Limit).Offset(opts.Offset).
		Order(models.JobCreatedAtField + " DESC").
		Find(&jobs).Error
	return jobs, err
}

// Count returns the number of jobs, optionally filtered by status
func (r *JobRepository) Count(ctx context.Context, status models.JobStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.ScrapeJob{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

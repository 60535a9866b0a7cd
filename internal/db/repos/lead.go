package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadgrid/leadgrid/internal/db/models"
)

// LeadRepository provides access to scraped-lead database operations
type LeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a new lead repository instance
func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// InsertBatch writes one flushed batch of leads in a single statement.
// Insertion order preserves discovery order.
func (r *LeadRepository) InsertBatch(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&leads).Error; err != nil {
		return fmt.Errorf("failed to insert lead batch: %w", err)
	}
	return nil
}

// ListByJob returns the leads produced by one job, oldest first
func (r *LeadRepository) ListByJob(ctx context.Context, jobID uint, opts *models.ListOptions) ([]models.Lead, error) {
	if opts == nil {
		opts = &models.ListOptions{}
	}
	opts.Normalize()

	var leads []models.Lead
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("id ASC").
		Find(&leads).Error
	return leads, err
}

// CountByJob returns the number of leads stored for a job
func (r *LeadRepository) CountByJob(ctx context.Context, jobID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lead{}).
		Where("job_id = ?", jobID).
		Count(&count).Error
	return count, err
}

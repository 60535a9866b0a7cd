package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/leadgrid/leadgrid/internal/db/models"
)

// ErrCredentialNotFound is returned when a credential lookup matches no row
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository provides access to credential database operations
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository instance
func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create creates a new credential in the database
func (r *CredentialRepository) Create(ctx context.Context, cred *models.Credential) error {
	if cred.Secret == "" {
		return fmt.Errorf("secret key material is required")
	}
	if cred.DailyCap <= 0 {
		cred.DailyCap = models.DefaultDailyCap
	}
	if cred.Status == "" {
		cred.Status = models.CredentialStatusActive
	}
	return r.db.WithContext(ctx).Create(cred).Error
}

// GetByID retrieves a credential by its ID
func (r *CredentialRepository) GetByID(ctx context.Context, id uint) (*models.Credential, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).First(&cred, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &cred, nil
}

// List returns all credentials
func (r *CredentialRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.Credential, error) {
	if opts == nil {
		opts = &models.ListOptions{}
	}
	opts.Normalize()

	var creds []models.Credential
	err := r.db.WithContext(ctx).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("id ASC").
		Find(&creds).Error
	return creds, err
}

// ListEligible returns every credential that may still be charged today,
// ordered by ascending monthly usage so callers can spread load across keys.
func (r *CredentialRepository) ListEligible(ctx context.Context) ([]models.Credential, error) {
	var creds []models.Credential
	err := r.db.WithContext(ctx).
		Where("status = ? AND usage_today < daily_cap", models.CredentialStatusActive).
		Order("usage_month ASC, id ASC").
		Find(&creds).Error
	return creds, err
}

// RecordUsage increments both usage counters and stamps last_used. Exactly
// one call per billable external request; persisted immediately so a
// truncated run can never under-count spent quota.
func (r *CredentialRepository) RecordUsage(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_today": gorm.Expr("usage_today + 1"),
			"usage_month": gorm.Expr("usage_month + 1"),
			"last_used":   now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to record usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

// UpdateStatus updates the persisted health status of a credential
func (r *CredentialRepository) UpdateStatus(ctx context.Context, id uint, status models.CredentialStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}

package services

import (
	"context"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/db/repos"
)

// Credential handles credential-related operations
type Credential struct {
	repo *repos.CredentialRepository
}

// NewCredentialService creates a new instance of the credential service
func NewCredentialService(repo *repos.CredentialRepository) *Credential {
	return &Credential{repo: repo}
}

// Create stores a new API key. The secret is persisted opaque; this service
// never interprets the key material.
func (s *Credential) Create(ctx context.Context, label, secret string, dailyCap int) (*models.Credential, error) {
	cred := &models.Credential{
		Label:    label,
		Secret:   secret,
		DailyCap: dailyCap,
		Status:   models.CredentialStatusActive,
	}
	if err := s.repo.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// List returns all credentials with their usage counters
func (s *Credential) List(ctx context.Context, opts *models.ListOptions) ([]models.Credential, error) {
	return s.repo.List(ctx, opts)
}

// UpdateStatus changes the persisted health status of a credential
func (s *Credential) UpdateStatus(ctx context.Context, id uint, status models.CredentialStatus) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

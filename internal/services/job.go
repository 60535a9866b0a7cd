// Package services implements the business operations over the repositories.
package services

import (
	"context"
	"fmt"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/db/repos"
)

// Job handles job-related operations
type Job struct {
	repo  *repos.JobRepository
	leads *repos.LeadRepository
}

// NewJobService creates a new instance of the job service
func NewJobService(repo *repos.JobRepository, leads *repos.LeadRepository) *Job {
	return &Job{repo: repo, leads: leads}
}

// Create validates and persists a new scrape job in the queued state
func (s *Job) Create(ctx context.Context, searchTerm, location string, limit int) (*models.ScrapeJob, error) {
	job := &models.ScrapeJob{
		SearchTerm: searchTerm,
		Location:   location,
		Limit:      limit,
		Status:     models.JobStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Get retrieves a job by ID
func (s *Job) Get(ctx context.Context, id uint) (*models.ScrapeJob, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns jobs, optionally filtered by status
func (s *Job) List(ctx context.Context, status models.JobStatus, opts *models.ListOptions) ([]models.ScrapeJob, error) {
	return s.repo.List(ctx, status, opts)
}

// Cancel marks a job cancelled. Terminal jobs are rejected; the row itself
// is never deleted.
func (s *Job) Cancel(ctx context.Context, id uint) error {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return fmt.Errorf("job %d is already %s", id, job.Status)
	}
	return s.repo.UpdateStatus(ctx, id, models.JobStatusCancelled)
}

// Leads returns the leads flushed for a job, in discovery order
func (s *Job) Leads(ctx context.Context, jobID uint, opts *models.ListOptions) ([]models.Lead, error) {
	if _, err := s.repo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.leads.ListByJob(ctx, jobID, opts)
}

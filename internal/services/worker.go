package services

import (
	"context"

	"github.com/leadgrid/leadgrid/internal/db/repos"
	"github.com/leadgrid/leadgrid/internal/engine"
	"github.com/leadgrid/leadgrid/internal/keypool"
	"github.com/leadgrid/leadgrid/internal/logger"
	"github.com/leadgrid/leadgrid/internal/places"
)

// Worker executes one bounded scraping slice against the oldest runnable
// job. Both drivers (the self-rescheduling worker endpoint and the
// foreground CLI loop) go through RunOnce, so resumption semantics are
// identical regardless of who invokes it.
type Worker struct {
	jobs   *repos.JobRepository
	creds  *repos.CredentialRepository
	leads  *repos.LeadRepository
	places places.Client
	opts   engine.Options
}

// NewWorker constructs a Worker.
func NewWorker(jobs *repos.JobRepository, creds *repos.CredentialRepository, leads *repos.LeadRepository, placesClient places.Client, opts engine.Options) *Worker {
	return &Worker{
		jobs:   jobs,
		creds:  creds,
		leads:  leads,
		places: placesClient,
		opts:   opts,
	}
}

// RunOnce picks the next eligible job and runs one engine slice on it. The
// second return value reports whether any job was found; false means the
// queue is idle. A fresh credential pool is built per slice so demotions
// never outlive the run that observed the failure.
func (w *Worker) RunOnce(ctx context.Context, cancelled engine.CancelFunc) (*engine.Outcome, bool, error) {
	job, err := w.jobs.NextEligible(ctx)
	if err != nil {
		return nil, false, err
	}
	if job == nil {
		logger.Debug("worker: no runnable jobs")
		return nil, false, nil
	}

	pool := keypool.New(w.creds)
	eng := engine.New(w.jobs, w.leads, pool, w.places, w.opts)

	outcome, err := eng.Run(ctx, job, cancelled)
	if err != nil {
		logger.Errorf("worker: slice on job %d failed: %v", job.ID, err)
		return outcome, true, err
	}
	return outcome, true, nil
}

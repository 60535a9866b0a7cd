// Package engine implements the time-boxed scraping loop.
//
// One Run call is one slice: it advances a single job for at most a fixed
// wall-clock budget, persisting the resumption cursor after every unit of
// work so a truncated invocation (request timeout, closed tab, crash) loses
// at most one unflushed batch and can resume exactly where it stopped.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/geo"
	"github.com/leadgrid/leadgrid/internal/logger"
	"github.com/leadgrid/leadgrid/internal/places"
)

// Default engine knobs.
const (
	// DefaultSliceBudget is the wall-clock ceiling of one invocation,
	// sized to fit inside a serverless execution window.
	DefaultSliceBudget = 40 * time.Second
	// DefaultSoftCap bounds new results per slice so one invocation
	// cannot monopolize the job row. It is enforced between pages; the
	// last page of a slice may overshoot it.
	DefaultSoftCap = 60
	// DefaultBatchSize is the flush granularity of the lead buffer.
	DefaultBatchSize = 10
)

// Options are the per-slice bounds of the engine loop.
type Options struct {
	SliceBudget time.Duration
	SoftCap     int
	BatchSize   int
}

func (o Options) withDefaults() Options {
	if o.SliceBudget <= 0 {
		o.SliceBudget = DefaultSliceBudget
	}
	if o.SoftCap <= 0 {
		o.SoftCap = DefaultSoftCap
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// JobStore persists job progress and exposes the status poll the engine
// uses to observe external cancellation.
type JobStore interface {
	GetStatus(ctx context.Context, id uint) (models.JobStatus, error)
	SaveProgress(ctx context.Context, id uint, status models.JobStatus, foundCount, cityIndex int, pageToken string) error
}

// LeadSink receives flushed batches of scraped leads. It is the seam where
// a deduplicating writer could be swapped in; the engine itself does not
// deduplicate places repeated across pages or adjacent cities.
type LeadSink interface {
	InsertBatch(ctx context.Context, leads []models.Lead) error
}

// CredentialPool supplies keys for billable calls.
type CredentialPool interface {
	Acquire(ctx context.Context) (*models.Credential, error)
	RecordUsage(ctx context.Context, id uint) error
	MarkError(id uint)
}

// CancelFunc reports whether the caller wants the run stopped. It is
// checked between units of work only; in-flight calls complete so a
// charged credential always corresponds to an attempted call.
type CancelFunc func() bool

// Outcome is the result of one engine slice.
type Outcome struct {
	Status     models.JobStatus `json:"status"`
	FoundCount int              `json:"found_count"`
	CityIndex  int              `json:"city_index"`
	PageToken  string           `json:"page_token,omitempty"`
}

// Engine drives one job slice at a time.
type Engine struct {
	jobs   JobStore
	leads  LeadSink
	pool   CredentialPool
	places places.Client
	opts   Options
}

// New creates an engine over the given collaborators.
func New(jobs JobStore, leads LeadSink, pool CredentialPool, placesClient places.Client, opts Options) *Engine {
	return &Engine{
		jobs:   jobs,
		leads:  leads,
		pool:   pool,
		places: placesClient,
		opts:   opts.withDefaults(),
	}
}

// run carries the mutable state of one slice.
type run struct {
	job        *models.ScrapeJob
	plan       []string
	cityIndex  int
	pageToken  string
	foundCount int
	sliceNew   int
	buf        []models.Lead
	batchLabel string
}

// Run executes one slice of the given job and returns its outcome. The
// final cursor is persisted unconditionally, even on error paths, and the
// buffer is flushed before any error propagates.
func (e *Engine) Run(ctx context.Context, job *models.ScrapeJob, cancelled CancelFunc) (*Outcome, error) {
	r := &run{
		job:        job,
		plan:       geo.Plan(job.Location),
		cityIndex:  job.CityIndex,
		pageToken:  job.PageToken,
		foundCount: job.FoundCount,
		buf:        make([]models.Lead, 0, e.opts.BatchSize),
		batchLabel: fmt.Sprintf("%s / %s / %s", job.SearchTerm, job.Location, uuid.NewString()[:8]),
	}
	deadline := time.Now().Add(e.opts.SliceBudget)

	logger.InfoWithFields("engine slice started", map[string]interface{}{
		"job_id":     job.ID,
		"city_index": r.cityIndex,
		"found":      r.foundCount,
		"limit":      job.Limit,
	})

	for time.Now().Before(deadline) &&
		r.foundCount < job.Limit &&
		r.sliceNew < e.opts.SoftCap &&
		r.cityIndex < len(r.plan) {

		// Cooperative cancellation, before each new page.
		if cancelled != nil && cancelled() {
			return e.finish(ctx, r, models.JobStatusCancelled, nil)
		}
		if st, err := e.jobs.GetStatus(ctx, job.ID); err == nil && st == models.JobStatusCancelled {
			return e.finish(ctx, r, models.JobStatusCancelled, nil)
		}

		cred, err := e.pool.Acquire(ctx)
		if err != nil {
			return e.finish(ctx, r, models.JobStatusPaused, err)
		}
		if cred == nil {
			// Quota exhausted. Not an error: the job waits for the
			// daily reset or a new key.
			return e.finish(ctx, r, models.JobStatusPaused, nil)
		}

		query := fmt.Sprintf("%s in %s", job.SearchTerm, r.plan[r.cityIndex])
		// Usage is charged before the call returns so an ambiguous
		// failure can only over-count quota, never under-count it.
		if err := e.pool.RecordUsage(ctx, cred.ID); err != nil {
			return e.finish(ctx, r, models.JobStatusPaused, err)
		}
		page, err := e.places.Search(ctx, cred.Secret, query, r.pageToken)
		if err != nil {
			logger.Warnf("job %d: search %q failed on credential %d: %v", job.ID, query, cred.ID, err)
			e.pool.MarkError(cred.ID)
			continue
		}

		if len(page.Results) == 0 {
			r.advanceCity()
			if err := e.save(ctx, r, models.JobStatusProcessing); err != nil {
				return e.finish(ctx, r, models.JobStatusProcessing, err)
			}
			continue
		}

		outOfKeys, err := e.collectDetails(ctx, r, page.Results)
		if err != nil {
			return e.finish(ctx, r, models.JobStatusProcessing, err)
		}
		if outOfKeys {
			return e.finish(ctx, r, models.JobStatusPaused, nil)
		}

		if page.NextPageToken != "" && r.foundCount < job.Limit {
			r.pageToken = page.NextPageToken
		} else {
			r.advanceCity()
		}
		if err := e.save(ctx, r, models.JobStatusProcessing); err != nil {
			return e.finish(ctx, r, models.JobStatusProcessing, err)
		}
	}

	final := models.JobStatusProcessing
	switch {
	case r.foundCount >= job.Limit:
		final = models.JobStatusCompleted
	case r.cityIndex >= len(r.plan):
		// Every planned city exhausted below the target count.
		final = models.JobStatusPaused
	}
	return e.finish(ctx, r, final, nil)
}

// collectDetails fetches the detail record for each search hit and buffers
// the resulting leads. It reports whether the run ran out of credentials.
func (e *Engine) collectDetails(ctx context.Context, r *run, results []places.SearchResult) (bool, error) {
	for _, hit := range results {
		// Only the job limit truncates mid-page. The soft cap is checked
		// between pages, so a started page is always drained and never
		// re-fetched with its earlier hits counted twice.
		if r.foundCount >= r.job.Limit {
			return false, nil
		}

		cred, err := e.pool.Acquire(ctx)
		if err != nil {
			return false, err
		}
		if cred == nil {
			return true, nil
		}

		if err := e.pool.RecordUsage(ctx, cred.ID); err != nil {
			return false, err
		}
		det, err := e.places.GetDetails(ctx, cred.Secret, hit.PlaceID)
		if err != nil {
			logger.Warnf("job %d: details %s failed on credential %d: %v", r.job.ID, hit.PlaceID, cred.ID, err)
			e.pool.MarkError(cred.ID)
			continue
		}
		if det.Name == "" {
			// Partial detail response: skip the place, do not count it.
			continue
		}

		r.buf = append(r.buf, models.Lead{
			JobID:      r.job.ID,
			Name:       det.Name,
			Phone:      det.Phone,
			Website:    det.Website,
			City:       r.plan[r.cityIndex],
			Query:      r.job.SearchTerm,
			BatchLabel: r.batchLabel,
		})
		r.foundCount++
		r.sliceNew++

		if len(r.buf) >= e.opts.BatchSize {
			if err := e.flush(ctx, r); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

func (r *run) advanceCity() {
	r.cityIndex++
	r.pageToken = ""
}

// flush writes the buffered leads and empties the buffer.
func (e *Engine) flush(ctx context.Context, r *run) error {
	if len(r.buf) == 0 {
		return nil
	}
	if err := e.leads.InsertBatch(ctx, r.buf); err != nil {
		return fmt.Errorf("flush %d leads: %w", len(r.buf), err)
	}
	r.buf = r.buf[:0]
	return nil
}

// finish flushes whatever is buffered, persists the final cursor and builds
// the outcome. Both writes are attempted even when the run is already
// failing; losing a flush is strictly worse than losing detail calls.
func (e *Engine) finish(ctx context.Context, r *run, status models.JobStatus, runErr error) (*Outcome, error) {
	if err := e.flush(ctx, r); err != nil {
		logger.Errorf("job %d: final flush failed: %v", r.job.ID, err)
		if runErr == nil {
			runErr = err
		}
	}
	if err := e.save(ctx, r, status); err != nil {
		logger.Errorf("job %d: final cursor persist failed: %v", r.job.ID, err)
		if runErr == nil {
			runErr = err
		}
	}

	logger.InfoWithFields("engine slice finished", map[string]interface{}{
		"job_id": r.job.ID,
		"status": status,
		"found":  r.foundCount,
	})

	return &Outcome{
		Status:     status,
		FoundCount: r.foundCount,
		CityIndex:  r.cityIndex,
		PageToken:  r.pageToken,
	}, runErr
}

func (e *Engine) save(ctx context.Context, r *run, status models.JobStatus) error {
	return e.jobs.SaveProgress(ctx, r.job.ID, status, r.foundCount, r.cityIndex, r.pageToken)
}

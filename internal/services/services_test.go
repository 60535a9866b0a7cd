package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/db/repos"
	"github.com/leadgrid/leadgrid/internal/engine"
	"github.com/leadgrid/leadgrid/internal/places"
)

// stubPlaces answers every search with a fixed page and every details call
// with a minimal record.
type stubPlaces struct {
	page *places.SearchPage
}

func (s *stubPlaces) Search(_ context.Context, _, _, _ string) (*places.SearchPage, error) {
	return s.page, nil
}

func (s *stubPlaces) GetDetails(_ context.Context, _, placeID string) (*places.Details, error) {
	return &places.Details{Name: placeID, Phone: "+421 900 123 456"}, nil
}

type ServicesTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	jobRepo  *repos.JobRepository
	credRepo *repos.CredentialRepository
	leadRepo *repos.LeadRepository
	jobs     *Job
	creds    *Credential
}

func (s *ServicesTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.ScrapeJob{}, &models.Credential{}, &models.Lead{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.jobRepo = repos.NewJobRepository(db)
	s.credRepo = repos.NewCredentialRepository(db)
	s.leadRepo = repos.NewLeadRepository(db)
	s.jobs = NewJobService(s.jobRepo, s.leadRepo)
	s.creds = NewCredentialService(s.credRepo)
	s.ctx = context.Background()
}

func (s *ServicesTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func (s *ServicesTestSuite) TestJobCreateStartsQueued() {
	job, err := s.jobs.Create(s.ctx, "pekáreň", "Nitra", 10)
	s.Require().NoError(err)
	s.NotZero(job.ID)
	s.Equal(models.JobStatusQueued, job.Status)
	s.Zero(job.FoundCount)
}

func (s *ServicesTestSuite) TestJobCancel() {
	job, err := s.jobs.Create(s.ctx, "pekáreň", "Nitra", 10)
	s.Require().NoError(err)

	s.Require().NoError(s.jobs.Cancel(s.ctx, job.ID))

	got, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCancelled, got.Status)
}

func (s *ServicesTestSuite) TestJobCancelRejectsTerminal() {
	job, err := s.jobs.Create(s.ctx, "pekáreň", "Nitra", 10)
	s.Require().NoError(err)
	s.Require().NoError(s.jobRepo.UpdateStatus(s.ctx, job.ID, models.JobStatusCompleted))

	err = s.jobs.Cancel(s.ctx, job.ID)
	s.Require().Error(err)
	s.Contains(err.Error(), "already completed")

	// The row is untouched, not deleted.
	got, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCompleted, got.Status)
}

func (s *ServicesTestSuite) TestJobLeadsRequiresExistingJob() {
	_, err := s.jobs.Leads(s.ctx, 4242, nil)
	s.Require().ErrorIs(err, repos.ErrJobNotFound)
}

func (s *ServicesTestSuite) TestCredentialCreateIsOpaque() {
	cred, err := s.creds.Create(s.ctx, "primary", "sk-raw-secret", 500)
	s.Require().NoError(err)
	s.Equal(models.CredentialStatusActive, cred.Status)
	s.Equal("sk-raw-secret", cred.Secret, "the secret is stored as given")
	s.Equal(500, cred.DailyCap)
}

func (s *ServicesTestSuite) TestWorkerRunOnceIdle() {
	worker := NewWorker(s.jobRepo, s.credRepo, s.leadRepo, &stubPlaces{page: &places.SearchPage{}}, engine.Options{})

	outcome, ran, err := worker.RunOnce(s.ctx, nil)
	s.Require().NoError(err)
	s.False(ran)
	s.Nil(outcome)
}

func (s *ServicesTestSuite) TestWorkerRunOnceCompletesJob() {
	_, err := s.creds.Create(s.ctx, "primary", "sk-1", 300)
	s.Require().NoError(err)
	job, err := s.jobs.Create(s.ctx, "pekáreň", "Dúbravka", 2)
	s.Require().NoError(err)

	stub := &stubPlaces{page: &places.SearchPage{Results: []places.SearchResult{
		{PlaceID: "p1", Name: "p1"},
		{PlaceID: "p2", Name: "p2"},
	}}}
	worker := NewWorker(s.jobRepo, s.credRepo, s.leadRepo, stub, engine.Options{})

	outcome, ran, err := worker.RunOnce(s.ctx, nil)
	s.Require().NoError(err)
	s.True(ran)
	s.Equal(models.JobStatusCompleted, outcome.Status)
	s.Equal(2, outcome.FoundCount)

	got, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCompleted, got.Status)
	s.Equal(2, got.FoundCount)

	leads, err := s.jobs.Leads(s.ctx, job.ID, nil)
	s.Require().NoError(err)
	s.Len(leads, 2)

	// 1 search plus 2 detail calls charged against the single key.
	creds, err := s.creds.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(creds, 1)
	s.Equal(3, creds[0].UsageToday)
	s.Equal(3, creds[0].UsageMonth)
}

func (s *ServicesTestSuite) TestWorkerRunOncePausesWithoutCredentials() {
	_, err := s.jobs.Create(s.ctx, "pekáreň", "Nitra", 2)
	s.Require().NoError(err)

	worker := NewWorker(s.jobRepo, s.credRepo, s.leadRepo, &stubPlaces{page: &places.SearchPage{}}, engine.Options{})

	outcome, ran, err := worker.RunOnce(s.ctx, nil)
	s.Require().NoError(err)
	s.True(ran)
	s.Equal(models.JobStatusPaused, outcome.Status)
}

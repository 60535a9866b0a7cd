package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/leadgrid/leadgrid/internal/db/models"
)

type JobRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestJobRepository(t *testing.T) {
	suite.Run(t, new(JobRepositoryTestSuite))
}

func (s *JobRepositoryTestSuite) TestCreate() {
	job := s.createTestJob()
	s.NotZero(job.ID)
	s.Equal(models.JobStatusQueued, job.Status)
}

func (s *JobRepositoryTestSuite) TestCreateRejectsInvalid() {
	err := s.jobRepo.Create(s.ctx, &models.ScrapeJob{Location: "Nitra", Limit: 5})
	s.Error(err, "missing search term")

	err = s.jobRepo.Create(s.ctx, &models.ScrapeJob{SearchTerm: "kaviareň", Limit: 5})
	s.Error(err, "missing location")

	err = s.jobRepo.Create(s.ctx, &models.ScrapeJob{SearchTerm: "kaviareň", Location: "Nitra", Limit: 0})
	s.Error(err, "non-positive limit")
}

func (s *JobRepositoryTestSuite) TestGetByID() {
	original := s.createTestJob()

	found, err := s.jobRepo.GetByID(s.ctx, original.ID)
	s.NoError(err)
	s.Equal(original.ID, found.ID)
	s.Equal(original.SearchTerm, found.SearchTerm)

	_, err = s.jobRepo.GetByID(s.ctx, 999)
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *JobRepositoryTestSuite) TestNextEligibleOldestFirst() {
	first := s.createTestJob()
	time.Sleep(5 * time.Millisecond)
	s.createTestJob()

	next, err := s.jobRepo.NextEligible(s.ctx)
	s.NoError(err)
	s.Require().NotNil(next)
	s.Equal(first.ID, next.ID)
}

func (s *JobRepositoryTestSuite) TestNextEligibleSkipsTerminal() {
	first := s.createTestJob()
	time.Sleep(5 * time.Millisecond)
	second := s.createTestJob()

	s.Require().NoError(s.jobRepo.UpdateStatus(s.ctx, first.ID, models.JobStatusCompleted))

	next, err := s.jobRepo.NextEligible(s.ctx)
	s.NoError(err)
	s.Require().NotNil(next)
	s.Equal(second.ID, next.ID)

	s.Require().NoError(s.jobRepo.UpdateStatus(s.ctx, second.ID, models.JobStatusCancelled))

	next, err = s.jobRepo.NextEligible(s.ctx)
	s.NoError(err)
	s.Nil(next, "no runnable job left")
}

func (s *JobRepositoryTestSuite) TestNextEligibleIncludesPausedAndProcessing() {
	job := s.createTestJob()

	for _, status := range []models.JobStatus{models.JobStatusPaused, models.JobStatusProcessing} {
		s.Require().NoError(s.jobRepo.UpdateStatus(s.ctx, job.ID, status))
		next, err := s.jobRepo.NextEligible(s.ctx)
		s.NoError(err)
		s.Require().NotNil(next, "status %s must be re-entrant", status)
		s.Equal(job.ID, next.ID)
	}
}

func (s *JobRepositoryTestSuite) TestSaveProgress() {
	job := s.createTestJob()

	err := s.jobRepo.SaveProgress(s.ctx, job.ID, models.JobStatusProcessing, 3, 2, "tok-42")
	s.NoError(err)

	updated, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.JobStatusProcessing, updated.Status)
	s.Equal(3, updated.FoundCount)
	s.Equal(2, updated.CityIndex)
	s.Equal("tok-42", updated.PageToken)
}

func (s *JobRepositoryTestSuite) TestGetStatus() {
	job := s.createTestJob()

	status, err := s.jobRepo.GetStatus(s.ctx, job.ID)
	s.NoError(err)
	s.Equal(models.JobStatusQueued, status)

	_, err = s.jobRepo.GetStatus(s.ctx, 999)
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *JobRepositoryTestSuite) TestList() {
	s.createTestJob()
	job2 := s.createTestJob()
	s.Require().NoError(s.jobRepo.UpdateStatus(s.ctx, job2.ID, models.JobStatusCompleted))

	all, err := s.jobRepo.List(s.ctx, "", nil)
	s.NoError(err)
	s.Len(all, 2)

	completed, err := s.jobRepo.List(s.ctx, models.JobStatusCompleted, nil)
	s.NoError(err)
	s.Len(completed, 1)
	s.Equal(job2.ID, completed[0].ID)
}

func (s *JobRepositoryTestSuite) TestCount() {
	s.createTestJob()
	s.createTestJob()

	count, err := s.jobRepo.Count(s.ctx, "")
	s.NoError(err)
	s.EqualValues(2, count)

	count, err = s.jobRepo.Count(s.ctx, models.JobStatusCompleted)
	s.NoError(err)
	s.EqualValues(0, count)
}

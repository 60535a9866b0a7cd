package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/leadgrid/leadgrid/internal/db/models"
)

type CredentialRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestCredentialRepository(t *testing.T) {
	suite.Run(t, new(CredentialRepositoryTestSuite))
}

func (s *CredentialRepositoryTestSuite) TestCreateDefaults() {
	cred := &models.Credential{Secret: "sk-1"}
	s.Require().NoError(s.credRepo.Create(s.ctx, cred))

	s.Equal(models.CredentialStatusActive, cred.Status)
	s.Equal(models.DefaultDailyCap, cred.DailyCap)
}

func (s *CredentialRepositoryTestSuite) TestCreateRequiresSecret() {
	err := s.credRepo.Create(s.ctx, &models.Credential{Label: "no-secret"})
	s.Error(err)
}

func (s *CredentialRepositoryTestSuite) TestListEligibleFiltersAndOrders() {
	mk := func(status models.CredentialStatus, usageToday, usageMonth int) *models.Credential {
		cred := &models.Credential{
			Secret:     "sk",
			Status:     status,
			UsageToday: usageToday,
			UsageMonth: usageMonth,
			DailyCap:   300,
		}
		s.Require().NoError(s.credRepo.Create(s.ctx, cred))
		return cred
	}

	low := mk(models.CredentialStatusActive, 10, 100)
	high := mk(models.CredentialStatusActive, 10, 500)
	mk(models.CredentialStatusError, 0, 0)
	mk(models.CredentialStatusLimitReached, 0, 0)
	mk(models.CredentialStatusActive, 300, 1) // at the cap today

	eligible, err := s.credRepo.ListEligible(s.ctx)
	s.NoError(err)
	s.Require().Len(eligible, 2)
	s.Equal(low.ID, eligible[0].ID, "lowest monthly usage first")
	s.Equal(high.ID, eligible[1].ID)
}

func (s *CredentialRepositoryTestSuite) TestRecordUsage() {
	cred := s.createTestCredential()

	s.Require().NoError(s.credRepo.RecordUsage(s.ctx, cred.ID))
	s.Require().NoError(s.credRepo.RecordUsage(s.ctx, cred.ID))

	updated, err := s.credRepo.GetByID(s.ctx, cred.ID)
	s.NoError(err)
	s.Equal(2, updated.UsageToday)
	s.Equal(2, updated.UsageMonth)
	s.NotNil(updated.LastUsed)
}

func (s *CredentialRepositoryTestSuite) TestRecordUsageUnknownID() {
	s.ErrorIs(s.credRepo.RecordUsage(s.ctx, 999), ErrCredentialNotFound)
}

func (s *CredentialRepositoryTestSuite) TestUpdateStatus() {
	cred := s.createTestCredential()

	s.Require().NoError(s.credRepo.UpdateStatus(s.ctx, cred.ID, models.CredentialStatusLimitReached))

	updated, err := s.credRepo.GetByID(s.ctx, cred.ID)
	s.NoError(err)
	s.Equal(models.CredentialStatusLimitReached, updated.Status)

	eligible, err := s.credRepo.ListEligible(s.ctx)
	s.NoError(err)
	s.Empty(eligible)
}

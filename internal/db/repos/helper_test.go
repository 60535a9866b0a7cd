package repos

import (
	"context"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/leadgrid/leadgrid/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	ctx      context.Context
	jobRepo  *JobRepository
	credRepo *CredentialRepository
	leadRepo *LeadRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.AutoMigrate(&models.ScrapeJob{}, &models.Credential{}, &models.Lead{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.jobRepo = NewJobRepository(db)
	s.credRepo = NewCredentialRepository(db)
	s.leadRepo = NewLeadRepository(db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestJob() *models.ScrapeJob {
	job := &models.ScrapeJob{
		SearchTerm: "pekáreň",
		Location:   "Bratislava",
		Limit:      5,
		Status:     models.JobStatusQueued,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}

func (s *DBRepositoryTestSuite) createTestCredential() *models.Credential {
	cred := &models.Credential{
		Label:    "test-key",
		Secret:   "sk-test",
		Status:   models.CredentialStatusActive,
		DailyCap: 300,
	}
	s.Require().NoError(s.credRepo.Create(s.ctx, cred))
	return cred
}

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/db/repos"
	"github.com/leadgrid/leadgrid/internal/services"
	"github.com/leadgrid/leadgrid/internal/types"
)

type JobHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	jobRepo *repos.JobRepository
	app     *fiber.App
}

func (s *JobHandlerTestSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		s.T().Fatal("failed to connect database")
	}
	if err := s.db.AutoMigrate(&models.ScrapeJob{}, &models.Lead{}); err != nil {
		s.T().Fatal("failed to migrate database schema")
	}

	s.jobRepo = repos.NewJobRepository(s.db)
	leadRepo := repos.NewLeadRepository(s.db)
	handler := NewJobHandler(services.NewJobService(s.jobRepo, leadRepo))

	s.app = fiber.New()
	s.app.Post("/jobs", handler.CreateJob)
	s.app.Get("/jobs/:id", handler.GetJob)
	s.app.Post("/jobs/:id/cancel", handler.CancelJob)
	s.app.Get("/jobs/:id/leads", handler.ListJobLeads)
}

func (s *JobHandlerTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

func TestJobHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}

func (s *JobHandlerTestSuite) decodeEnvelope(resp *http.Response) types.SlugResponse {
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	var envelope types.SlugResponse
	s.Require().NoError(json.Unmarshal(body, &envelope))
	return envelope
}

func (s *JobHandlerTestSuite) TestCreateJob() {
	req := httptest.NewRequest("POST", "/jobs",
		strings.NewReader(`{"search_term":"pekáreň","location":"Nitra","limit":20}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	s.Equal(fiber.StatusCreated, resp.StatusCode)

	envelope := s.decodeEnvelope(resp)
	s.Equal(types.SuccessSlug, envelope.Slug)

	data := envelope.Data.(map[string]interface{})
	s.Equal("pekáreň", data["search_term"])
	s.Equal(string(models.JobStatusQueued), data["status"])
	s.Equal(float64(0), data["found_count"])
}

func (s *JobHandlerTestSuite) TestCreateJobRejectsMissingFields() {
	req := httptest.NewRequest("POST", "/jobs", strings.NewReader(`{"location":"Nitra"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
	s.Equal(types.InvalidInputSlug, s.decodeEnvelope(resp).Slug)
}

func (s *JobHandlerTestSuite) TestGetJobNotFound() {
	resp, err := s.app.Test(httptest.NewRequest("GET", "/jobs/999", nil), -1)
	s.Require().NoError(err)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	s.Equal(types.NotFoundSlug, s.decodeEnvelope(resp).Slug)
}

func (s *JobHandlerTestSuite) TestCancelJob() {
	job := &models.ScrapeJob{SearchTerm: "pekáreň", Location: "Nitra", Limit: 5}
	s.Require().NoError(s.jobRepo.Create(context.Background(), job))

	resp, err := s.app.Test(httptest.NewRequest("POST", "/jobs/1/cancel", nil), -1)
	s.Require().NoError(err)
	s.Equal(fiber.StatusOK, resp.StatusCode)

	got, err := s.jobRepo.GetByID(context.Background(), job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCancelled, got.Status)
}

func (s *JobHandlerTestSuite) TestCancelJobConflictWhenTerminal() {
	job := &models.ScrapeJob{SearchTerm: "pekáreň", Location: "Nitra", Limit: 5}
	s.Require().NoError(s.jobRepo.Create(context.Background(), job))
	s.Require().NoError(s.jobRepo.UpdateStatus(context.Background(), job.ID, models.JobStatusCompleted))

	resp, err := s.app.Test(httptest.NewRequest("POST", "/jobs/1/cancel", nil), -1)
	s.Require().NoError(err)
	s.Equal(fiber.StatusConflict, resp.StatusCode)
}

func (s *JobHandlerTestSuite) TestListJobLeadsUnknownJob() {
	resp, err := s.app.Test(httptest.NewRequest("GET", "/jobs/42/leads", nil), -1)
	s.Require().NoError(err)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

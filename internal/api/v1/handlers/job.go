// Package handlers provides HTTP request handling
package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/db/repos"
	"github.com/leadgrid/leadgrid/internal/services"
	"github.com/leadgrid/leadgrid/internal/types"
)

// JobHandler handles HTTP requests for scrape jobs
type JobHandler struct {
	jobService *services.Job
}

// NewJobHandler creates a new instance of JobHandler
func NewJobHandler(jobService *services.Job) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// getPaginationOptions converts a 1-based page query into list options
func getPaginationOptions(page int) *models.ListOptions {
	if page < 1 {
		page = 1
	}
	return &models.ListOptions{
		Limit:  models.DefaultLimit,
		Offset: (page - 1) * models.DefaultLimit,
	}
}

// CreateJob handles creating a new scrape job
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	var req types.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	job, err := h.jobService.Create(c.Context(), req.SearchTerm, req.Location, req.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(job))
}

// GetJob handles retrieving a job by ID
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput("Job ID is required"))
	}

	job, err := h.jobService.Get(c.Context(), uint(id))
	if errors.Is(err, repos.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrNotFound(err.Error()))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}
	return c.JSON(types.Success(job))
}

// ListJobs handles retrieving all jobs with pagination
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	listOpts := getPaginationOptions(page)

	var status models.JobStatus
	if str := c.Query("status"); str != "" {
		parsed, err := models.ParseJobStatus(str)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
		}
		status = parsed
	}

	jobs, err := h.jobService.List(c.Context(), status, listOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(map[string]interface{}{
		"jobs": jobs,
		"pagination": types.PaginationResponse{
			Total:  len(jobs),
			Page:   page,
			Limit:  listOpts.Limit,
			Offset: listOpts.Offset,
		},
	}))
}

// CancelJob handles stopping a job. The row is kept; only the status moves
// to its terminal state.
func (h *JobHandler) CancelJob(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput("Job ID is required"))
	}

	if err := h.jobService.Cancel(c.Context(), uint(id)); err != nil {
		if errors.Is(err, repos.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrNotFound(err.Error()))
		}
		return c.Status(fiber.StatusConflict).JSON(types.ErrInvalidInput(err.Error()))
	}
	return c.JSON(types.Success(nil))
}

// ListJobLeads handles retrieving the leads flushed for a job
func (h *JobHandler) ListJobLeads(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput("Job ID is required"))
	}

	page := c.QueryInt("page", 1)
	listOpts := getPaginationOptions(page)

	leads, err := h.jobService.Leads(c.Context(), uint(id), listOpts)
	if errors.Is(err, repos.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(types.ErrNotFound(err.Error()))
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(map[string]interface{}{
		"leads": leads,
		"pagination": types.PaginationResponse{
			Total:  len(leads),
			Page:   page,
			Limit:  listOpts.Limit,
			Offset: listOpts.Offset,
		},
	}))
}

// Package client provides the API client for interacting with the leadgrid API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/engine"
	"github.com/leadgrid/leadgrid/internal/types"
	"github.com/leadgrid/leadgrid/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// JobList is the payload of the job listing endpoint
type JobList struct {
	Jobs       []models.ScrapeJob       `json:"jobs"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// LeadList is the payload of the job leads endpoint
type LeadList struct {
	Leads      []models.Lead            `json:"leads"`
	Pagination types.PaginationResponse `json:"pagination"`
}

// CredentialList is the payload of the credential listing endpoint
type CredentialList struct {
	Credentials []models.Credential      `json:"credentials"`
	Pagination  types.PaginationResponse `json:"pagination"`
}

// Client is the interface for the API client
type Client interface {
	HealthCheck(ctx context.Context) (map[string]string, error)

	CreateJob(ctx context.Context, req types.CreateJobRequest) (*models.ScrapeJob, error)
	GetJob(ctx context.Context, id uint) (*models.ScrapeJob, error)
	ListJobs(ctx context.Context, status string, page int) (*JobList, error)
	CancelJob(ctx context.Context, id uint) error
	ListJobLeads(ctx context.Context, id uint, page int) (*LeadList, error)

	CreateCredential(ctx context.Context, req types.CreateCredentialRequest) (*models.Credential, error)
	ListCredentials(ctx context.Context, page int) (*CredentialList, error)

	TriggerWorker(ctx context.Context) (*engine.Outcome, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string
	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	if body != nil {
		agent.JSON(body)
	}
	return agent, nil
}

// slugEnvelope mirrors types.SlugResponse with the data left raw so it can
// be decoded into the caller's target type.
type slugEnvelope struct {
	Slug  types.Slug      `json:"slug"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// doRequest sends the request and decodes the slug envelope into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode < 200 || statusCode >= 300 {
		var envelope slugEnvelope
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
			return &fiber.Error{Code: statusCode, Message: envelope.Error}
		}
		return &fiber.Error{Code: statusCode, Message: string(body)}
	}
	if v == nil {
		return nil
	}

	var envelope slugEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		return fmt.Errorf("error decoding response data: %w", err)
	}
	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return c.doRequest(agent, response)
}

// HealthCheck checks the server health endpoint
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != http.StatusOK {
		return nil, &fiber.Error{Code: statusCode, Message: string(body)}
	}
	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return health, nil
}

// CreateJob creates a new scrape job
func (c *APIClient) CreateJob(ctx context.Context, req types.CreateJobRequest) (*models.ScrapeJob, error) {
	var job models.ScrapeJob
	if err := c.executeRequest(ctx, http.MethodPost, routes.JobsPath, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob retrieves a job by ID
func (c *APIClient) GetJob(ctx context.Context, id uint) (*models.ScrapeJob, error) {
	var job models.ScrapeJob
	if err := c.executeRequest(ctx, http.MethodGet, routes.JobPath(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs lists jobs, optionally filtered by status
func (c *APIClient) ListJobs(ctx context.Context, status string, page int) (*JobList, error) {
	endpoint := fmt.Sprintf("%s?page=%d", routes.JobsPath, page)
	if status != "" {
		endpoint += "&status=" + url.QueryEscape(status)
	}
	var list JobList
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CancelJob stops a job
func (c *APIClient) CancelJob(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodPost, routes.JobCancelPath(id), nil, nil)
}

// ListJobLeads lists the leads flushed for a job
func (c *APIClient) ListJobLeads(ctx context.Context, id uint, page int) (*LeadList, error) {
	endpoint := fmt.Sprintf("%s?page=%d", routes.JobLeadsPath(id), page)
	var list LeadList
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateCredential registers a new API key
func (c *APIClient) CreateCredential(ctx context.Context, req types.CreateCredentialRequest) (*models.Credential, error) {
	var cred models.Credential
	if err := c.executeRequest(ctx, http.MethodPost, routes.CredentialsPath, req, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// ListCredentials lists all credentials
func (c *APIClient) ListCredentials(ctx context.Context, page int) (*CredentialList, error) {
	endpoint := fmt.Sprintf("%s?page=%d", routes.CredentialsPath, page)
	var list CredentialList
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// TriggerWorker asks the server to run one background slice
func (c *APIClient) TriggerWorker(ctx context.Context) (*engine.Outcome, error) {
	var outcome engine.Outcome
	if err := c.executeRequest(ctx, http.MethodGet, routes.WorkerRunPath, nil, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

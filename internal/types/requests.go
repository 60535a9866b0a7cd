package types

import "fmt"

// CreateJobRequest is the payload for creating a scrape job
type CreateJobRequest struct {
	SearchTerm string `json:"search_term"`
	Location   string `json:"location"`
	Limit      int    `json:"limit"`
}

// Validate validates the create-job payload
func (r *CreateJobRequest) Validate() error {
	if r.SearchTerm == "" {
		return fmt.Errorf("search_term is required")
	}
	if r.Location == "" {
		return fmt.Errorf("location is required")
	}
	if r.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	return nil
}

// CreateCredentialRequest is the payload for registering an API key
type CreateCredentialRequest struct {
	Label    string `json:"label"`
	Secret   string `json:"secret"`
	DailyCap int    `json:"daily_cap"`
}

// Validate validates the create-credential payload
func (r *CreateCredentialRequest) Validate() error {
	if r.Secret == "" {
		return fmt.Errorf("secret is required")
	}
	if r.DailyCap < 0 {
		return fmt.Errorf("daily_cap must not be negative")
	}
	return nil
}

// PaginationResponse represents pagination information for list endpoints
type PaginationResponse struct {
	Total  int `json:"total"`
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Package routes defines the API URL structure shared by the server, the
// client and the worker trigger.
package routes

import "fmt"

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Endpoint paths, relative to the server base URL
const (
	// JobsPath is the collection endpoint for scrape jobs
	JobsPath = APIv1Prefix + "/jobs"
	// CredentialsPath is the collection endpoint for API credentials
	CredentialsPath = APIv1Prefix + "/credentials"
	// WorkerRunPath is the background-driver endpoint; one GET runs one slice
	WorkerRunPath = APIv1Prefix + "/worker/run"
)

// JobPath returns the endpoint for a single job
func JobPath(id uint) string {
	return fmt.Sprintf("%s/%d", JobsPath, id)
}

// JobLeadsPath returns the leads endpoint for a single job
func JobLeadsPath(id uint) string {
	return fmt.Sprintf("%s/%d/leads", JobsPath, id)
}

// JobCancelPath returns the cancel endpoint for a single job
func JobCancelPath(id uint) string {
	return fmt.Sprintf("%s/%d/cancel", JobsPath, id)
}

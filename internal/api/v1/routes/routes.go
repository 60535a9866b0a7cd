// Package routes registers the v1 API routes.
package v1

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/leadgrid/leadgrid/internal/api/v1/handlers"
	"github.com/leadgrid/leadgrid/pkg/api/v1/routes"
)

// Register registers the v1 routes on the app
func Register(app *fiber.App, jobHandler *handlers.JobHandler, credHandler *handlers.CredentialHandler, workerHandler *handlers.WorkerHandler) {
	v1Group := app.Group(routes.APIv1Prefix)

	// Job routes
	jobs := v1Group.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)
	jobs.Post("/", jobHandler.CreateJob)
	jobs.Get("/:id", jobHandler.GetJob)
	jobs.Get("/:id/leads", jobHandler.ListJobLeads)
	jobs.Post("/:id/cancel", jobHandler.CancelJob)

	// Credential routes
	creds := v1Group.Group("/credentials")
	creds.Get("/", credHandler.ListCredentials)
	creds.Post("/", credHandler.CreateCredential)

	// Worker route; GET so the self-trigger and the periodic ping stay
	// plain fire-and-forget requests.
	v1Group.Get("/worker/run", workerHandler.RunSlice)
}

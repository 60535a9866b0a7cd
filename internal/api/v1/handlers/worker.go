package handlers

import (
	"net/http"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/leadgrid/leadgrid/internal/db/models"
	"github.com/leadgrid/leadgrid/internal/logger"
	"github.com/leadgrid/leadgrid/internal/services"
	"github.com/leadgrid/leadgrid/internal/types"
)

// triggerTimeout bounds the fire-and-forget self call. The response is
// never awaited for its content, only for connection teardown.
const triggerTimeout = 5 * time.Second

// WorkerHandler handles the background driver endpoint. Every invocation
// runs exactly one engine slice; when the slice reports more work, the
// handler re-triggers itself so the chain of short slices survives hard
// execution-time ceilings.
type WorkerHandler struct {
	worker     *services.Worker
	triggerURL string
	client     *http.Client
}

// NewWorkerHandler creates a new instance of WorkerHandler. triggerURL is
// the public URL of the worker endpoint itself.
func NewWorkerHandler(worker *services.Worker, triggerURL string) *WorkerHandler {
	return &WorkerHandler{
		worker:     worker,
		triggerURL: triggerURL,
		client:     &http.Client{Timeout: triggerTimeout},
	}
}

// RunSlice handles one background slice invocation
func (h *WorkerHandler) RunSlice(c *fiber.Ctx) error {
	outcome, ran, err := h.worker.RunOnce(c.Context(), nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}
	if !ran {
		return c.JSON(types.Success(map[string]interface{}{"idle": true}))
	}

	if outcome.Status == models.JobStatusProcessing {
		h.Trigger()
	}
	return c.JSON(types.Success(outcome))
}

// Trigger fires the self re-invocation without awaiting its result. Errors
// are swallowed: a broken chain stalls until the periodic ping restarts it.
func (h *WorkerHandler) Trigger() {
	if h.triggerURL == "" {
		return
	}
	go func() {
		resp, err := h.client.Get(h.triggerURL)
		if err != nil {
			logger.Debugf("worker self-trigger failed: %v", err)
			return
		}
		_ = resp.Body.Close()
	}()
}

package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/leadgrid/leadgrid/internal/services"
	"github.com/leadgrid/leadgrid/internal/types"
)

// CredentialHandler handles HTTP requests for API credentials
type CredentialHandler struct {
	credService *services.Credential
}

// NewCredentialHandler creates a new instance of CredentialHandler
func NewCredentialHandler(credService *services.Credential) *CredentialHandler {
	return &CredentialHandler{credService: credService}
}

// CreateCredential handles registering a new API key
func (h *CredentialHandler) CreateCredential(c *fiber.Ctx) error {
	var req types.CreateCredentialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput("Invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	cred, err := h.credService.Create(c.Context(), req.Label, req.Secret, req.DailyCap)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(cred))
}

// ListCredentials handles retrieving all credentials with their usage counters
func (h *CredentialHandler) ListCredentials(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	listOpts := getPaginationOptions(page)

	creds, err := h.credService.List(c.Context(), listOpts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(err.Error()))
	}

	return c.JSON(types.Success(map[string]interface{}{
		"credentials": creds,
		"pagination": types.PaginationResponse{
			Total:  len(creds),
			Page:   page,
			Limit:  listOpts.Limit,
			Offset: listOpts.Offset,
		},
	}))
}

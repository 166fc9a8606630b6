package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"agentsleads/internal/domain"
	"agentsleads/internal/middleware"
	"agentsleads/internal/service/client"
)

type ClientHandler struct {
	clientService  client.Service
	validator      *Validator
	catalogMaxSize int64
}

func NewClientHandler(clientService client.Service, validator *Validator, catalogMaxSize int64) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		validator:      validator,
		catalogMaxSize: catalogMaxSize,
	}
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.clientService.List(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": clients,
	})
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("clientId"))
	if err != nil {
		return middleware.BadRequest("Invalid client ID")
	}

	detail, err := h.clientService.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(detail)
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateClientInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validator.Validate(input); err != nil {
		return err
	}

	detail, err := h.clientService.Create(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(detail)
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("clientId"))
	if err != nil {
		return middleware.BadRequest("Invalid client ID")
	}

	var input domain.UpdateClientInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validator.Validate(input); err != nil {
		return err
	}

	updated, err := h.clientService.Update(c.Context(), id, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ClientHandler) UploadCatalog(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("clientId"))
	if err != nil {
		return middleware.BadRequest("Invalid client ID")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	if h.catalogMaxSize > 0 && file.Size > h.catalogMaxSize {
		return middleware.BadRequest(fmt.Sprintf("File size must be less than %dMB", h.catalogMaxSize>>20))
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer fileReader.Close()

	updated, err := h.clientService.UploadCatalog(c.Context(), id, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *ClientHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.clientService.ListPlans(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": plans,
	})
}

package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"agentsleads/internal/domain"
	"agentsleads/internal/middleware"
	"agentsleads/internal/service/lead"
)

type LeadHandler struct {
	leadService lead.Service
	validator   *Validator
}

func NewLeadHandler(leadService lead.Service, validator *Validator) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		validator:   validator,
	}
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	filter := domain.LeadFilter{Search: c.Query("search")}

	if raw := c.Query("classification"); raw != "" {
		class := domain.Classification(raw)
		if !class.IsValid() {
			return middleware.BadRequest("Invalid classification")
		}
		filter.Classification = &class
	}

	if raw := c.Query("bot_paused"); raw != "" {
		paused, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.BadRequest("Invalid bot_paused value")
		}
		filter.BotPaused = &paused
	}

	result, err := h.leadService.List(c.Context(), viewer, filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *LeadHandler) Stats(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	stats, err := h.leadService.Stats(c.Context(), viewer)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}

func (h *LeadHandler) Get(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("leadId"))
	if err != nil {
		return middleware.BadRequest("Invalid lead ID")
	}

	lead, err := h.leadService.GetByID(c.Context(), viewer, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(lead)
}

func (h *LeadHandler) Messages(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("leadId"))
	if err != nil {
		return middleware.BadRequest("Invalid lead ID")
	}

	messages, err := h.leadService.Messages(c.Context(), viewer, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": messages,
	})
}

func (h *LeadHandler) ToggleBotPause(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentViewer(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("leadId"))
	if err != nil {
		return middleware.BadRequest("Invalid lead ID")
	}

	var input domain.ToggleBotPauseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := h.validator.Validate(input); err != nil {
		return err
	}

	result, err := h.leadService.ToggleBotPause(c.Context(), viewer, id, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/autopost/internal/service"
	"github.com/maheshrc27/autopost/internal/transfer"
)

type CaptionHandler struct {
	s service.CaptionService
}

func NewCaptionHandler(service service.CaptionService) *CaptionHandler {
	return &CaptionHandler{s: service}
}

func (h *CaptionHandler) GenerateCaption(c *fiber.Ctx) error {
	var req transfer.CaptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unable to parse request",
		})
	}
	if err := req.Validate(); err != nil {
		return failure(c, err)
	}

	caption, err := h.s.Generate(c.Context(), req.Prompt, req.Platform)
	if err != nil {
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"caption": caption,
	})
}

func (h *CaptionHandler) GenerateAllCaptions(c *fiber.Ctx) error {
	var req transfer.AllCaptionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unable to parse request",
		})
	}
	if err := req.Validate(); err != nil {
		return failure(c, err)
	}

	captions, err := h.s.GenerateAll(c.Context(), req.Prompt, req.Platforms)
	if err != nil {
		return failure(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"captions": captions,
	})
}

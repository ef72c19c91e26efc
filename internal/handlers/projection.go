package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-growth-api/internal/models"
	"portfolio-growth-api/internal/projection"
	"portfolio-growth-api/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ProjectionHandler struct {
	service  *services.ProjectionService
	rates    *services.RateService
	validate *validator.Validate
}

func NewProjectionHandler(service *services.ProjectionService, rates *services.RateService) *ProjectionHandler {
	return &ProjectionHandler{
		service:  service,
		rates:    rates,
		validate: validator.New(),
	}
}

// GetProjection handles POST /v1/projection
func (h *ProjectionHandler) GetProjection(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var req models.ProjectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    400,
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid projection parameters",
			Message: err.Error(),
			Code:    400,
		})
	}

	result, err := h.service.GenerateProjection(ctx, req)
	if err != nil {
		if errors.Is(err, projection.ErrInvalidArgument) {
			return c.Status(400).JSON(models.ErrorResponse{
				Error:   "Invalid projection parameters",
				Message: err.Error(),
				Code:    400,
			})
		}
		return c.Status(500).JSON(models.ErrorResponse{
			Error:   "Failed to generate projection",
			Message: err.Error(),
			Code:    500,
		})
	}

	return c.JSON(result)
}

// GetRate handles GET /v1/rates/:symbol
func (h *ProjectionHandler) GetRate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 15*time.Second)
	defer cancel()

	symbol := strings.ToUpper(c.Params("symbol"))
	if symbol == "" {
		return c.Status(400).JSON(models.ErrorResponse{
			Error: "Symbol is required",
			Code:  400,
		})
	}

	data, err := h.rates.GetRate(ctx, symbol)
	if err != nil {
		return c.Status(404).JSON(models.ErrorResponse{
			Error:   "Rate preset not available",
			Message: err.Error(),
			Code:    404,
		})
	}

	return c.JSON(data)
}

// GetRates handles GET /v1/rates?symbols=VOO,QQQ
func (h *ProjectionHandler) GetRates(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 30*time.Second)
	defer cancel()

	raw := c.Query("symbols")
	if raw == "" {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Symbols are required",
			Message: "Provide a comma-separated symbols query parameter",
			Code:    400,
		})
	}

	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}

	if len(symbols) == 0 || len(symbols) > 50 {
		return c.Status(400).JSON(models.ErrorResponse{
			Error:   "Invalid symbols",
			Message: "Between 1 and 50 symbols allowed per request",
			Code:    400,
		})
	}

	results, err := h.rates.FetchBatch(ctx, symbols)
	if err != nil {
		return c.Status(502).JSON(models.ErrorResponse{
			Error:   "Failed to fetch rate presets",
			Message: err.Error(),
			Code:    502,
		})
	}

	return c.JSON(results)
}

// ResetCache handles POST /v1/admin/refresh
func (h *ProjectionHandler) ResetCache(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	if err := h.service.ResetCache(ctx); err != nil {
		return c.Status(500).JSON(models.ErrorResponse{
			Error:   "Failed to reset cache",
			Message: err.Error(),
			Code:    500,
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cache reset successfully",
		"time":    time.Now(),
	})
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}

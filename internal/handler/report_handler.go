package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hint-engine-api/internal/models"
	"github.com/noah-isme/hint-engine-api/internal/service"
	"github.com/noah-isme/hint-engine-api/internal/utils"
)

// ReportHandler exposes the operator reporting endpoints.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/top-variants", h.topVariants)
	router.Get("/sessions/:id", h.sessionHistory)
}

func (h *ReportHandler) sessionHistory(c *fiber.Ctx) error {
	sessionID := strings.TrimSpace(c.Params("id"))
	if sessionID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "missing session id")
	}

	response, err := h.service.SessionHistory(c.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrStoreUnavailable):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "store unavailable, retry the request")
		default:
			h.logger.Error().Err(err).Msg("session history report failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "session history computed", response)
}

func (h *ReportHandler) topVariants(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	level, err := parseQueryInt(c, "level")
	if err != nil || level < 0 || level > models.MaxLevel {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid level")
	}

	category := strings.TrimSpace(c.Query("category"))
	if category != "" && !models.IsValidCategory(category) {
		return utils.SendError(c, fiber.StatusBadRequest, "unknown category")
	}

	response, err := h.service.TopVariants(c.Context(), service.TopVariantsQuery{
		Category: category,
		Level:    level,
		Limit:    limit,
	})
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "store unavailable, retry the request")
		}
		h.logger.Error().Err(err).Msg("top variants report failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "top variants computed", response)
}

package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hint-engine-api/internal/dto"
	"github.com/noah-isme/hint-engine-api/internal/service"
	"github.com/noah-isme/hint-engine-api/internal/utils"
)

// HintHandler exposes the hint endpoint consumed by grading platforms.
type HintHandler struct {
	service   service.HintService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewHintHandler constructs the handler.
func NewHintHandler(service service.HintService, validator *validator.Validate, logger zerolog.Logger) *HintHandler {
	return &HintHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "hint_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *HintHandler) Register(router fiber.Router) {
	router.Post("", h.create)
}

func (h *HintHandler) create(c *fiber.Ctx) error {
	var payload dto.HintRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.RequestHint(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "hint selected", response)
}

func (h *HintHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "store unavailable, retry the request")
	default:
		h.logger.Error().Err(err).Msg("hint request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

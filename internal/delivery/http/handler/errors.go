package handler

import (
	"errors"

	"roleready/internal/delivery/http/dto"
	"roleready/internal/delivery/http/middleware"
	"roleready/internal/pkg/response"
	"roleready/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapUsecaseError turns usecase errors into HTTP errors. Unknown errors
// become a 500 with the cause kept for logging.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var edge *usecase.EdgeCaseError
	if errors.As(err, &edge) {
		status := fiber.StatusBadRequest
		if edge.Code == usecase.CodeRoleNotFound {
			status = fiber.StatusNotFound
		}
		return middleware.NewAppError(status, edge.Message, fiber.Map{
			"code":       edge.Code,
			"action_url": edge.ActionURL,
		}, err)
	}

	var cooldown *usecase.CooldownError
	if errors.As(err, &cooldown) {
		return middleware.NewAppError(fiber.StatusBadRequest, cooldown.Message, fiber.Map{
			"code":              "COOLDOWN_ACTIVE",
			"remaining_seconds": cooldown.RemainingSeconds(),
		}, err)
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrInvalidLevel):
		return middleware.NewAppError(fiber.StatusBadRequest, "Level must be between 1 and 5", nil, err)
	case errors.Is(err, usecase.ErrInvalidBenchmarks):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrUserSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User skill not found", nil, err)
	case errors.Is(err, usecase.ErrRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Role not found", nil, err)
	case errors.Is(err, usecase.ErrTargetRoleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "No target role selected", nil, err)
	case errors.Is(err, usecase.ErrSnapshotNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "No readiness calculation yet", nil, err)
	case errors.Is(err, usecase.ErrSkillAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, usecase.ErrRoleAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "Role already exists", nil, err)
	case errors.Is(err, usecase.ErrAlreadyValidated):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already validated", nil, err)
	case errors.Is(err, usecase.ErrNotPending):
		return middleware.NewAppError(fiber.StatusConflict, "Skill has no pending validation request", nil, err)
	case errors.Is(err, usecase.ErrCalculationInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "A readiness calculation is already running", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// bindAndValidate decodes the JSON body into req and runs its validation
// tags.
func bindAndValidate(c fiber.Ctx, req interface{ Validate() error }) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if err := req.Validate(); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", fiber.Map{"fields": dto.FieldErrors(err)}, err)
	}
	return nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

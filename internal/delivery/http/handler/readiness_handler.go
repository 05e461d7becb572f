package handler

import (
	"strconv"

	"roleready/internal/delivery/http/dto"
	"roleready/internal/delivery/http/middleware"
	"roleready/internal/pkg/response"
	"roleready/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ReadinessHandler struct {
	uc usecase.ReadinessUsecase
}

func NewReadinessHandler(uc usecase.ReadinessUsecase) *ReadinessHandler {
	return &ReadinessHandler{uc: uc}
}

func (h *ReadinessHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/readiness")
	grp.Get("/context", h.Context)
	grp.Get("/latest", h.Latest)
	grp.Get("/history", h.History)
	grp.Post("/", h.Calculate)
	grp.Patch("/", h.RecalculateFromValidation)
}

// RegisterAdminRoutes expects r to be guarded by the admin role check.
func (h *ReadinessHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/users/:id/readiness", h.AdminRecalculate)
}

func (h *ReadinessHandler) Context(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	rc, err := h.uc.Context(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReadinessContextResponse(rc))
}

func (h *ReadinessHandler) Calculate(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CalculateReadinessRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	out, err := h.uc.Calculate(c.Context(), userID, usecase.CalculateInput{
		Force:        req.Force,
		BypassReason: req.BypassReason,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return writeOutcome(c, out)
}

func (h *ReadinessHandler) RecalculateFromValidation(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	out, err := h.uc.RecalculateFromValidation(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return writeOutcome(c, out)
}

func (h *ReadinessHandler) Latest(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	r, snap, err := h.uc.Latest(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLatestReadinessResponse(r, snap))
}

func (h *ReadinessHandler) History(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
		limit = n
	}

	items, err := h.uc.History(c.Context(), userID, limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSnapshotResponses(items))
}

func (h *ReadinessHandler) AdminRecalculate(c fiber.Ctx) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	out, err := h.uc.AdminRecalculate(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return writeOutcome(c, out)
}

// writeOutcome answers 201 when a snapshot was appended and 200 for a no-op.
func writeOutcome(c fiber.Ctx, out usecase.CalculationOutcome) error {
	res := dto.NewCalculationResponse(out)
	if !out.Recalculated {
		msg := out.Message
		if msg == "" {
			msg = response.MessageOK
		}
		return response.Success(c, fiber.StatusOK, msg, res)
	}
	return response.Created(c, res)
}

package handler

import (
	"roleready/internal/delivery/http/dto"
	"roleready/internal/delivery/http/middleware"
	"roleready/internal/pkg/response"
	"roleready/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TargetRoleHandler struct {
	uc usecase.TargetRoleUsecase
}

func NewTargetRoleHandler(uc usecase.TargetRoleUsecase) *TargetRoleHandler {
	return &TargetRoleHandler{uc: uc}
}

func (h *TargetRoleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me/target-role")
	grp.Get("/", h.Get)
	grp.Put("/", h.Set)
	grp.Get("/history", h.History)
}

func (h *TargetRoleHandler) Get(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	tr, err := h.uc.GetTargetRole(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTargetRoleResponse(tr))
}

func (h *TargetRoleHandler) Set(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.SetTargetRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tr, err := h.uc.SetTargetRole(c.Context(), userID, req.RoleID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Target role updated", dto.NewTargetRoleResponse(tr))
}

func (h *TargetRoleHandler) History(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.History(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTargetRoleResponses(items))
}

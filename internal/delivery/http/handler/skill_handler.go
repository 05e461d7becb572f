package handler

import (
	"roleready/internal/delivery/http/dto"
	"roleready/internal/pkg/response"
	"roleready/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.List)
}

// RegisterAdminRoutes expects r to be guarded by the admin role check.
func (h *SkillHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/skills", h.Create)
	r.Delete("/skills/:id", h.Deactivate)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponses(items))
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req dto.CreateSkillRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.uc.AddSkill(c.Context(), usecase.AddSkillInput{Name: req.Name, Domain: req.Domain})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewSkillResponse(created))
}

func (h *SkillHandler) Deactivate(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeactivateSkill(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Skill deactivated", nil)
}

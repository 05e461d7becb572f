package handler

import (
	"roleready/internal/delivery/http/dto"
	"roleready/internal/domain/role"
	"roleready/internal/pkg/response"
	"roleready/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type RoleHandler struct {
	uc usecase.RoleUsecase
}

func NewRoleHandler(uc usecase.RoleUsecase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

func (h *RoleHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/roles", h.List)
	r.Get("/roles/:id", h.Get)
}

// RegisterAdminRoutes expects r to be guarded by the admin role check.
func (h *RoleHandler) RegisterAdminRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/roles", h.Create)
	r.Put("/roles/:id/benchmarks", h.ReplaceBenchmarks)
}

func (h *RoleHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListRoles(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoleResponses(items))
}

func (h *RoleHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	r, err := h.uc.GetRole(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoleResponse(r))
}

func (h *RoleHandler) Create(c fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.uc.CreateRole(c.Context(), usecase.CreateRoleInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Benchmarks:  toBenchmarkInputs(req.Benchmarks),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewRoleResponse(created))
}

func (h *RoleHandler) ReplaceBenchmarks(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReplaceBenchmarksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.uc.ReplaceBenchmarks(c.Context(), id, toBenchmarkInputs(req.Benchmarks))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRoleResponse(updated))
}

func toBenchmarkInputs(items []dto.BenchmarkRequest) []usecase.BenchmarkInput {
	out := make([]usecase.BenchmarkInput, 0, len(items))
	for _, b := range items {
		out = append(out, usecase.BenchmarkInput{
			SkillID:       b.SkillID,
			Importance:    role.Importance(b.Importance),
			Weight:        b.Weight,
			RequiredLevel: b.RequiredLevel,
		})
	}
	return out
}

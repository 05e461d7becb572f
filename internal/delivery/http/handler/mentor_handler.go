package handler

import (
	"strconv"

	"roleready/internal/delivery/http/dto"
	"roleready/internal/delivery/http/middleware"
	"roleready/internal/pkg/response"
	"roleready/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MentorHandler struct {
	uc usecase.ValidationUsecase
}

func NewMentorHandler(uc usecase.ValidationUsecase) *MentorHandler {
	return &MentorHandler{uc: uc}
}

// RegisterRoutes expects r to be guarded by the mentor role check.
func (h *MentorHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/validations", h.ListPending)
	r.Post("/validations/:id", h.Review)
}

func (h *MentorHandler) ListPending(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
		limit = n
	}

	items, err := h.uc.ListPending(c.Context(), limit)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPendingValidationResponses(items))
}

func (h *MentorHandler) Review(c fiber.Ctx) error {
	mentorID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	us, err := h.uc.Review(c.Context(), mentorID, id, usecase.ReviewInput{
		Action: usecase.ReviewAction(req.Action),
		Note:   req.Note,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Validation recorded", dto.NewUserSkillResponse(us))
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/shared"
)

type FamilyHandler struct {
	familySvc FamilyServiceInterface
}

func NewFamilyHandler(familySvc FamilyServiceInterface) *FamilyHandler {
	return &FamilyHandler{familySvc: familySvc}
}

// @Summary Create a family goal
// @Description Create a new adventure goal. Only one goal may be active per guardian.
// @Tags goals
// @Accept json
// @Produce json
// @Security Bearer
// @Param goalRequest body dto.CreateGoalRequest true "Goal details"
// @Success 201 {object} shared.Response{data=dto.GoalResponse}
// @Router /api/v1/goals [post]
func (h *FamilyHandler) CreateGoal(c *fiber.Ctx) error {
	var req dto.CreateGoalRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.familySvc.CreateGoal(callerID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Goal created", resp)
}

// @Summary Get the active family goal
// @Description Get the guardian's active goal with its contributions
// @Tags goals
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.GoalResponse}
// @Router /api/v1/goals/active [get]
func (h *FamilyHandler) ActiveGoal(c *fiber.Ctx) error {
	resp, err := h.familySvc.GetActiveGoal(callerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List family goals
// @Description List every goal of the guardian, achieved ones included
// @Tags goals
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.GoalResponse}
// @Router /api/v1/goals [get]
func (h *FamilyHandler) ListGoals(c *fiber.Ctx) error {
	resp, err := h.familySvc.ListGoals(callerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

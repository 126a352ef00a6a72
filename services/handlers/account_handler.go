package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hearthquest/quest_api/shared"
)

type AccountHandler struct {
	accountSvc AccountServiceInterface
}

func NewAccountHandler(accountSvc AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// @Summary Get my progress
// @Description Get the caller's account progress: XP, coins, level, streaks, skills
// @Tags accounts
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.AccountProgressResponse}
// @Router /api/v1/accounts/me [get]
func (h *AccountHandler) MyProgress(c *fiber.Ctx) error {
	resp, err := h.accountSvc.GetProgressByUserID(callerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get account progress
// @Description Get a linked account's progress. Guardians may only view their own students.
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "Account ID"
// @Success 200 {object} shared.Response{data=dto.AccountProgressResponse}
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Progress(c *fiber.Ctx) error {
	accountID := c.Params("id")

	if callerRole(c) != shared.RoleAdmin {
		ok, err := h.accountSvc.CanGuardianView(callerID(c), accountID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewForbiddenError(nil, "Account is not linked to you")
		}
	}

	resp, err := h.accountSvc.GetProgress(accountID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List family progress
// @Description List the progress of every account linked to the guardian
// @Tags accounts
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.AccountProgressResponse}
// @Router /api/v1/accounts [get]
func (h *AccountHandler) FamilyProgress(c *fiber.Ctx) error {
	resp, err := h.accountSvc.ListFamilyProgress(callerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get account activity history
// @Description List an account's submissions, newest first
// @Tags accounts
// @Produce json
// @Security Bearer
// @Param id path string true "Account ID"
// @Param limit query int false "Max results (default 25, cap 100)"
// @Success 200 {object} shared.Response{data=[]dto.ActivityResponse}
// @Router /api/v1/accounts/{id}/activities [get]
func (h *AccountHandler) ActivityHistory(c *fiber.Ctx) error {
	accountID := c.Params("id")

	if callerRole(c) != shared.RoleAdmin {
		ok, err := h.accountSvc.CanGuardianView(callerID(c), accountID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewForbiddenError(nil, "Account is not linked to you")
		}
	}

	resp, err := h.accountSvc.GetActivityHistory(accountID, c.QueryInt("limit"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/shared"
)

type ActivityHandler struct {
	rewardSvc  RewardServiceInterface
	accountSvc AccountServiceInterface
}

func NewActivityHandler(rewardSvc RewardServiceInterface, accountSvc AccountServiceInterface) *ActivityHandler {
	return &ActivityHandler{rewardSvc: rewardSvc, accountSvc: accountSvc}
}

// @Summary Submit an activity
// @Description Submit a completed activity for review. Activities that do not
// @Description require approval are credited immediately.
// @Tags activities
// @Accept json
// @Produce json
// @Security Bearer
// @Param submitRequest body dto.SubmitActivityRequest true "Submission details"
// @Success 201 {object} shared.Response{data=dto.ApprovalResponse}
// @Router /api/v1/activities [post]
func (h *ActivityHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitActivityRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.rewardSvc.SubmitActivity(callerID(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Activity submitted", resp)
}

// @Summary Approve a pending activity
// @Description Approve a submitted activity and credit its rewards. Safe to
// @Description retry: a second approval of the same activity fails with 404.
// @Tags activities
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Activity ID"
// @Param approveRequest body dto.ApproveActivityRequest true "Approval details"
// @Success 200 {object} shared.Response{data=dto.ApprovalResponse}
// @Router /api/v1/activities/{id}/approve [post]
func (h *ActivityHandler) Approve(c *fiber.Ctx) error {
	var req dto.ApproveActivityRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.rewardSvc.Approve(c.Params("id"), callerID(c), callerRole(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Activity approved", resp)
}

// @Summary Reject a pending activity
// @Description Reject a submitted activity. No rewards are credited.
// @Tags activities
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Activity ID"
// @Param rejectRequest body dto.RejectActivityRequest true "Rejection details"
// @Success 200 {object} shared.Response{data=dto.ActivityResponse}
// @Router /api/v1/activities/{id}/reject [post]
func (h *ActivityHandler) Reject(c *fiber.Ctx) error {
	var req dto.RejectActivityRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.rewardSvc.Reject(c.Params("id"), callerID(c), callerRole(c), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Activity rejected", resp)
}

// @Summary List pending reviews
// @Description List pending submissions across the guardian's linked accounts, oldest first
// @Tags activities
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.ActivityResponse}
// @Router /api/v1/activities/pending [get]
func (h *ActivityHandler) PendingReviews(c *fiber.Ctx) error {
	resp, err := h.accountSvc.GetPendingReviews(callerID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

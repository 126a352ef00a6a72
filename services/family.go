// services/family.go
package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

type FamilyService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const FAMILY_SVC = "family_svc"

func (svc FamilyService) Id() string {
	return FAMILY_SVC
}

func (svc *FamilyService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *FamilyService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// CreateGoal starts a new adventure goal. One active goal per guardian: an
// achieved goal is frozen, so a fresh one must be created to keep
// contributions flowing.
func (svc *FamilyService) CreateGoal(guardianID string, req dto.CreateGoalRequest) (*dto.GoalResponse, error) {
	existing, err := svc.sqlSvc.RewardStore().GetActiveGoal(guardianID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to check active goals")
	}
	if existing != nil {
		return nil, shared.NewConflictError(fmt.Errorf("goal %s still active", existing.ID),
			"An active family goal already exists")
	}

	id, _ := uuid.NewV7()
	now := time.Now()
	goal, err := svc.sqlSvc.CreateFamilyGoal(&model.FamilyGoal{
		ID:           id.String(),
		GuardianID:   guardianID,
		Title:        req.Title,
		Description:  req.Description,
		PointsTarget: req.PointsTarget,
		Status:       shared.GoalActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create goal")
	}

	resp := toGoalResponse(goal, nil)
	return &resp, nil
}

// GetActiveGoal returns the guardian's active goal with its contributions.
func (svc *FamilyService) GetActiveGoal(guardianID string) (*dto.GoalResponse, error) {
	goal, err := svc.sqlSvc.RewardStore().GetActiveGoal(guardianID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load goal")
	}
	if goal == nil {
		return nil, shared.NewNotFoundError(nil, "No active family goal")
	}

	contributions, err := svc.sqlSvc.GetGoalContributions(goal.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load contributions")
	}

	resp := toGoalResponse(goal, contributions)
	return &resp, nil
}

// ListGoals returns every goal of the guardian, achieved ones included.
func (svc *FamilyService) ListGoals(guardianID string) ([]dto.GoalResponse, error) {
	goals, err := svc.sqlSvc.GetFamilyGoals(guardianID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load goals")
	}

	responses := make([]dto.GoalResponse, len(goals))
	for i := range goals {
		responses[i] = toGoalResponse(&goals[i], nil)
	}
	return responses, nil
}

func toGoalResponse(goal *model.FamilyGoal, contributions []model.GoalContribution) dto.GoalResponse {
	resp := dto.GoalResponse{
		ID:            goal.ID,
		Title:         goal.Title,
		Description:   goal.Description,
		PointsTarget:  goal.PointsTarget,
		PointsCurrent: goal.PointsCurrent,
		Status:        goal.Status,
		AchievedAt:    goal.AchievedAt,
		CreatedAt:     goal.CreatedAt,
	}

	for _, c := range contributions {
		resp.Contributions = append(resp.Contributions, dto.ContributionInfo{
			AccountID:  c.AccountID,
			ActivityID: c.ActivityID,
			Points:     c.Points,
			CreatedAt:  c.CreatedAt,
		})
	}
	return resp
}

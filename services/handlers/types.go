package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/shared"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type RewardServiceInterface interface {
	SubmitActivity(userID string, req dto.SubmitActivityRequest) (*dto.ApprovalResponse, error)
	Approve(activityID, reviewerID, reviewerRole string, req dto.ApproveActivityRequest) (*dto.ApprovalResponse, error)
	Reject(activityID, reviewerID, reviewerRole string, req dto.RejectActivityRequest) (*dto.ActivityResponse, error)
}

type AccountServiceInterface interface {
	GetProgressByUserID(userID string) (*dto.AccountProgressResponse, error)
	GetProgress(accountID string) (*dto.AccountProgressResponse, error)
	ListFamilyProgress(guardianID string) ([]dto.AccountProgressResponse, error)
	CanGuardianView(guardianID, accountID string) (bool, error)
	GetActivityHistory(accountID string, limit int) ([]dto.ActivityResponse, error)
	GetPendingReviews(guardianID string) ([]dto.ActivityResponse, error)
}

type FamilyServiceInterface interface {
	CreateGoal(guardianID string, req dto.CreateGoalRequest) (*dto.GoalResponse, error)
	GetActiveGoal(guardianID string) (*dto.GoalResponse, error)
	ListGoals(guardianID string) ([]dto.GoalResponse, error)
}

type CatalogServiceInterface interface {
	ListDefinitions() ([]dto.DefinitionResponse, error)
	GetDefinition(id string) (*dto.DefinitionResponse, error)
	CreateDefinition(req dto.DefinitionRequest) (*dto.DefinitionResponse, error)
	UpdateDefinition(id string, req dto.DefinitionRequest) (*dto.DefinitionResponse, error)
	DeactivateDefinition(id string) error
}

// parseAndValidate binds the JSON body and runs struct validation, mapping
// failures to a 400 with field-level details.
func parseAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := dto.GetValidator().Struct(req); err != nil {
		appErr := shared.NewBadRequestError(err, "Validation failed")
		appErr.Data = dto.FormatValidationErrors(err)
		return appErr
	}
	return nil
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(shared.UserID).(string)
	return id
}

func callerRole(c *fiber.Ctx) string {
	role, _ := c.Locals(shared.UserRole).(string)
	return role
}

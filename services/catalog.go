// services/catalog.go
package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/model"
	"github.com/hearthquest/quest_api/shared"
)

// CatalogService manages activity definitions. Definitions are immutable
// while submissions are in flight: edits only affect future approvals
// because the engine reads the definition at approval time through the
// submitted activity's preloaded copy.
type CatalogService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const CATALOG_SVC = "catalog_svc"

func (svc CatalogService) Id() string {
	return CATALOG_SVC
}

func (svc *CatalogService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *CatalogService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *CatalogService) ListDefinitions() ([]dto.DefinitionResponse, error) {
	defs, err := svc.sqlSvc.GetActiveDefinitions()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load catalog")
	}

	responses := make([]dto.DefinitionResponse, len(defs))
	for i := range defs {
		responses[i] = toDefinitionResponse(&defs[i])
	}
	return responses, nil
}

func (svc *CatalogService) GetDefinition(id string) (*dto.DefinitionResponse, error) {
	def, err := svc.sqlSvc.GetDefinition(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Activity definition not found")
	}

	resp := toDefinitionResponse(def)
	return &resp, nil
}

func (svc *CatalogService) CreateDefinition(req dto.DefinitionRequest) (*dto.DefinitionResponse, error) {
	id, _ := uuid.NewV7()
	now := time.Now()
	def, err := svc.sqlSvc.CreateDefinition(&model.ActivityDefinition{
		ID:                id.String(),
		Name:              req.Name,
		Description:       req.Description,
		XPReward:          req.XPReward,
		CoinReward:        req.CoinReward,
		AdventurePoints:   req.AdventurePoints,
		FlawlessThreshold: req.FlawlessThreshold,
		SkillAreaID:       req.SkillAreaID,
		RequiresScore:     req.RequiresScore,
		RequiresApproval:  req.RequiresApproval,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to create definition")
	}

	resp := toDefinitionResponse(def)
	return &resp, nil
}

func (svc *CatalogService) UpdateDefinition(id string, req dto.DefinitionRequest) (*dto.DefinitionResponse, error) {
	def, err := svc.sqlSvc.GetDefinition(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Activity definition not found")
	}

	def.Name = req.Name
	def.Description = req.Description
	def.XPReward = req.XPReward
	def.CoinReward = req.CoinReward
	def.AdventurePoints = req.AdventurePoints
	def.FlawlessThreshold = req.FlawlessThreshold
	def.SkillAreaID = req.SkillAreaID
	def.RequiresScore = req.RequiresScore
	def.RequiresApproval = req.RequiresApproval
	def.UpdatedAt = time.Now()

	if err := svc.sqlSvc.UpdateDefinition(def); err != nil {
		return nil, shared.NewInternalError(err, "Failed to update definition")
	}

	resp := toDefinitionResponse(def)
	return &resp, nil
}

func (svc *CatalogService) DeactivateDefinition(id string) error {
	def, err := svc.sqlSvc.GetDefinition(id)
	if err != nil {
		return shared.NewNotFoundError(err, "Activity definition not found")
	}

	def.IsActive = false
	def.UpdatedAt = time.Now()

	if err := svc.sqlSvc.UpdateDefinition(def); err != nil {
		return shared.NewInternalError(err, "Failed to deactivate definition")
	}
	return nil
}

func toDefinitionResponse(def *model.ActivityDefinition) dto.DefinitionResponse {
	return dto.DefinitionResponse{
		ID:                def.ID,
		Name:              def.Name,
		Description:       def.Description,
		XPReward:          def.XPReward,
		CoinReward:        def.CoinReward,
		AdventurePoints:   def.AdventurePoints,
		FlawlessThreshold: def.FlawlessThreshold,
		SkillAreaID:       def.SkillAreaID,
		RequiresScore:     def.RequiresScore,
		RequiresApproval:  def.RequiresApproval,
		IsActive:          def.IsActive,
	}
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hearthquest/quest_api/dto"
	"github.com/hearthquest/quest_api/shared"
)

type CatalogHandler struct {
	catalogSvc CatalogServiceInterface
}

func NewCatalogHandler(catalogSvc CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// @Summary List activity definitions
// @Description List all active activity definitions
// @Tags catalog
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.DefinitionResponse}
// @Router /api/v1/definitions [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	resp, err := h.catalogSvc.ListDefinitions()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get an activity definition
// @Tags catalog
// @Produce json
// @Security Bearer
// @Param id path string true "Definition ID"
// @Success 200 {object} shared.Response{data=dto.DefinitionResponse}
// @Router /api/v1/definitions/{id} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	resp, err := h.catalogSvc.GetDefinition(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Create an activity definition
// @Tags catalog
// @Accept json
// @Produce json
// @Security Bearer
// @Param definitionRequest body dto.DefinitionRequest true "Definition details"
// @Success 201 {object} shared.Response{data=dto.DefinitionResponse}
// @Router /api/v1/admin/definitions [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req dto.DefinitionRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.catalogSvc.CreateDefinition(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Definition created", resp)
}

// @Summary Update an activity definition
// @Description Update a definition. Changes only affect future approvals.
// @Tags catalog
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Definition ID"
// @Param definitionRequest body dto.DefinitionRequest true "Definition details"
// @Success 200 {object} shared.Response{data=dto.DefinitionResponse}
// @Router /api/v1/admin/definitions/{id} [put]
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var req dto.DefinitionRequest
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.catalogSvc.UpdateDefinition(c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Definition updated", resp)
}

// @Summary Deactivate an activity definition
// @Description Hide a definition from the catalog. Existing submissions keep working.
// @Tags catalog
// @Produce json
// @Security Bearer
// @Param id path string true "Definition ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/definitions/{id} [delete]
func (h *CatalogHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.catalogSvc.DeactivateDefinition(c.Params("id")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Definition deactivated", nil)
}

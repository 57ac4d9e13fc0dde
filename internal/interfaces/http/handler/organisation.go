package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	partnerapp "github.com/verone/backoffice/internal/application/partner"
)

// OrganisationHandler handles organisation endpoints
type OrganisationHandler struct {
	BaseHandler
	organisationService *partnerapp.OrganisationService
}

// NewOrganisationHandler creates a new OrganisationHandler
func NewOrganisationHandler(organisationService *partnerapp.OrganisationService) *OrganisationHandler {
	return &OrganisationHandler{organisationService: organisationService}
}

// Create godoc
// @ID           createOrganisation
// @Summary      Create an organisation
// @Tags         organisations
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.OrganisationRequest true "Organisation"
// @Success      201 {object} APIResponse[partnerapp.OrganisationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organisations [post]
func (h *OrganisationHandler) Create(c *gin.Context) {
	var req partnerapp.OrganisationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org, err := h.organisationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// GetByID godoc
// @ID           getOrganisation
// @Summary      Get an organisation
// @Description  Commercial terms are the effective ones; a succursale reports its parent's
// @Tags         organisations
// @Produce      json
// @Param        id path string true "Organisation ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.OrganisationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organisations/{id} [get]
func (h *OrganisationHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	org, err := h.organisationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// List godoc
// @ID           listOrganisations
// @Summary      List organisations
// @Tags         organisations
// @Produce      json
// @Param        search                query string false "Accent-insensitive search on names and email"
// @Param        type                  query string false "Type" Enums(supplier, customer, partner, internal)
// @Param        include_archived      query bool   false "Include archived"
// @Param        exclude_with_enseigne query bool   false "Only organisations without enseigne"
// @Param        enseigne_id           query string false "Enseigne" format(uuid)
// @Param        page                  query int    false "Page" default(1)
// @Param        page_size             query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.OrganisationListResponse]
// @Security     BearerAuth
// @Router       /organisations [get]
func (h *OrganisationHandler) List(c *gin.Context) {
	var filter partnerapp.OrganisationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	orgs, total, err := h.organisationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orgs, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateOrganisation
// @Summary      Update an organisation
// @Tags         organisations
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Organisation ID" format(uuid)
// @Param        request body partnerapp.OrganisationRequest true "Organisation"
// @Success      200 {object} APIResponse[partnerapp.OrganisationResponse]
// @Security     BearerAuth
// @Router       /organisations/{id} [put]
func (h *OrganisationHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.OrganisationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	org, err := h.organisationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// GetCommercialTerms godoc
// @ID           getOrganisationCommercialTerms
// @Summary      Effective commercial terms
// @Tags         organisations
// @Produce      json
// @Param        id path string true "Organisation ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.CommercialTermsResponse]
// @Security     BearerAuth
// @Router       /organisations/{id}/commercial-terms [get]
func (h *OrganisationHandler) GetCommercialTerms(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	terms, err := h.organisationService.GetCommercialTerms(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, terms)
}

// UpdateCommercialTerms godoc
// @ID           updateOrganisationCommercialTerms
// @Summary      Replace commercial terms
// @Description  Refused with SUCCURSALE_TERMS_READ_ONLY for succursales
// @Tags         organisations
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Organisation ID" format(uuid)
// @Param        request body partnerapp.CommercialTermsRequest true "Terms"
// @Success      200 {object} APIResponse[partnerapp.CommercialTermsResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organisations/{id}/commercial-terms [put]
func (h *OrganisationHandler) UpdateCommercialTerms(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.CommercialTermsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	terms, err := h.organisationService.UpdateCommercialTerms(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, terms)
}

// Archive godoc
// @ID           archiveOrganisation
// @Summary      Archive an organisation
// @Tags         organisations
// @Produce      json
// @Param        id path string true "Organisation ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.OrganisationResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organisations/{id}/archive [post]
func (h *OrganisationHandler) Archive(c *gin.Context) {
	h.transition(c, h.organisationService.Archive)
}

// Unarchive godoc
// @ID           unarchiveOrganisation
// @Summary      Restore an archived organisation
// @Tags         organisations
// @Produce      json
// @Param        id path string true "Organisation ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.OrganisationResponse]
// @Security     BearerAuth
// @Router       /organisations/{id}/unarchive [post]
func (h *OrganisationHandler) Unarchive(c *gin.Context) {
	h.transition(c, h.organisationService.Unarchive)
}

// ToggleActive godoc
// @ID           toggleOrganisationActive
// @Summary      Toggle the active flag
// @Tags         organisations
// @Produce      json
// @Param        id path string true "Organisation ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.OrganisationResponse]
// @Security     BearerAuth
// @Router       /organisations/{id}/toggle-active [post]
func (h *OrganisationHandler) ToggleActive(c *gin.Context) {
	h.transition(c, h.organisationService.ToggleActive)
}

// Delete godoc
// @ID           deleteOrganisation
// @Summary      Delete an organisation
// @Description  Refused while users or an enseigne parenthood reference it
// @Tags         organisations
// @Param        id path string true "Organisation ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organisations/{id} [delete]
func (h *OrganisationHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.organisationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *OrganisationHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*partnerapp.OrganisationResponse, error)) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	org, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/verone/backoffice/internal/application/partner"
)

// EnseigneHandler handles enseigne endpoints
type EnseigneHandler struct {
	BaseHandler
	enseigneService *partnerapp.EnseigneService
}

// NewEnseigneHandler creates a new EnseigneHandler
func NewEnseigneHandler(enseigneService *partnerapp.EnseigneService) *EnseigneHandler {
	return &EnseigneHandler{enseigneService: enseigneService}
}

// Create godoc
// @ID           createEnseigne
// @Summary      Create an enseigne
// @Tags         enseignes
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.EnseigneRequest true "Enseigne"
// @Success      201 {object} APIResponse[partnerapp.EnseigneResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enseignes [post]
func (h *EnseigneHandler) Create(c *gin.Context) {
	var req partnerapp.EnseigneRequest
	if !h.BindJSON(c, &req) {
		return
	}

	enseigne, err := h.enseigneService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, enseigne)
}

// GetByID godoc
// @ID           getEnseigne
// @Summary      Get an enseigne
// @Tags         enseignes
// @Produce      json
// @Param        id path string true "Enseigne ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.EnseigneResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enseignes/{id} [get]
func (h *EnseigneHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	enseigne, err := h.enseigneService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enseigne)
}

// List godoc
// @ID           listEnseignes
// @Summary      List enseignes
// @Description  Paginated list with member counts
// @Tags         enseignes
// @Produce      json
// @Param        search    query string false "Search by name"
// @Param        is_active query bool   false "Active filter"
// @Param        page      query int    false "Page" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]partnerapp.EnseigneResponse]
// @Security     BearerAuth
// @Router       /enseignes [get]
func (h *EnseigneHandler) List(c *gin.Context) {
	var filter partnerapp.EnseigneListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	enseignes, total, err := h.enseigneService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, enseignes, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateEnseigne
// @Summary      Update an enseigne
// @Tags         enseignes
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Enseigne ID" format(uuid)
// @Param        request body partnerapp.EnseigneRequest true "Enseigne"
// @Success      200 {object} APIResponse[partnerapp.EnseigneResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enseignes/{id} [put]
func (h *EnseigneHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.EnseigneRequest
	if !h.BindJSON(c, &req) {
		return
	}

	enseigne, err := h.enseigneService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enseigne)
}

// ToggleActive godoc
// @ID           toggleEnseigneActive
// @Summary      Toggle the active flag of an enseigne
// @Tags         enseignes
// @Produce      json
// @Param        id path string true "Enseigne ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.EnseigneResponse]
// @Security     BearerAuth
// @Router       /enseignes/{id}/toggle-active [post]
func (h *EnseigneHandler) ToggleActive(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	enseigne, err := h.enseigneService.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enseigne)
}

// Delete godoc
// @ID           deleteEnseigne
// @Summary      Delete an enseigne
// @Description  Unlinks every member organisation first
// @Tags         enseignes
// @Param        id path string true "Enseigne ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enseignes/{id} [delete]
func (h *EnseigneHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.enseigneService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetParent godoc
// @ID           setEnseigneParent
// @Summary      Designate the parent organisation
// @Description  Demotes the previous parent in the same transaction
// @Tags         enseignes
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Enseigne ID" format(uuid)
// @Param        request body partnerapp.SetParentRequest true "Parent"
// @Success      200 {object} APIResponse[partnerapp.EnseigneResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enseignes/{id}/parent [put]
func (h *EnseigneHandler) SetParent(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.SetParentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	enseigne, err := h.enseigneService.SetParentOrganisation(c.Request.Context(), id, req.OrganisationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enseigne)
}

// ClearParent godoc
// @ID           clearEnseigneParent
// @Summary      Remove the parent organisation
// @Tags         enseignes
// @Produce      json
// @Param        id path string true "Enseigne ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.EnseigneResponse]
// @Security     BearerAuth
// @Router       /enseignes/{id}/parent [delete]
func (h *EnseigneHandler) ClearParent(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	enseigne, err := h.enseigneService.ClearParentOrganisation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enseigne)
}

// SaveMembers godoc
// @ID           saveEnseigneMembers
// @Summary      Replace the member organisations
// @Tags         enseignes
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Enseigne ID" format(uuid)
// @Param        request body partnerapp.SaveMembersRequest true "Members"
// @Success      200 {object} APIResponse[partnerapp.SaveMembersResponse]
// @Security     BearerAuth
// @Router       /enseignes/{id}/members [put]
func (h *EnseigneHandler) SaveMembers(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.SaveMembersRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.enseigneService.SaveMembers(c.Request.Context(), id, req.OrganisationIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// LinkMember godoc
// @ID           linkEnseigneMember
// @Summary      Add one organisation to the enseigne
// @Tags         enseignes
// @Param        id              path string true "Enseigne ID" format(uuid)
// @Param        organisation_id path string true "Organisation ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /enseignes/{id}/members/{organisation_id} [post]
func (h *EnseigneHandler) LinkMember(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	orgID, ok := h.ParamUUID(c, "organisation_id")
	if !ok {
		return
	}

	if err := h.enseigneService.LinkOrganisation(c.Request.Context(), id, orgID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UnlinkMember godoc
// @ID           unlinkEnseigneMember
// @Summary      Remove one organisation from the enseigne
// @Tags         enseignes
// @Param        id              path string true "Enseigne ID" format(uuid)
// @Param        organisation_id path string true "Organisation ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /enseignes/{id}/members/{organisation_id} [delete]
func (h *EnseigneHandler) UnlinkMember(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	orgID, ok := h.ParamUUID(c, "organisation_id")
	if !ok {
		return
	}

	if err := h.enseigneService.UnlinkOrganisation(c.Request.Context(), id, orgID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats godoc
// @ID           getEnseigneStats
// @Summary      Enseigne statistics
// @Description  Member counts and revenue, served from cache when fresh
// @Tags         enseignes
// @Produce      json
// @Param        id path string true "Enseigne ID" format(uuid)
// @Success      200 {object} APIResponse[partner.EnseigneStats]
// @Security     BearerAuth
// @Router       /enseignes/{id}/stats [get]
func (h *EnseigneHandler) Stats(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.enseigneService.GetStats(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

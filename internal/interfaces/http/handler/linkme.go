package handler

import (
	"github.com/gin-gonic/gin"
	linkmeapp "github.com/verone/backoffice/internal/application/linkme"
)

// LinkMeHandler handles LinkMe affiliate and selection endpoints
type LinkMeHandler struct {
	BaseHandler
	affiliateService *linkmeapp.AffiliateService
	selectionService *linkmeapp.SelectionService
}

// NewLinkMeHandler creates a new LinkMeHandler
func NewLinkMeHandler(affiliateService *linkmeapp.AffiliateService, selectionService *linkmeapp.SelectionService) *LinkMeHandler {
	return &LinkMeHandler{
		affiliateService: affiliateService,
		selectionService: selectionService,
	}
}

// CreateAffiliate godoc
// @ID           createLinkMeAffiliate
// @Summary      Register an affiliate
// @Description  An affiliate belongs to exactly one enseigne or organisation
// @Tags         linkme
// @Accept       json
// @Produce      json
// @Param        request body linkmeapp.CreateAffiliateRequest true "Affiliate"
// @Success      201 {object} APIResponse[linkmeapp.AffiliateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/affiliates [post]
func (h *LinkMeHandler) CreateAffiliate(c *gin.Context) {
	var req linkmeapp.CreateAffiliateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	affiliate, err := h.affiliateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, affiliate)
}

// GetAffiliate godoc
// @ID           getLinkMeAffiliate
// @Summary      Get an affiliate
// @Tags         linkme
// @Produce      json
// @Param        id path string true "Affiliate ID" format(uuid)
// @Success      200 {object} APIResponse[linkmeapp.AffiliateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/affiliates/{id} [get]
func (h *LinkMeHandler) GetAffiliate(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	affiliate, err := h.affiliateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, affiliate)
}

// ListAffiliates godoc
// @ID           listLinkMeAffiliates
// @Summary      List affiliates
// @Tags         linkme
// @Produce      json
// @Param        enseigne_id     query string false "Enseigne" format(uuid)
// @Param        organisation_id query string false "Organisation" format(uuid)
// @Param        is_active       query bool   false "Active filter"
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]linkmeapp.AffiliateResponse]
// @Security     BearerAuth
// @Router       /linkme/affiliates [get]
func (h *LinkMeHandler) ListAffiliates(c *gin.Context) {
	var filter linkmeapp.AffiliateListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	affiliates, total, err := h.affiliateService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, affiliates, total, filter.Page, filter.PageSize)
}

// DeactivateAffiliate godoc
// @ID           deactivateLinkMeAffiliate
// @Summary      Deactivate an affiliate
// @Tags         linkme
// @Produce      json
// @Param        id path string true "Affiliate ID" format(uuid)
// @Success      200 {object} APIResponse[linkmeapp.AffiliateResponse]
// @Security     BearerAuth
// @Router       /linkme/affiliates/{id}/deactivate [post]
func (h *LinkMeHandler) DeactivateAffiliate(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	affiliate, err := h.affiliateService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, affiliate)
}

// CreateSelection godoc
// @ID           createLinkMeSelection
// @Summary      Create a selection
// @Tags         linkme
// @Accept       json
// @Produce      json
// @Param        request body linkmeapp.CreateSelectionRequest true "Selection"
// @Success      201 {object} APIResponse[linkmeapp.SelectionResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/selections [post]
func (h *LinkMeHandler) CreateSelection(c *gin.Context) {
	var req linkmeapp.CreateSelectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	selection, err := h.selectionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, selection)
}

// GetSelection godoc
// @ID           getLinkMeSelection
// @Summary      Get a selection
// @Tags         linkme
// @Produce      json
// @Param        id path string true "Selection ID" format(uuid)
// @Success      200 {object} APIResponse[linkmeapp.SelectionResponse]
// @Security     BearerAuth
// @Router       /linkme/selections/{id} [get]
func (h *LinkMeHandler) GetSelection(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	selection, err := h.selectionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, selection)
}

// ListSelections godoc
// @ID           listLinkMeSelections
// @Summary      List selections
// @Tags         linkme
// @Produce      json
// @Param        affiliate_id query string false "Affiliate" format(uuid)
// @Param        is_public    query bool   false "Public filter"
// @Success      200 {object} APIResponse[[]linkmeapp.SelectionResponse]
// @Security     BearerAuth
// @Router       /linkme/selections [get]
func (h *LinkMeHandler) ListSelections(c *gin.Context) {
	var filter linkmeapp.SelectionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	selections, total, err := h.selectionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, selections, total, filter.Page, filter.PageSize)
}

// DeleteSelection godoc
// @ID           deleteLinkMeSelection
// @Summary      Delete a selection
// @Tags         linkme
// @Param        id path string true "Selection ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /linkme/selections/{id} [delete]
func (h *LinkMeHandler) DeleteSelection(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.selectionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

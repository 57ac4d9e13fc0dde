package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/verone/backoffice/internal/application/finance"
)

// CreditNoteHandler handles credit note endpoints
type CreditNoteHandler struct {
	BaseHandler
	creditNoteService *financeapp.CreditNoteService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(creditNoteService *financeapp.CreditNoteService) *CreditNoteHandler {
	return &CreditNoteHandler{creditNoteService: creditNoteService}
}

// GetByID godoc
// @ID           getCreditNote
// @Summary      Get a credit note
// @Tags         credit-notes
// @Produce      json
// @Param        id path string true "Credit note ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CreditNoteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credit-notes/{id} [get]
func (h *CreditNoteHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	note, err := h.creditNoteService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Finalize godoc
// @ID           finalizeCreditNote
// @Summary      Finalize a credit note
// @Description  Irreversible; the body must carry {"confirm": true}
// @Tags         credit-notes
// @Accept       json
// @Produce      json
// @Param        id      path string                               true "Credit note ID" format(uuid)
// @Param        request body financeapp.FinalizeCreditNoteRequest true "Confirmation"
// @Success      200 {object} APIResponse[financeapp.CreditNoteResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credit-notes/{id}/finalize [post]
func (h *CreditNoteHandler) Finalize(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.FinalizeCreditNoteRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	note, err := h.creditNoteService.Finalize(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Delete godoc
// @ID           deleteCreditNote
// @Summary      Delete a draft credit note
// @Tags         credit-notes
// @Param        id path string true "Credit note ID" format(uuid)
// @Success      204
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credit-notes/{id} [delete]
func (h *CreditNoteHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.creditNoteService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PDF godoc
// @ID           getCreditNotePDF
// @Summary      Download URL of the credit note PDF
// @Tags         credit-notes
// @Produce      json
// @Param        id path string true "Credit note ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.DocumentURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /credit-notes/{id}/pdf [get]
func (h *CreditNoteHandler) PDF(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.creditNoteService.PDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

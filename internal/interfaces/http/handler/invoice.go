package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/verone/backoffice/internal/application/finance"
)

// InvoiceHandler handles invoice endpoints, including the credit notes
// issued against an invoice
type InvoiceHandler struct {
	BaseHandler
	invoiceService    *financeapp.InvoiceService
	creditNoteService *financeapp.CreditNoteService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *financeapp.InvoiceService, creditNoteService *financeapp.CreditNoteService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:    invoiceService,
		creditNoteService: creditNoteService,
	}
}

// Sync godoc
// @ID           syncInvoice
// @Summary      Import an invoice from the invoicing provider
// @Description  Creates or refreshes the local copy of a provider invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body financeapp.SyncInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Sync(c *gin.Context) {
	var req financeapp.SyncInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Sync(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get an invoice with its lines
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        search          query string false "Number search"
// @Param        workflow_status query string false "Workflow status"
// @Param        partner_id      query string false "Partner" format(uuid)
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]financeapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter financeapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateInvoice
// @Summary      Edit a draft invoice
// @Description  Refused with INVALID_STATE once finalized
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Invoice ID" format(uuid)
// @Param        request body financeapp.UpdateInvoiceRequest true "Changes"
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ValidateDraft godoc
// @ID           validateInvoiceDraft
// @Summary      Validate a synchronized invoice as draft
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/validate-draft [post]
func (h *InvoiceHandler) ValidateDraft(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.ValidateToDraft(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Finalize godoc
// @ID           finalizeInvoice
// @Summary      Finalize an invoice at the provider
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/finalize [post]
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Send godoc
// @ID           sendInvoice
// @Summary      Mark an invoice sent
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkSent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// MarkPaid godoc
// @ID           markInvoicePaid
// @Summary      Record a payment
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                     true  "Invoice ID" format(uuid)
// @Param        request body financeapp.MarkPaidRequest false "Payment"
// @Success      200 {object} APIResponse[financeapp.InvoiceResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.MarkPaidRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// VATBreakdown godoc
// @ID           getInvoiceVATBreakdown
// @Summary      VAT totals per rate
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.VATBreakdownResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/vat-breakdown [get]
func (h *InvoiceHandler) VATBreakdown(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	breakdown, err := h.invoiceService.VATBreakdown(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}

// PDF godoc
// @ID           getInvoicePDF
// @Summary      Download URL of the invoice PDF
// @Description  Served from the archive when present, else fetched from the provider
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.DocumentURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.invoiceService.PDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// CreateQuote godoc
// @ID           createQuoteFromInvoice
// @Summary      Create a quote from an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      201 {object} APIResponse[financeapp.QuoteResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/quote [post]
func (h *InvoiceHandler) CreateQuote(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	quote, err := h.invoiceService.CreateQuoteFromInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// CreateCreditNote godoc
// @ID           createCreditNote
// @Summary      Create a draft credit note against an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path string                             true "Invoice ID" format(uuid)
// @Param        request body financeapp.CreateCreditNoteRequest true "Credit note"
// @Success      201 {object} APIResponse[financeapp.CreditNoteResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/credit-notes [post]
func (h *InvoiceHandler) CreateCreditNote(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CreateCreditNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	note, err := h.creditNoteService.Create(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// ListCreditNotes godoc
// @ID           listInvoiceCreditNotes
// @Summary      Credit notes of an invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.CreditNoteResponse]
// @Security     BearerAuth
// @Router       /invoices/{id}/credit-notes [get]
func (h *InvoiceHandler) ListCreditNotes(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	notes, err := h.creditNoteService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}

package handler

import (
	"github.com/gin-gonic/gin"
	rentalapp "github.com/verone/backoffice/internal/application/rental"
)

// ContractHandler handles rental contract endpoints
type ContractHandler struct {
	BaseHandler
	contractService *rentalapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *rentalapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// Create godoc
// @ID           createContract
// @Summary      Create a contract
// @Description  Targets a property or a unit, never both; refused when the period overlaps another contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        request body rentalapp.ContractRequest true "Contract"
// @Success      201 {object} APIResponse[rentalapp.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req rentalapp.ContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contract)
}

// GetByID godoc
// @ID           getContract
// @Summary      Get a contract
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[rentalapp.ContractResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id} [get]
func (h *ContractHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// List godoc
// @ID           listContracts
// @Summary      List contracts
// @Tags         contracts
// @Produce      json
// @Param        organisation_id query string false "Organisation" format(uuid)
// @Param        status          query string false "Status" Enums(active, finished, upcoming)
// @Param        start_from      query string false "Start date lower bound" format(date)
// @Param        end_to          query string false "End date upper bound" format(date)
// @Param        page            query int    false "Page" default(1)
// @Param        page_size       query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]rentalapp.ContractResponse]
// @Security     BearerAuth
// @Router       /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	var filter rentalapp.ContractListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	contracts, total, err := h.contractService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, contracts, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateContract
// @Summary      Update a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Contract ID" format(uuid)
// @Param        request body rentalapp.ContractRequest true "Contract"
// @Success      200 {object} APIResponse[rentalapp.ContractResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id} [put]
func (h *ContractHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req rentalapp.ContractRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contract)
}

// Delete godoc
// @ID           deleteContract
// @Summary      Delete a contract
// @Tags         contracts
// @Param        id path string true "Contract ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /contracts/{id} [delete]
func (h *ContractHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Availability godoc
// @ID           checkContractAvailability
// @Summary      Check whether a property or unit is free over a period
// @Tags         contracts
// @Produce      json
// @Param        property_id         query string false "Property" format(uuid)
// @Param        unit_id             query string false "Unit" format(uuid)
// @Param        start_date          query string true  "Start" format(date)
// @Param        end_date            query string true  "End" format(date)
// @Param        exclude_contract_id query string false "Contract to ignore" format(uuid)
// @Success      200 {object} APIResponse[rentalapp.AvailabilityResponse]
// @Security     BearerAuth
// @Router       /contracts/availability [get]
func (h *ContractHandler) Availability(c *gin.Context) {
	var req rentalapp.AvailabilityRequest
	if !h.BindQuery(c, &req) {
		return
	}

	availability, err := h.contractService.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, availability)
}

// Statistics godoc
// @ID           getContractStatistics
// @Summary      Contract counts by status and type
// @Tags         contracts
// @Produce      json
// @Param        organisation_id query string false "Organisation" format(uuid)
// @Success      200 {object} APIResponse[rental.Statistics]
// @Security     BearerAuth
// @Router       /contracts/statistics [get]
func (h *ContractHandler) Statistics(c *gin.Context) {
	var filter rentalapp.StatisticsFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	stats, err := h.contractService.Statistics(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GenerateDocument godoc
// @ID           generateContractDocument
// @Summary      Render the contract PDF
// @Description  Renders, archives and returns a presigned download URL
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      201 {object} APIResponse[rentalapp.ContractDocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id}/document [post]
func (h *ContractHandler) GenerateDocument(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.contractService.GenerateDocument(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Document godoc
// @ID           getContractDocument
// @Summary      Download URL of the last generated contract PDF
// @Tags         contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[rentalapp.ContractDocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /contracts/{id}/document [get]
func (h *ContractHandler) Document(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	doc, err := h.contractService.DocumentURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

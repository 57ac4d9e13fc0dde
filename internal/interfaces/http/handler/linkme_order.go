package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/verone/backoffice/internal/application/trade"
)

// LinkMeOrderHandler handles LinkMe sales order endpoints
type LinkMeOrderHandler struct {
	BaseHandler
	orderService *tradeapp.LinkMeOrderService
}

// NewLinkMeOrderHandler creates a new LinkMeOrderHandler
func NewLinkMeOrderHandler(orderService *tradeapp.LinkMeOrderService) *LinkMeOrderHandler {
	return &LinkMeOrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createLinkMeOrder
// @Summary      Create a LinkMe order
// @Description  Totals, commission and net benefit are computed from the lines
// @Tags         linkme-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateLinkMeOrderRequest true "Order"
// @Success      201 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders [post]
func (h *LinkMeOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateLinkMeOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @ID           getLinkMeOrder
// @Summary      Get a LinkMe order
// @Tags         linkme-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders/{id} [get]
func (h *LinkMeOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @ID           listLinkMeOrders
// @Summary      List LinkMe orders
// @Description  Customer names are resolved for display; unknown customers read "Client inconnu"
// @Tags         linkme-orders
// @Produce      json
// @Param        search         query string false "Order number search"
// @Param        status         query string false "Status"
// @Param        payment_status query string false "Payment status"
// @Param        affiliate_id   query string false "Affiliate" format(uuid)
// @Param        page           query int    false "Page" default(1)
// @Param        page_size      query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]tradeapp.OrderResponse]
// @Security     BearerAuth
// @Router       /linkme/orders [get]
func (h *LinkMeOrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateLinkMeOrder
// @Summary      Update a draft LinkMe order
// @Tags         linkme-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateLinkMeOrderRequest true "Changes"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders/{id} [put]
func (h *LinkMeOrderHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateLinkMeOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Validate godoc
// @ID           validateLinkMeOrder
// @Summary      Validate a draft order
// @Tags         linkme-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders/{id}/validate [post]
func (h *LinkMeOrderHandler) Validate(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Validate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Ship godoc
// @ID           shipLinkMeOrder
// @Summary      Ship an order, fully or partially
// @Tags         linkme-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Order ID" format(uuid)
// @Param        request body tradeapp.ShipOrderRequest false "Shipment"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders/{id}/ship [post]
func (h *LinkMeOrderHandler) Ship(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.ShipOrderRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Ship(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Deliver godoc
// @ID           deliverLinkMeOrder
// @Summary      Mark an order delivered
// @Tags         linkme-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders/{id}/deliver [post]
func (h *LinkMeOrderHandler) Deliver(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Deliver(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelLinkMeOrder
// @Summary      Cancel an order
// @Tags         linkme-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Order ID" format(uuid)
// @Param        request body tradeapp.CancelOrderRequest false "Reason"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /linkme/orders/{id}/cancel [post]
func (h *LinkMeOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelOrderRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdatePaymentStatus godoc
// @ID           updateLinkMeOrderPaymentStatus
// @Summary      Move the payment status
// @Tags         linkme-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                               true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdatePaymentStatusRequest true "Payment status"
// @Success      200 {object} APIResponse[tradeapp.OrderResponse]
// @Security     BearerAuth
// @Router       /linkme/orders/{id}/payment-status [put]
func (h *LinkMeOrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdatePaymentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Commission godoc
// @ID           getLinkMeOrderCommission
// @Summary      Commission breakdown of an order
// @Tags         linkme-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[tradeapp.CommissionResponse]
// @Security     BearerAuth
// @Router       /linkme/orders/{id}/commission [get]
func (h *LinkMeOrderHandler) Commission(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	commission, err := h.orderService.GetCommission(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, commission)
}

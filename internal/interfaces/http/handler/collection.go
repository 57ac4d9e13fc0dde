package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/verone/backoffice/internal/application/catalog"
)

// CollectionHandler handles product collection endpoints
type CollectionHandler struct {
	BaseHandler
	collectionService *catalogapp.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *catalogapp.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// Create godoc
// @ID           createCollection
// @Summary      Create a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CollectionRequest true "Collection"
// @Success      201 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	var req catalogapp.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	collection, err := h.collectionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, collection)
}

// GetByID godoc
// @ID           getCollection
// @Summary      Get a collection with its ordered products
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [get]
func (h *CollectionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	collection, err := h.collectionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// List godoc
// @ID           listCollections
// @Summary      List collections
// @Tags         collections
// @Produce      json
// @Param        search        query string   false "Search"
// @Param        status        query string   false "Status" Enums(all, active, inactive)
// @Param        visibility    query string   false "Visibility" Enums(public, private)
// @Param        style         query string   false "Style"
// @Param        room_category query string   false "Room category"
// @Param        tags          query []string false "Tags, all must match"
// @Param        shared        query bool     false "Only shared collections"
// @Param        page          query int      false "Page" default(1)
// @Param        page_size     query int      false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.CollectionResponse]
// @Security     BearerAuth
// @Router       /collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	var filter catalogapp.CollectionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	collections, total, err := h.collectionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, collections, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateCollection
// @Summary      Update a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Collection ID" format(uuid)
// @Param        request body catalogapp.CollectionRequest true "Collection"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Security     BearerAuth
// @Router       /collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	collection, err := h.collectionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// ToggleActive godoc
// @ID           toggleCollectionActive
// @Summary      Toggle the active flag
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Security     BearerAuth
// @Router       /collections/{id}/toggle-active [post]
func (h *CollectionHandler) ToggleActive(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	collection, err := h.collectionService.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Delete godoc
// @ID           deleteCollection
// @Summary      Delete a collection
// @Tags         collections
// @Param        id path string true "Collection ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id} [delete]
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddProduct godoc
// @ID           addCollectionProduct
// @Summary      Append a product to a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Collection ID" format(uuid)
// @Param        request body catalogapp.AddProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/products [post]
func (h *CollectionHandler) AddProduct(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AddProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	collection, err := h.collectionService.AddProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// RemoveProduct godoc
// @ID           removeCollectionProduct
// @Summary      Remove a product; remaining positions are compacted
// @Tags         collections
// @Produce      json
// @Param        id         path string true "Collection ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/products/{product_id} [delete]
func (h *CollectionHandler) RemoveProduct(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	productID, ok := h.ParamUUID(c, "product_id")
	if !ok {
		return
	}

	collection, err := h.collectionService.RemoveProduct(c.Request.Context(), id, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// ReorderProducts godoc
// @ID           reorderCollectionProducts
// @Summary      Reorder products
// @Description  product_ids must list every member exactly once; positions become 1..n
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Collection ID" format(uuid)
// @Param        request body catalogapp.ReorderProductsRequest true "Order"
// @Success      200 {object} APIResponse[catalogapp.CollectionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/products/reorder [put]
func (h *CollectionHandler) ReorderProducts(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ReorderProductsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	collection, err := h.collectionService.ReorderProducts(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Share godoc
// @ID           shareCollection
// @Summary      Record a share
// @Description  Returns the collection's stable share token
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Collection ID" format(uuid)
// @Param        request body catalogapp.ShareRequest true "Share"
// @Success      200 {object} APIResponse[catalogapp.ShareResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collections/{id}/share [post]
func (h *CollectionHandler) Share(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ShareRequest
	if !h.BindJSON(c, &req) {
		return
	}

	share, err := h.collectionService.Share(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, share)
}

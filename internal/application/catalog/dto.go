package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/catalog"
)

// CollectionRequest is the body of collection creation and update
type CollectionRequest struct {
	Name            string   `json:"name" binding:"required,min=1,max=200"`
	Description     string   `json:"description" binding:"max=5000"`
	Visibility      string   `json:"visibility" binding:"omitempty,oneof=public private"`
	Style           string   `json:"style" binding:"omitempty,oneof=minimaliste contemporain moderne scandinave industriel classique boheme art_deco"`
	RoomCategory    string   `json:"room_category"`
	SuitableRooms   []string `json:"suitable_rooms"`
	ThemeTags       []string `json:"theme_tags" binding:"omitempty,max=30,dive,max=50"`
	DisplayOrder    int      `json:"display_order" binding:"min=0"`
	MetaTitle       string   `json:"meta_title" binding:"max=200"`
	MetaDescription string   `json:"meta_description" binding:"max=500"`
	ImageURL        string   `json:"image_url" binding:"omitempty,url,max=2000"`
	ColorTheme      string   `json:"color_theme" binding:"max=50"`
}

func (r CollectionRequest) toDetails() catalog.CollectionDetails {
	rooms := make([]catalog.RoomCategory, len(r.SuitableRooms))
	for i, room := range r.SuitableRooms {
		rooms[i] = catalog.RoomCategory(room)
	}
	return catalog.CollectionDetails{
		Name:            r.Name,
		Description:     r.Description,
		Visibility:      catalog.Visibility(r.Visibility),
		Style:           catalog.Style(r.Style),
		RoomCategory:    catalog.RoomCategory(r.RoomCategory),
		SuitableRooms:   rooms,
		ThemeTags:       r.ThemeTags,
		DisplayOrder:    r.DisplayOrder,
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		ImageURL:        r.ImageURL,
		ColorTheme:      r.ColorTheme,
	}
}

// AddProductRequest adds a product to a collection
type AddProductRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// ReorderProductsRequest lists every member in its new order
type ReorderProductsRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids" binding:"required"`
}

// ShareRequest records a share of a collection
type ShareRequest struct {
	ShareType string `json:"share_type" binding:"required,oneof=link email pdf export"`
}

// CollectionListFilter represents filter options for collection list
type CollectionListFilter struct {
	Search       string   `form:"search"`
	Status       string   `form:"status" binding:"omitempty,oneof=all active inactive"`
	Visibility   string   `form:"visibility" binding:"omitempty,oneof=public private"`
	Style        string   `form:"style"`
	RoomCategory string   `form:"room_category"`
	Tags         []string `form:"tags"`
	Shared       *bool    `form:"shared"`
	Page         int      `form:"page" binding:"omitempty,min=1"`
	PageSize     int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string   `form:"order_by" binding:"omitempty,oneof=name created_at updated_at product_count display_order"`
	OrderDir     string   `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CollectionProductResponse is a member of a collection
type CollectionProductResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Position  int       `json:"position"`
	AddedAt   time.Time `json:"added_at"`
}

// CollectionResponse represents a collection in API responses
type CollectionResponse struct {
	ID              uuid.UUID                   `json:"id"`
	Name            string                      `json:"name"`
	Description     string                      `json:"description,omitempty"`
	IsActive        bool                        `json:"is_active"`
	Visibility      string                      `json:"visibility"`
	Style           string                      `json:"style,omitempty"`
	RoomCategory    string                      `json:"room_category,omitempty"`
	SuitableRooms   []string                    `json:"suitable_rooms"`
	ThemeTags       []string                    `json:"theme_tags"`
	DisplayOrder    int                         `json:"display_order"`
	MetaTitle       string                      `json:"meta_title,omitempty"`
	MetaDescription string                      `json:"meta_description,omitempty"`
	ImageURL        string                      `json:"image_url,omitempty"`
	ColorTheme      string                      `json:"color_theme,omitempty"`
	ProductCount    int                         `json:"product_count"`
	SharedCount     int                         `json:"shared_count"`
	SharedLinkToken string                      `json:"shared_link_token,omitempty"`
	Products        []CollectionProductResponse `json:"products,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	Version         int                         `json:"version"`
}

// ToCollectionResponse converts a domain collection to a response
func ToCollectionResponse(c *catalog.Collection) CollectionResponse {
	rooms := make([]string, len(c.SuitableRooms))
	for i, room := range c.SuitableRooms {
		rooms[i] = string(room)
	}
	tags := c.ThemeTags
	if tags == nil {
		tags = []string{}
	}
	products := make([]CollectionProductResponse, len(c.Products))
	for i, p := range c.Products {
		products[i] = CollectionProductResponse{ProductID: p.ProductID, Position: p.Position, AddedAt: p.AddedAt}
	}
	return CollectionResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		IsActive:        c.IsActive,
		Visibility:      string(c.Visibility),
		Style:           string(c.Style),
		RoomCategory:    string(c.RoomCategory),
		SuitableRooms:   rooms,
		ThemeTags:       tags,
		DisplayOrder:    c.DisplayOrder,
		MetaTitle:       c.MetaTitle,
		MetaDescription: c.MetaDescription,
		ImageURL:        c.ImageURL,
		ColorTheme:      c.ColorTheme,
		ProductCount:    c.ProductCount,
		SharedCount:     c.SharedCount,
		SharedLinkToken: c.SharedLinkToken,
		Products:        products,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ShareResponse is the result of a share
type ShareResponse struct {
	CollectionID uuid.UUID `json:"collection_id"`
	ShareType    string    `json:"share_type"`
	Token        string    `json:"token"`
	SharedCount  int       `json:"shared_count"`
	SharedAt     time.Time `json:"shared_at"`
}

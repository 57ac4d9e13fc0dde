package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/catalog"
)

// StringList stores a list of strings as a JSON text column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// CollectionModel is the persistence model for the Collection aggregate.
type CollectionModel struct {
	AggregateModel
	Name            string                   `gorm:"type:varchar(200);not null"`
	Description     string                   `gorm:"type:text"`
	IsActive        bool                     `gorm:"not null;index"`
	Visibility      catalog.Visibility       `gorm:"type:varchar(10);not null;default:'private'"`
	Style           catalog.Style            `gorm:"type:varchar(30)"`
	RoomCategory    catalog.RoomCategory     `gorm:"type:varchar(30)"`
	SuitableRooms   StringList               `gorm:"type:text"`
	ThemeTags       StringList               `gorm:"type:text"`
	DisplayOrder    int                      `gorm:"not null;default:0"`
	MetaTitle       string                   `gorm:"type:varchar(255)"`
	MetaDescription string                   `gorm:"type:text"`
	ImageURL        string                   `gorm:"column:image_url;type:varchar(500)"`
	ColorTheme      string                   `gorm:"type:varchar(50)"`
	ProductCount    int                      `gorm:"not null;default:0"`
	SharedCount     int                      `gorm:"not null;default:0"`
	SharedLinkToken string                   `gorm:"type:varchar(64);index"`
	SearchText      string                   `gorm:"type:text"`
	Products        []CollectionProductModel `gorm:"foreignKey:CollectionID;references:ID"`
}

// TableName returns the table name for GORM
func (CollectionModel) TableName() string {
	return "collections"
}

// ToDomain converts the persistence model to a domain Collection.
// Products are only present when preloaded.
func (m *CollectionModel) ToDomain() *catalog.Collection {
	rooms := make([]catalog.RoomCategory, len(m.SuitableRooms))
	for i, r := range m.SuitableRooms {
		rooms[i] = catalog.RoomCategory(r)
	}
	products := make([]catalog.CollectionProduct, len(m.Products))
	for i, p := range m.Products {
		products[i] = catalog.CollectionProduct{ProductID: p.ProductID, Position: p.Position, AddedAt: p.AddedAt}
	}
	return &catalog.Collection{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		IsActive:          m.IsActive,
		Visibility:        m.Visibility,
		Style:             m.Style,
		RoomCategory:      m.RoomCategory,
		SuitableRooms:     rooms,
		ThemeTags:         []string(m.ThemeTags),
		DisplayOrder:      m.DisplayOrder,
		MetaTitle:         m.MetaTitle,
		MetaDescription:   m.MetaDescription,
		ImageURL:          m.ImageURL,
		ColorTheme:        m.ColorTheme,
		ProductCount:      m.ProductCount,
		SharedCount:       m.SharedCount,
		SharedLinkToken:   m.SharedLinkToken,
		Products:          products,
	}
}

// FromDomain populates the persistence model and memberships from a domain Collection.
func (m *CollectionModel) FromDomain(c *catalog.Collection, searchText string) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.IsActive = c.IsActive
	m.Visibility = c.Visibility
	m.Style = c.Style
	m.RoomCategory = c.RoomCategory
	m.SuitableRooms = make(StringList, len(c.SuitableRooms))
	for i, r := range c.SuitableRooms {
		m.SuitableRooms[i] = string(r)
	}
	m.ThemeTags = StringList(c.ThemeTags)
	m.DisplayOrder = c.DisplayOrder
	m.MetaTitle = c.MetaTitle
	m.MetaDescription = c.MetaDescription
	m.ImageURL = c.ImageURL
	m.ColorTheme = c.ColorTheme
	m.ProductCount = c.ProductCount
	m.SharedCount = c.SharedCount
	m.SharedLinkToken = c.SharedLinkToken
	m.SearchText = searchText
	m.Products = make([]CollectionProductModel, len(c.Products))
	for i, p := range c.Products {
		m.Products[i] = CollectionProductModel{
			CollectionID: c.ID,
			ProductID:    p.ProductID,
			Position:     p.Position,
			AddedAt:      p.AddedAt,
		}
	}
}

// CollectionProductModel is a product membership with its 1-based position.
type CollectionProductModel struct {
	CollectionID uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID    uuid.UUID `gorm:"type:uuid;primary_key"`
	Position     int       `gorm:"not null"`
	AddedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CollectionProductModel) TableName() string {
	return "collection_products"
}

// CollectionShareModel records one share of a collection.
type CollectionShareModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key"`
	CollectionID uuid.UUID         `gorm:"type:uuid;not null;index"`
	ShareType    catalog.ShareType `gorm:"type:varchar(10);not null"`
	Token        string            `gorm:"type:varchar(64);not null"`
	SharedAt     time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CollectionShareModel) TableName() string {
	return "collection_shares"
}

// CollectionShareModelFromDomain creates a persistence model from a domain share.
func CollectionShareModelFromDomain(s *catalog.CollectionShare) *CollectionShareModel {
	return &CollectionShareModel{
		ID:           s.ID,
		CollectionID: s.CollectionID,
		ShareType:    s.ShareType,
		Token:        s.Token,
		SharedAt:     s.SharedAt,
	}
}

package catalog

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/shared"
)

// Visibility controls whether a collection is listed publicly
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Style is the decoration style of a collection
type Style string

const (
	StyleMinimaliste  Style = "minimaliste"
	StyleContemporain Style = "contemporain"
	StyleModerne      Style = "moderne"
	StyleScandinave   Style = "scandinave"
	StyleIndustriel   Style = "industriel"
	StyleClassique    Style = "classique"
	StyleBoheme       Style = "boheme"
	StyleArtDeco      Style = "art_deco"
)

// RoomCategory is the room a collection is designed for
type RoomCategory string

const (
	RoomChambre         RoomCategory = "chambre"
	RoomWCSalleDeBain   RoomCategory = "wc_salle_bain"
	RoomSalon           RoomCategory = "salon"
	RoomCuisine         RoomCategory = "cuisine"
	RoomBureau          RoomCategory = "bureau"
	RoomSalleAManger    RoomCategory = "salle_a_manger"
	RoomEntree          RoomCategory = "entree"
	RoomPlusieursPieces RoomCategory = "plusieurs_pieces"
	RoomExterieurBalcon RoomCategory = "exterieur_balcon"
	RoomExterieurJardin RoomCategory = "exterieur_jardin"
)

// ShareType is the channel a collection was shared through
type ShareType string

const (
	ShareTypeLink   ShareType = "link"
	ShareTypeEmail  ShareType = "email"
	ShareTypePDF    ShareType = "pdf"
	ShareTypeExport ShareType = "export"
)

// IsValid checks the visibility
func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// IsValid checks the style; the empty style is allowed
func (s Style) IsValid() bool {
	switch s {
	case "", StyleMinimaliste, StyleContemporain, StyleModerne, StyleScandinave,
		StyleIndustriel, StyleClassique, StyleBoheme, StyleArtDeco:
		return true
	}
	return false
}

// IsValid checks the room category; the empty category is allowed
func (r RoomCategory) IsValid() bool {
	switch r {
	case "", RoomChambre, RoomWCSalleDeBain, RoomSalon, RoomCuisine, RoomBureau,
		RoomSalleAManger, RoomEntree, RoomPlusieursPieces, RoomExterieurBalcon, RoomExterieurJardin:
		return true
	}
	return false
}

// IsValid checks the share type
func (s ShareType) IsValid() bool {
	switch s {
	case ShareTypeLink, ShareTypeEmail, ShareTypePDF, ShareTypeExport:
		return true
	}
	return false
}

// CollectionDetails holds the editable descriptive fields
type CollectionDetails struct {
	Name            string
	Description     string
	Visibility      Visibility
	Style           Style
	RoomCategory    RoomCategory
	SuitableRooms   []RoomCategory
	ThemeTags       []string
	DisplayOrder    int
	MetaTitle       string
	MetaDescription string
	ImageURL        string
	ColorTheme      string
}

// CollectionProduct is a product membership with its 1-based position
type CollectionProduct struct {
	ProductID uuid.UUID
	Position  int
	AddedAt   time.Time
}

// Collection is a curated, ordered group of products
type Collection struct {
	shared.BaseAggregateRoot
	Name            string
	Description     string
	IsActive        bool
	Visibility      Visibility
	Style           Style
	RoomCategory    RoomCategory
	SuitableRooms   []RoomCategory
	ThemeTags       []string
	DisplayOrder    int
	MetaTitle       string
	MetaDescription string
	ImageURL        string
	ColorTheme      string
	ProductCount    int
	SharedCount     int
	SharedLinkToken string
	Products        []CollectionProduct
}

// NewCollection creates an active private collection
func NewCollection(details CollectionDetails) (*Collection, error) {
	c := &Collection{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
		Products:          make([]CollectionProduct, 0),
	}
	if details.Visibility == "" {
		details.Visibility = VisibilityPrivate
	}
	if err := c.applyDetails(details); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the descriptive fields
func (c *Collection) Update(details CollectionDetails) error {
	if details.Visibility == "" {
		details.Visibility = c.Visibility
	}
	if err := c.applyDetails(details); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Collection) applyDetails(d CollectionDetails) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot be empty")
	}
	if len([]rune(d.Name)) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Collection name cannot exceed 255 characters")
	}
	if !d.Visibility.IsValid() {
		return shared.NewDomainError("INVALID_VISIBILITY", fmt.Sprintf("Unknown visibility %q", d.Visibility))
	}
	if !d.Style.IsValid() {
		return shared.NewDomainError("INVALID_STYLE", fmt.Sprintf("Unknown style %q", d.Style))
	}
	if !d.RoomCategory.IsValid() {
		return shared.NewDomainError("INVALID_ROOM_CATEGORY", fmt.Sprintf("Unknown room category %q", d.RoomCategory))
	}
	for _, room := range d.SuitableRooms {
		if room == "" || !room.IsValid() {
			return shared.NewDomainError("INVALID_ROOM_CATEGORY", fmt.Sprintf("Unknown room category %q", room))
		}
	}
	if d.DisplayOrder < 0 {
		return shared.NewDomainError("INVALID_DISPLAY_ORDER", "Display order cannot be negative")
	}

	c.Name = d.Name
	c.Description = strings.TrimSpace(d.Description)
	c.Visibility = d.Visibility
	c.Style = d.Style
	c.RoomCategory = d.RoomCategory
	c.SuitableRooms = d.SuitableRooms
	c.ThemeTags = normalizeTags(d.ThemeTags)
	c.DisplayOrder = d.DisplayOrder
	c.MetaTitle = strings.TrimSpace(d.MetaTitle)
	c.MetaDescription = strings.TrimSpace(d.MetaDescription)
	c.ImageURL = strings.TrimSpace(d.ImageURL)
	c.ColorTheme = strings.TrimSpace(d.ColorTheme)
	return nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ToggleActive flips the active flag
func (c *Collection) ToggleActive() {
	c.IsActive = !c.IsActive
	c.UpdatedAt = time.Now()
}

// HasProduct reports whether the product belongs to the collection
func (c *Collection) HasProduct(productID uuid.UUID) bool {
	return c.indexOf(productID) >= 0
}

func (c *Collection) indexOf(productID uuid.UUID) int {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddProduct appends the product at position max+1
func (c *Collection) AddProduct(productID uuid.UUID) (CollectionProduct, error) {
	if productID == uuid.Nil {
		return CollectionProduct{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if c.HasProduct(productID) {
		return CollectionProduct{}, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already belongs to the collection")
	}
	maxPos := 0
	for _, p := range c.Products {
		if p.Position > maxPos {
			maxPos = p.Position
		}
	}
	member := CollectionProduct{ProductID: productID, Position: maxPos + 1, AddedAt: time.Now()}
	c.Products = append(c.Products, member)
	c.ProductCount = len(c.Products)
	c.UpdatedAt = time.Now()
	return member, nil
}

// RemoveProduct removes the product and compacts positions to 1..n
func (c *Collection) RemoveProduct(productID uuid.UUID) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return shared.NewDomainError("PRODUCT_NOT_IN_COLLECTION", "Product does not belong to the collection")
	}
	c.Products = append(c.Products[:idx], c.Products[idx+1:]...)
	c.compact()
	c.ProductCount = len(c.Products)
	c.UpdatedAt = time.Now()
	return nil
}

// compact renumbers positions 1..n keeping the current relative order
func (c *Collection) compact() {
	ordered := make([]CollectionProduct, len(c.Products))
	copy(ordered, c.Products)
	sortByPosition(ordered)
	for i := range ordered {
		ordered[i].Position = i + 1
	}
	c.Products = ordered
}

// ReorderProducts assigns positions 1..n following productIDs, which must be
// a permutation of the current members.
func (c *Collection) ReorderProducts(productIDs []uuid.UUID) error {
	if len(productIDs) != len(c.Products) {
		return shared.NewDomainError("INVALID_ORDER",
			fmt.Sprintf("Expected %d products, got %d", len(c.Products), len(productIDs)))
	}
	byID := make(map[uuid.UUID]CollectionProduct, len(c.Products))
	for _, p := range c.Products {
		byID[p.ProductID] = p
	}
	reordered := make([]CollectionProduct, 0, len(productIDs))
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	for i, id := range productIDs {
		member, ok := byID[id]
		if !ok {
			return shared.NewDomainError("INVALID_ORDER", fmt.Sprintf("Product %s does not belong to the collection", id))
		}
		if _, dup := seen[id]; dup {
			return shared.NewDomainError("INVALID_ORDER", fmt.Sprintf("Product %s appears twice", id))
		}
		seen[id] = struct{}{}
		member.Position = i + 1
		reordered = append(reordered, member)
	}
	c.Products = reordered
	c.UpdatedAt = time.Now()
	return nil
}

// Share issues a share link token if missing and counts the share
func (c *Collection) Share(shareType ShareType) (*CollectionShare, error) {
	if !shareType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHARE_TYPE", fmt.Sprintf("Unknown share type %q", shareType))
	}
	if !c.IsActive {
		return nil, shared.NewDomainError(shared.ErrInvalidState.Code, "Inactive collections cannot be shared")
	}
	if c.SharedLinkToken == "" {
		token, err := newShareToken()
		if err != nil {
			return nil, err
		}
		c.SharedLinkToken = token
	}
	c.SharedCount++
	c.UpdatedAt = time.Now()
	return &CollectionShare{
		ID:           uuid.New(),
		CollectionID: c.ID,
		ShareType:    shareType,
		Token:        c.SharedLinkToken,
		SharedAt:     c.UpdatedAt,
	}, nil
}

// CollectionShare records one share of a collection
type CollectionShare struct {
	ID           uuid.UUID
	CollectionID uuid.UUID
	ShareType    ShareType
	Token        string
	SharedAt     time.Time
}

func newShareToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

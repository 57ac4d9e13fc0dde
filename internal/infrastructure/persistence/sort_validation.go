package persistence

import (
	"strings"

	"github.com/verone/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyPage applies whitelisted ordering and pagination to a list query
func applyPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// OrganisationSortFields contains allowed sort fields for organisations
var OrganisationSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"legal_name": true,
	"trade_name": true,
	"type":       true,
	"country":    true,
}

// EnseigneSortFields contains allowed sort fields for enseignes
var EnseigneSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"member_count": true,
}

// AffiliateSortFields contains allowed sort fields for affiliates
var AffiliateSortFields = map[string]bool{
	"created_at":   true,
	"display_name": true,
}

// SelectionSortFields contains allowed sort fields for selections
var SelectionSortFields = map[string]bool{
	"created_at":     true,
	"name":           true,
	"products_count": true,
}

// SalesOrderSortFields contains allowed sort fields for sales orders
var SalesOrderSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"payment_status": true,
	"total_ht":       true,
	"total_ttc":      true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"document_number": true,
	"document_date":   true,
	"due_date":        true,
	"total_ttc":       true,
	"workflow_status": true,
}

// CollectionSortFields contains allowed sort fields for collections
var CollectionSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"product_count": true,
	"display_order": true,
}

// ContractSortFields contains allowed sort fields for contracts
var ContractSortFields = map[string]bool{
	"created_at":    true,
	"start_date":    true,
	"end_date":      true,
	"emission_date": true,
	"type":          true,
}

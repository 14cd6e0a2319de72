package persistence

import (
	"strings"
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

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
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

// ProductSortFields contains allowed sort columns for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"slug":           true,
	"sku":            true,
	"status":         true,
	"regular_price":  true,
	"stock_quantity": true,
	"total_sales":    true,
}

// OrderSortFields contains allowed sort columns for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"status":       true,
	"total_amount": true,
}

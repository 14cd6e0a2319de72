package handler

import (
	"fmt"
	"strconv"
)

// Collection query defaults and bounds
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// orderByColumns maps the public orderby vocabulary to sortable columns
var orderByColumns = map[string]string{
	"date":     "created_at",
	"id":       "id",
	"title":    "name",
	"slug":     "slug",
	"modified": "updated_at",
	"price":    "regular_price",
}

// orderByOrderColumns is the order-list vocabulary
var orderByOrderColumns = map[string]string{
	"date":   "created_at",
	"id":     "id",
	"total":  "total_amount",
	"status": "status",
}

// normalizePage parses the page parameter, defaulting to 1
func normalizePage(raw string) (int, error) {
	if raw == "" {
		return DefaultPage, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("page must be a positive integer")
	}
	return page, nil
}

// normalizePerPage parses the per_page parameter, defaulting to 10 and
// capped at 100
func normalizePerPage(raw string) (int, error) {
	if raw == "" {
		return DefaultPerPage, nil
	}
	perPage, err := strconv.Atoi(raw)
	if err != nil || perPage < 1 || perPage > MaxPerPage {
		return 0, fmt.Errorf("per_page must be between 1 and %d", MaxPerPage)
	}
	return perPage, nil
}

// normalizeOrder parses the order parameter, defaulting to desc
func normalizeOrder(raw string) (string, error) {
	switch raw {
	case "":
		return "desc", nil
	case "asc", "desc":
		return raw, nil
	default:
		return "", fmt.Errorf("order must be asc or desc")
	}
}

// normalizeOrderBy maps the public orderby value to its column using the
// given vocabulary, defaulting to the creation date
func normalizeOrderBy(raw string, columns map[string]string) (string, error) {
	if raw == "" {
		return "created_at", nil
	}
	column, ok := columns[raw]
	if !ok {
		return "", fmt.Errorf("orderby value %q is not supported", raw)
	}
	return column, nil
}

// normalizeOptionalInt64 parses an optional numeric parameter, nil when absent
func normalizeOptionalInt64(raw, field string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", field)
	}
	return &v, nil
}

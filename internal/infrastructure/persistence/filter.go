package persistence

import (
	"github.com/tripled/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applySort orders the query by the filter's sort options, restricted to
// the whitelisted columns
func applySort(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// applyPagination applies the filter's page window to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

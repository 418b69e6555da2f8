package database

import (
	"gorm.io/gorm"

	"github.com/harukimoto/knowledge-base-api/internal/utils"
)

// Paginate applies offset/limit pagination to a GORM query. A zero or
// negative limit leaves the query unbounded, so callers should build params
// through utils.GetPaginationParams rather than by hand.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params.Limit <= 0 {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

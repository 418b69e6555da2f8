package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/constants"
)

// PaginationParams holds the pagination parameters. Pages are 1-based.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads the page and limit query parameters. Malformed
// or out-of-range values fall back rather than erroring: page floors at 1,
// limit caps at MaxPageSize so a single request cannot dump an entire
// organization's membership.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/constants"
	"github.com/stretchr/testify/require"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/organization/members"+query, nil)
	return c
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, ""))

	require.Equal(t, 1, params.Page)
	require.Equal(t, constants.DefaultPageSize, params.Limit)
	require.Equal(t, 0, params.Offset)
}

func TestGetPaginationParamsOffset(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?page=3&limit=10"))

	require.Equal(t, 3, params.Page)
	require.Equal(t, 10, params.Limit)
	require.Equal(t, 20, params.Offset)
}

func TestGetPaginationParamsClampsLimit(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?limit=10000"))
	require.Equal(t, constants.MaxPageSize, params.Limit)

	params = GetPaginationParams(paginationContext(t, "?limit=-5"))
	require.Equal(t, constants.DefaultPageSize, params.Limit)
}

func TestGetPaginationParamsMalformedValues(t *testing.T) {
	params := GetPaginationParams(paginationContext(t, "?page=zero&limit=many"))

	require.Equal(t, 1, params.Page)
	require.Equal(t, constants.DefaultPageSize, params.Limit)

	params = GetPaginationParams(paginationContext(t, "?page=-2"))
	require.Equal(t, 1, params.Page)
	require.Equal(t, 0, params.Offset)
}

package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/chirper-app/backend/internal/apperrors"
	"github.com/chirper-app/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated caller's user ID, or 0 when
// the request carries no valid claims.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// httpError maps the core error kinds onto HTTP status codes. Anything
// without a kind is an internal error.
func httpError(err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case apperrors.KindInvalid:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case apperrors.KindUnauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// parsePagination reads page/limit query params with the shared defaults.
func parsePagination(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	} else if limit > 50 {
		limit = 50
	}
	return page, limit
}

// pageMeta is the pagination envelope for offset-paginated listings.
func pageMeta(page, limit int, total int64) echo.Map {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      total,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}

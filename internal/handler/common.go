package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/clientbridge/crm/internal/errors"
)

// respondError writes a domain error as JSON. Wrapped internals never leak;
// only the domain message and code go to the client.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)

	response := gin.H{
		"success": false,
		"error":   apperrors.GetErrorMessage(err),
	}
	if domainErr := apperrors.GetDomainError(err); domainErr != nil {
		response["code"] = domainErr.Code
	}

	c.JSON(status, response)
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Validation failed",
		"details": err.Error(),
	})
}

// parseIDParam reads a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperrors.ErrInvalidInput)
		return 0, false
	}
	return uint(id), true
}

func pageTotal(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

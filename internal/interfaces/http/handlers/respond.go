// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/marketplace-backend/internal/pkg/apperr"
)

// respondError maps a service error onto an HTTP status and JSON body.
// Internal errors never leak their message to the client.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	message := err.Error()
	var e *apperr.Error
	if !errors.As(err, &e) || status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	c.JSON(status, gin.H{"error": message})
}

// queryInt reads an integer query parameter with a fallback
func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

// parseIDParam reads a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tradedesk-system/internal/apperr"
)

// respondError translates the error taxonomy to a status and a {message}
// body. The status comes from the error kind, never from message matching.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"message": apperr.MessageOf(err)})
}

// idQuery reads the `id` query parameter used by PUT and DELETE routes.
func idQuery(c *gin.Context) (int64, error) {
	raw := c.Query("id")
	if raw == "" {
		return 0, apperr.InvalidInput("id query parameter is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("id must be a positive integer")
	}
	return id, nil
}

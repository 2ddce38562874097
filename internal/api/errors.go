// Package api defines the JSON shapes shared by every HTTP endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body returned for every handled failure.
// Clients may rely on the presence of both keys; the message text is diagnostic only.
type ErrorResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// RespondError aborts the request with status and an ErrorResponse built from err.
func RespondError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		URL:     c.Request.URL.String(),
		Message: err.Error(),
	})
}

// NotFound handles requests to unmapped routes.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
		URL:     c.Request.URL.String(),
		Message: "the requested URL was not found on the server",
	})
}

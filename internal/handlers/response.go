package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/packtrace/sdp-backend/internal/platform/apierr"
)

// Respond writes the success envelope every endpoint shares: a success
// flag, a human message, and the payload keys merged at the top level.
func Respond(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// RespondError maps any error to the failure envelope, honoring the status
// and details carried by an *apierr.Error.
func RespondError(c *gin.Context, err error) {
	ae := apierr.From(err, "Internal server error")
	body := gin.H{
		"success": false,
		"message": ae.Message,
		"error":   ae.Code,
	}
	for k, v := range ae.Details {
		body[k] = v
	}
	c.JSON(ae.Status, body)
}

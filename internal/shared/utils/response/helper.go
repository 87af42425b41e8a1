// Package response carries the JSON envelope every railres endpoint
// answers with, so booking, catalog and cancellation handlers all read
// the same on the wire.
package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the standard envelope. status is "success" or
// "error"; errors carries validation details or a machine-readable code
// such as "ALREADY_CANCELLED".
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

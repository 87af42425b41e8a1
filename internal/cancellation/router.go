package cancellation

import (
	"railres/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCancellationRoutes configures all cancellation routes
func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller, rateLimit gin.HandlerFunc) {
	tickets := rg.Group("/tickets")
	tickets.Use(middleware.JWTAuth())
	if rateLimit != nil {
		tickets.Use(rateLimit)
	}
	{
		tickets.POST("/:pnr/cancel", controller.CancelTicket)
		tickets.GET("/:pnr/cancellations", controller.GetCancellations)
	}
}

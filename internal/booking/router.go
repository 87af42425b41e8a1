package booking

import (
	"railres/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all ticket booking routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, rateLimit gin.HandlerFunc) {
	tickets := rg.Group("/tickets")
	tickets.Use(middleware.JWTAuth())
	if rateLimit != nil {
		tickets.Use(rateLimit)
	}
	{
		tickets.POST("", controller.CreateTicket)
		tickets.GET("/:pnr", controller.GetTicket)
		tickets.GET("/:pnr/bill", controller.GetItemizedBill)
		tickets.GET("/:pnr/bill.pdf", controller.GetBillPDF)
	}
}

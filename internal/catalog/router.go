package catalog

import (
	"railres/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures all catalog-related routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	catalog := rg.Group("/catalog")
	{
		// Public lookups
		catalog.GET("/stations", controller.ListStations)
		catalog.GET("/trains", controller.ListTrains)
		catalog.GET("/journeys", controller.SearchJourneys)
		catalog.GET("/journeys/:id", controller.GetJourney)

		// Administrative catalog management
		admin := catalog.Group("")
		admin.Use(middleware.JWTAuth(), middleware.RequireRole("ADMIN"))
		{
			admin.POST("/stations", controller.CreateStation)
			admin.POST("/trains", controller.CreateTrain)
			admin.POST("/journeys", controller.CreateJourney)
		}
	}
}

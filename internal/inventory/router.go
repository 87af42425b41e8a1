package inventory

import (
	"github.com/gin-gonic/gin"
)

// SetupInventoryRoutes configures availability lookup routes
func SetupInventoryRoutes(rg *gin.RouterGroup, controller *Controller) {
	inv := rg.Group("/inventory")
	{
		inv.GET("/:journeyId/:classId", controller.GetAvailability)
	}
}

// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"railres/internal/booking"
	"railres/internal/cancellation"
	"railres/internal/catalog"
	"railres/internal/fare"
	"railres/internal/inventory"
	"railres/internal/notifications"
	"railres/internal/shared/config"
	"railres/internal/shared/constants"
	"railres/internal/shared/database"
	"railres/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	cacheSvc    cache.Service
	notifier    *notifications.Dispatcher
	bookingRate gin.HandlerFunc

	// Services shared across route groups
	cancellationService cancellation.Service
	inventoryService    inventory.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Dispatcher, bookingRate gin.HandlerFunc) *Router {
	r := &Router{
		config:      cfg,
		db:          db,
		notifier:    notifier,
		bookingRate: bookingRate,
	}
	if db.Redis != nil {
		r.cacheSvc = cache.NewService(db.Redis)
	}
	return r
}

// CancellationService exposes the cancellation service for job wiring.
func (r *Router) CancellationService() cancellation.Service {
	return r.cancellationService
}

// InventoryService exposes the inventory service for job wiring.
func (r *Router) InventoryService() inventory.Service {
	return r.inventoryService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Shared infrastructure
	pg := r.db.GetPostgreSQL()
	txRunner := database.NewTxRunner(pg)
	locker := inventory.NewJourneyClassLocker()

	// Repositories
	catalogRepo := catalog.NewRepository(pg)
	inventoryRepo := inventory.NewRepository(pg)
	bookingRepo := booking.NewRepository(pg)
	cancellationRepo := cancellation.NewRepository(pg)

	// Services. The booking repository doubles as the queue inspector for
	// inventory audits.
	inventoryService := inventory.NewService(inventoryRepo, bookingRepo)
	catalogService := catalog.NewService(catalogRepo, r.cacheSvc, constants.TTL_JOURNEY_FACTS, inventoryService)
	fareCalc := fare.NewCalculator(r.config.Fare)

	var bookingNotifier booking.Notifier
	var cancelNotifier cancellation.Notifier
	if r.notifier != nil {
		bookingNotifier = r.notifier
		cancelNotifier = r.notifier
	}

	bookingService := booking.NewService(
		bookingRepo, inventoryRepo, catalogService, fareCalc, txRunner, locker, bookingNotifier)
	cancellationService := cancellation.NewService(
		cancellationRepo, bookingRepo, inventoryRepo, catalogService,
		r.config.Refund, txRunner, locker, cancelNotifier)

	r.cancellationService = cancellationService
	r.inventoryService = inventoryService

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		catalog.SetupCatalogRoutes(api, catalog.NewController(catalogService))
		inventory.SetupInventoryRoutes(api, inventory.NewController(inventoryService))
		booking.SetupBookingRoutes(api, booking.NewController(bookingService), r.bookingRate)
		cancellation.SetupCancellationRoutes(api, cancellation.NewController(cancellationService), r.bookingRate)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "railres-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "railres-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

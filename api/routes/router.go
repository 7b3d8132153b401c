package routes

import (
	"net/http"
	"time"

	"tourbook/internal/analytics"
	"tourbook/internal/auth"
	"tourbook/internal/availability"
	"tourbook/internal/bookings"
	"tourbook/internal/guides"
	"tourbook/internal/notifications"
	"tourbook/internal/payments"
	"tourbook/internal/payouts"
	"tourbook/internal/settings"
	"tourbook/internal/shared/config"
	"tourbook/internal/shared/database"
	"tourbook/internal/shared/middleware"
	"tourbook/internal/tours"
	"tourbook/internal/users"
	"tourbook/pkg/cache"
	"tourbook/pkg/logger"
	"tourbook/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "tourbook/docs"
)

const serviceName = "tourbook-backend"

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher
	log       *logger.Logger
}

// NewRouter creates a new router instance. publisher receives booking
// lifecycle events; pass notifications.NoopPublisher when Kafka is off.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		log:       logger.GetDefault(),
	}
}

// SetupRoutes builds every feature package and registers its routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	pg := r.db.GetPostgreSQL()
	tx := r.db.Transactor()
	cacheService := cache.NewService(r.db.GetRedisClient())
	authenticate := middleware.JWTAuthWithConfig(r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	guideMe := api.Group("/guides/me", authenticate, middleware.RequireRoles(users.RoleGuide))
	admin := api.Group("/admin", authenticate, middleware.RequireAdmin())

	// Guides
	guideRepo := guides.NewRepository(pg)
	guideService := guides.NewService(guideRepo)
	guides.SetupGuideRoutes(guideMe, admin, guides.NewController(guideService))

	// Auth
	authRepo := auth.NewRepository(pg)
	authService := auth.NewService(authRepo, tx, guideService, r.config)
	auth.NewRouter(auth.NewController(authService), authenticate).SetupRoutes(api)

	// Settings
	settingsService := settings.NewService(settings.NewRepository(pg), r.config.Pricing.DefaultCommissionRate)
	settings.SetupSettingsRoutes(admin, settings.NewController(settingsService))

	// Tours and availability
	slotRepo := availability.NewRepository(pg)
	tourRepo := tours.NewRepository(pg)
	tourService := tours.NewService(tourRepo, guideService, slotRepo, cacheService)
	tours.SetupTourRoutes(api, guideMe, admin, tours.NewController(tourService), authenticate)

	slotService := availability.NewService(slotRepo, tourService)
	availability.SetupAvailabilityRoutes(api, availability.NewController(slotService), authenticate)

	// Bookings
	bookingRepo := bookings.NewRepository(pg)
	bookingService := bookings.NewService(
		bookingRepo,
		tx,
		tourService,
		slotService,
		availability.NewLedger(pg),
		settingsService,
		r.publisher,
	)
	bookings.SetupBookingRoutes(api, guideMe, admin, bookings.NewController(bookingService), authenticate)

	// Payments
	if r.config.PaymentsEnabled() {
		paymentService := payments.NewService(
			payments.NewRepository(pg),
			tx,
			bookingService,
			payments.NewStripeGateway(r.config.Stripe),
		)
		payments.SetupPaymentRoutes(api, payments.NewController(paymentService), authenticate)
	} else {
		r.log.Warn("Stripe keys not configured, checkout and webhook routes disabled")
	}

	// Payouts and analytics
	payoutService := payouts.NewService(payouts.NewRepository(pg), bookingRepo, tx, cacheService)
	payouts.SetupPayoutRoutes(guideMe, admin, payouts.NewController(payoutService))

	analyticsService := analytics.NewService(analytics.NewRepository(pg), authRepo, guideRepo, tourRepo, cacheService)
	analytics.SetupAnalyticsRoutes(guideMe, admin, analytics.NewController(analyticsService))
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"payments":    r.config.PaymentsEnabled(),
			"kafka":       r.config.Kafka.Enabled,
			"timestamp":   time.Now(),
		})
	})

	if r.config.MetricsEnabled {
		engine.GET("/metrics", metrics.Handler())
	}
}

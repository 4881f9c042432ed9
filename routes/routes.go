package routes

import (
	"time"

	"cleaningmanager/handlers"
	"cleaningmanager/middleware"
	"cleaningmanager/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers sign-up, sign-in and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		// Public; an admin session may create admin accounts.
		api.POST("/signup", hb.RateLimiter.Middleware(), middleware.OptionalSessionAuthMiddleware(hb.Sessions), hb.Auth.SignUpHandler)
		api.POST("/signin", hb.RateLimiter.Middleware(), hb.Auth.SignInHandler)

		protected := api.Group("")
		protected.Use(middleware.SessionAuthMiddleware(hb.Sessions))
		protected.GET("/me", hb.Auth.MeHandler)
		protected.POST("/signout", hb.Auth.SignOutHandler)
	}
}

// RegisterLinkRoutes registers the unauthenticated availability link endpoints.
func RegisterLinkRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	links := r.Group("/api/links")
	{
		links.Use(hb.RateLimiter.Middleware())
		links.GET("/:token", hb.Availability.PublicLinkHandler)
		links.POST("/:token/availability", hb.Availability.SubmitViaLinkHandler)
	}
}

// RegisterScheduleRoutes registers endpoints any signed-in user may call.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.SessionAuthMiddleware(hb.Sessions))
		api.GET("/schedule", hb.Schedule.DayHandler)
		api.GET("/availability/:cleanerId/:month", hb.Availability.GetAvailabilityHandler)
		api.PUT("/availability/:cleanerId/:month", hb.Availability.UpdateAvailabilityHandler)
	}
}

// RegisterAdminRoutes registers assignment, migration, roster and link management.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api")
	admin.Use(middleware.SessionAuthMiddleware(hb.Sessions), middleware.RequireAdmin())
	{
		admin.GET("/assignments", hb.Assignments.ListAssignmentsHandler)
		admin.POST("/assignments/sync", hb.Assignments.SyncHandler)
		admin.POST("/assignments/reconcile", hb.Assignments.ReconcileHandler)
		admin.PUT("/assignments/:date/:bookingId/cleaner", hb.Assignments.AssignCleanerHandler)
		admin.DELETE("/assignments/:date/:bookingId/cleaner", hb.Assignments.UnassignCleanerHandler)

		admin.GET("/migration/plan", hb.Migration.PlanHandler)
		admin.GET("/migration/legacy", hb.Migration.LegacyIDsHandler)
		admin.POST("/migration/apply", hb.Migration.ApplyHandler)
		admin.POST("/migration/cleanup", hb.Migration.CleanupHandler)

		admin.GET("/cleaners", hb.Cleaners.ListCleanersHandler)
		admin.POST("/cleaners", hb.Cleaners.CreateCleanerHandler)
		admin.GET("/cleaners/:id", hb.Cleaners.GetCleanerHandler)
		admin.PUT("/cleaners/:id", hb.Cleaners.UpdateCleanerHandler)
		admin.DELETE("/cleaners/:id", hb.Cleaners.DeleteCleanerHandler)

		admin.GET("/availability", hb.Availability.MonthAvailabilityHandler)
		admin.GET("/availability-links", hb.Availability.ListLinksHandler)
		admin.POST("/availability-links", hb.Availability.CreateLinkHandler)
		admin.DELETE("/availability-links/:id", hb.Availability.DeactivateLinkHandler)

		admin.PUT("/users/:uid/active", hb.Auth.SetUserActiveHandler)
	}
}

// RegisterHealthRoute registers health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
	r.GET("/metrics", gin.WrapH(utils.MetricsHandler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.InstrumentHTTP())

	RegisterAuthRoutes(r, hb)
	RegisterLinkRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}

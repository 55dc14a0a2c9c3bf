package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/config"
	"github.com/stemsi/attendance-portal/internal/handler"
	"github.com/stemsi/attendance-portal/internal/middleware"
	"github.com/stemsi/attendance-portal/internal/response"
	"github.com/stemsi/attendance-portal/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Attendance *handler.AttendanceHandler
	User       *handler.UserHandler
	Feed       *handler.FeedHandler
}

// Limiters throttle the public auth routes and attendance marking.
// A nil limiter disables throttling for its group.
type Limiters struct {
	Auth middleware.Limiter
	Mark middleware.Limiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	limiters Limiters,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Brotli(5))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(cfg.RequestTimeout))

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := api.Group("/auth")
	if limiters.Auth != nil {
		auth.Use(middleware.RateLimit(limiters.Auth, log))
	}
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		auth.POST("/logout", middleware.RequireAuth(authService, log), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService, log), handlers.Auth.Me)
	}

	// ─── 2. Attendance Group (JWT) ─────────────────────────────────────
	attendance := api.Group("/attendance")
	attendance.Use(middleware.RequireAuth(authService, log))
	{
		mark := []gin.HandlerFunc{handlers.Attendance.Mark}
		if limiters.Mark != nil {
			mark = append([]gin.HandlerFunc{middleware.RateLimit(limiters.Mark, log)}, mark...)
		}
		attendance.POST("/mark", mark...)
		attendance.GET("/today", handlers.Attendance.Today)
		attendance.GET("/user/:user_id",
			middleware.Guard(handlers.Attendance.ForUser, service.AccessAdmin, service.AccessSelf))
		attendance.GET("/stats/:user_id",
			middleware.Guard(handlers.Attendance.Stats, service.AccessAdmin, service.AccessSelf))
	}

	// ─── 3. User Group (JWT + Gate) ────────────────────────────────────
	users := api.Group("/users")
	users.Use(middleware.RequireAuth(authService, log))
	{
		users.GET("", middleware.Guard(handlers.User.List, service.AccessAdmin))
		users.GET("/:user_id",
			middleware.Guard(handlers.User.Get, service.AccessAdmin, service.AccessSelf))
		users.PATCH("/:user_id",
			middleware.Guard(handlers.User.Update, service.AccessAdmin, service.AccessSelf))
		users.DELETE("/:user_id",
			middleware.Guard(middleware.ForbidSelf(handlers.User.Delete), service.AccessAdmin))
	}

	// ─── 4. WebSocket Group (Admin WS Auth, no request timeout) ────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService, log))
	{
		ws.GET("/admin/attendance/feed", handlers.Feed.Stream)
	}

	return router
}

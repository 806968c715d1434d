package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rawwealthy.backend/internal/interfaces/http/handlers"
	"rawwealthy.backend/internal/interfaces/http/middleware"
	"rawwealthy.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	planHandler    *handlers.PlanHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
	idempotencyTTL time.Duration
}

func newRouter(collector *metrics.Collector, allowedOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(collector))
	applyCORSMiddleware(r, allowedOrigins)
	return r
}

// applyCORSMiddleware echoes allowed origins back. An empty list allows any
// origin without credentials.
func applyCORSMiddleware(r *gin.Engine, allowedOrigins string) {
	allowed := map[string]bool{}
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		case len(allowed) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.IdempotencyHeader+", "+middleware.RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", middleware.RequestIDHeader+", Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine, h *handlers.HealthHandler) {
	r.GET("/health", h.Health)
}

func registerMetricsRoute(r *gin.Engine, collector *metrics.Collector, path string) {
	r.GET(path, gin.WrapH(collector.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
			auth.POST("/forgot-password", d.authHandler.ForgotPassword)
			auth.POST("/reset-password", d.authHandler.ResetPassword)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
		}

		users := v1.Group("/users")
		users.GET("/referrals/:code", d.userHandler.LookupReferral)
		account := users.Group("", d.authMiddleware)
		{
			account.GET("/profile", d.userHandler.GetProfile)
			account.PUT("/profile", d.userHandler.UpdateProfile)
			account.POST("/devices", d.userHandler.RegisterDevice)
			account.POST("/two-factor/backup-codes", d.userHandler.RegenerateBackupCodes)
			account.POST("/two-factor/disable", d.userHandler.DisableTwoFactor)
		}

		plans := v1.Group("/plans")
		{
			plans.GET("", d.planHandler.ListPlans)
			plans.GET("/active", d.planHandler.ActivePlans)
			plans.GET("/featured", d.planHandler.FeaturedPlans)
			plans.GET("/risk/:level", d.planHandler.PlansByRisk)
			plans.GET("/:id", d.planHandler.GetPlan)
		}

		plansAdmin := v1.Group("/plans")
		plansAdmin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			plansAdmin.POST("", d.planHandler.CreatePlan)
			plansAdmin.PUT("/:id", d.planHandler.UpdatePlan)
			plansAdmin.DELETE("/:id", d.planHandler.DeactivatePlan)
			plansAdmin.POST("/:id/performance", middleware.IdempotencyMiddleware(d.idempotencyTTL), d.planHandler.RecordInvestment)
		}

		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireStaff())
		{
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/users/top-investors", d.adminHandler.TopInvestors)
			admin.GET("/users/stats", d.adminHandler.GetStats)
			admin.PUT("/users/:id/kyc", d.adminHandler.ReviewKYC)
			admin.GET("/plans", d.planHandler.ListAllPlans)
		}
	}
}

package main

import (
	"context"
	"net/http"
	"time"

	"clubsite-backend/internal/shared"
	"clubsite-backend/internal/shared/middleware"
	"clubsite-backend/pkg/container"
	"clubsite-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.CORS(c.Config.App.AllowedOrigins),
	)

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	setupPublicRoutes(api, c)
	setupAuthRoutes(api, c)
	setupAdminRoutes(api, c)

	return router
}

// Anonymous readers and the contact form.
func setupPublicRoutes(api *gin.RouterGroup, c *container.Container) {
	c.ArticleHandler.RegisterPublic(api, "/"+shared.KindArticle)
	c.FixtureHandler.RegisterPublic(api, "/"+shared.KindFixture)
	c.PlayerHandler.RegisterPublic(api, "/"+shared.KindPlayer)
	c.CoachHandler.RegisterPublic(api, "/"+shared.KindCoach)
	c.TrainingHandler.RegisterPublic(api, "/"+shared.KindTraining)
	c.GalleryHandler.RegisterPublic(api, "/"+shared.KindGallery)

	limited := api.Group("", c.PublicLimiter.Middleware())
	limited.POST("/page-views", c.PageViewHandler.Record)
	limited.POST("/send", c.ContactHandler.Send)
}

func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	authGroup := api.Group("/auth")
	authGroup.POST("/login", c.PublicLimiter.Middleware(), c.AuthHandler.Login)
	authGroup.GET("/me", middleware.AdminAuth(c.JWTManager, c.Config.Admin.AllowedEmails), c.AuthHandler.Me)
}

func setupAdminRoutes(api *gin.RouterGroup, c *container.Container) {
	// Development only: creates tables before any admin exists, so it
	// sits outside the auth gate.
	if c.Config.IsDevelopment() {
		api.POST("/admin/setup", c.AuthHandler.Setup)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(c.JWTManager, c.Config.Admin.AllowedEmails))

	admin.POST("/upload", c.MediaHandler.Upload)
	admin.POST("/delete-media", c.MediaHandler.DeleteMedia)

	c.ArticleHandler.RegisterAdmin(admin, "/"+shared.KindArticle)
	c.FixtureHandler.RegisterAdmin(admin, "/"+shared.KindFixture)
	c.PlayerHandler.RegisterAdmin(admin, "/"+shared.KindPlayer)
	c.CoachHandler.RegisterAdmin(admin, "/"+shared.KindCoach)
	c.TrainingHandler.RegisterAdmin(admin, "/"+shared.KindTraining)
	c.GalleryHandler.RegisterAdmin(admin, "/"+shared.KindGallery)
	c.GalleryImageHandler.Register(admin)

	admin.GET("/page-views", c.PageViewHandler.Stats)
	admin.GET("/contacts", c.ContactHandler.List)
	admin.GET("/contacts/export", c.ContactHandler.Export)
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		services := appCtx.HealthCheck(ctx)
		status, code := "healthy", http.StatusOK
		if services["database"] != "ok" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		} else if services["cache"] != "ok" || services["storage"] != "ok" {
			status = "degraded"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().UTC(),
			"services":  services,
		})
	}
}

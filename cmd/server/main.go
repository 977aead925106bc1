package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	database "github.com/Mihlali-tech/Alx-DjangoLearnLab/internal"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/api"
	"github.com/Mihlali-tech/Alx-DjangoLearnLab/internal/bus"
)

func main() {
	database.Connect()

	// Determine listen port from environment, default to 8080
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Starting API server on :" + port + "...")
	router := gin.Default()

	// Event bus: local by default, NATS via NATS_URL (+ nats build tag)
	api.EventBus = bus.FromEnv()
	defer api.EventBus.Close()

	// Metrics and request IDs on every route
	router.Use(api.MetricsMiddleware())
	router.Use(api.RequestIDMiddleware())

	// CORS: allow everything in development, restrict via CORS_ORIGINS
	config := cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.AllowAllOrigins = false
		parts := strings.Split(origins, ",")
		allow := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				allow = append(allow, s)
			}
		}
		if len(allow) > 0 {
			config.AllowOrigins = allow
		}
	}
	router.Use(cors.New(config))

	// --- Public routes (no auth needed) ---
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", api.RegisterUser)
		authRoutes.POST("/login", api.LoginUser)
	}

	// Public catalog reads. OptionalAuth still rejects a supplied-but-invalid
	// token; a request with no credential sails through.
	publicAPI := router.Group("/api")
	publicAPI.Use(api.OptionalAuthMiddleware())
	{
		publicAPI.GET("/books", api.ListBooks)
		publicAPI.GET("/books/:id", api.GetBook)
		publicAPI.GET("/authors", api.ListAuthors)
		publicAPI.GET("/authors/:id", api.GetAuthor)
		publicAPI.GET("/posts", api.ListPosts)
		publicAPI.GET("/posts/:id", api.GetPost)
	}

	// --- Protected routes (require user JWT auth) ---
	protected := router.Group("/api")
	protected.Use(api.AuthMiddleware())
	{
		protected.POST("/books", api.CreateBook)
		protected.PUT("/books/:id", api.UpdateBook)
		protected.DELETE("/books/:id", api.DeleteBook)

		protected.POST("/authors", api.CreateAuthor)
		protected.PUT("/authors/:id", api.UpdateAuthor)
		protected.DELETE("/authors/:id", api.DeleteAuthor)

		protected.POST("/posts", api.CreatePost)
		protected.PUT("/posts/:id", api.UpdatePost)
		protected.DELETE("/posts/:id", api.DeletePost)
		protected.POST("/posts/:id/like", api.LikePost)
		protected.DELETE("/posts/:id/like", api.UnlikePost)

		protected.GET("/profile/:username", api.GetProfile)
		protected.GET("/profile/:username/followers", api.ListFollowers)
		protected.GET("/profile/:username/following", api.ListFollowing)
		protected.POST("/follow/:username", api.ToggleFollow)
	}

	// Health, readiness, and Prometheus metrics
	router.GET("/healthz", func(c *gin.Context) { c.Status(200) })
	router.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 300*time.Millisecond)
		defer cancel()
		if err := database.DB.DB.PingContext(ctx); err != nil {
			c.JSON(503, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		if err := api.CacheReady(ctx); err != nil {
			c.JSON(503, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

package routes

import (
	"points-wallet/internal/handlers"
	"points-wallet/internal/metrics"
	"points-wallet/internal/middlewares"

	"github.com/go-openapi/runtime/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"time"
)

func InitRoutes(authHandler *handlers.AuthHandler, transferHandler *handlers.TransferHandler,
	userHandler *handlers.UserHandler, authMiddleware *middlewares.AuthMiddleware) *gin.Engine {
	router := gin.Default()

	_ = router.SetTrustedProxies(nil)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(metrics.Middleware())
	router.GET("/metrics", metrics.Handler())

	router.StaticFile("/swagger.yaml", "./swagger.yaml")

	opts := middleware.SwaggerUIOpts{SpecURL: "/swagger.yaml"}
	sh := middleware.SwaggerUI(opts, nil)

	router.GET("/swagger/*any", func(c *gin.Context) {
		sh.ServeHTTP(c.Writer, c.Request)
	})

	api := router.Group("/api")

	// public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// protected routes
	api.Use(authMiddleware.Handle())
	{
		api.POST("/transfers", transferHandler.CreateTransfer)
		api.POST("/transfers/:id/confirm", transferHandler.ConfirmTransfer)
		api.GET("/users/points", userHandler.GetPoints)
		api.GET("/transactions", userHandler.ListTransactions)
	}

	return router
}

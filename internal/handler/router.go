package handler

import (
	"net/http"

	_ "gamescope/app/docs" // registers the swagger spec
	"gamescope/app/internal/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the gin engine with every route of the API.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", RegisterAccount)
			authRoutes.POST("/sessions", CreateSession)
			authRoutes.DELETE("/sessions", auth.AuthMiddleware(), DeleteSession)
		}

		accountRoutes := apiV1.Group("/account")
		accountRoutes.Use(auth.AuthMiddleware())
		{
			accountRoutes.GET("", GetAccount)
			accountRoutes.PATCH("/name", UpdateAccountName)
		}

		collectionRoutes := apiV1.Group("/collections/:collection")
		collectionRoutes.Use(auth.AuthMiddleware())
		{
			collectionRoutes.GET("/documents", ListDocuments)
			collectionRoutes.POST("/documents", CreateDocument)
			collectionRoutes.GET("/documents/:id", GetDocument)
			collectionRoutes.PATCH("/documents/:id", UpdateDocument)
			collectionRoutes.DELETE("/documents/:id", DeleteDocument)
			collectionRoutes.GET("/events", StreamCollection)
		}

		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.POST("/catalog/reload", ReloadCatalog)
		}
	}

	return router
}

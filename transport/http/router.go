package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cadastra/cepd/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(handlers *Handlers, auth *service.AuthService) *gin.Engine {
	router := gin.Default()

	router.GET("/health", handlers.Health)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/logout", handlers.Logout)
	}

	cep := v1.Group("/cep")
	{
		cep.GET("/health", handlers.CEPHealth)
		cep.POST("", AuthMiddleware(auth), handlers.Lookup)
	}

	return router
}

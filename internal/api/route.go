package api

import (
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, allowOrigins []string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(allowOrigins))
	logger.SetupGin(r)

	graphGroup := r.Group("/graphql")
	graphGroup.Use(middleware.AuthOptionalMiddleware())
	{
		graphGroup.GET("", group.GraphQLHandler.Serve)
		graphGroup.POST("", group.GraphQLHandler.Serve)
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Success(c, "pong")
		})

		wsGroup := apiGroup.Group("/ws")
		wsGroup.Use(middleware.AuthMiddleware())
		{
			wsGroup.GET("", group.WsHandler.Connect)
		}
	}

	return r
}

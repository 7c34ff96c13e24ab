package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartcook/backend/internal/api"
	"github.com/smartcook/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	chatHandler *api.ChatHandler,
	recipeHandler *api.RecipeHandler,
	chatLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(requestid.New())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(cors.Default())

	router.GET("/health", api.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		chat := v1.Group("/chat")
		if chatLimiter != nil {
			chat.Use(chatLimiter.RateLimitMiddleware())
		}
		chat.POST("", chatHandler.Chat)

		v1.GET("/history", chatHandler.History)

		recipes := v1.Group("/recipes")
		{
			recipes.GET("", recipeHandler.ListRecipes)
			recipes.GET("/search", recipeHandler.SearchRecipes)
			recipes.GET("/quick", recipeHandler.QuickRecipes)
			recipes.GET("/:id", recipeHandler.GetRecipe)
		}
	}

	return router
}

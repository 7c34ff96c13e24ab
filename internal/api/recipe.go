package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartcook/backend/internal/service"
)

// RecipeHandler exposes read access to the recipe store.
type RecipeHandler struct {
	recipes    *service.RecipeService
	quickLimit int
	logger     *zap.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes *service.RecipeService, quickLimit int, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:    recipes,
		quickLimit: quickLimit,
		logger:     logger,
	}
}

// ListRecipes returns all recipes without associations.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns one recipe with ingredients and steps.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.LoadRecipe(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		h.logger.Error("failed to load recipe", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recipe"})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// SearchRecipes performs a title substring search.
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	results, err := h.recipes.SearchTitles(c.Request.Context(), term)
	if err != nil {
		h.logger.Error("failed to search recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// QuickRecipes returns the fastest recipes by total step minutes.
func (h *RecipeHandler) QuickRecipes(c *gin.Context) {
	limit := h.quickLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	results, err := h.recipes.QuickByTime(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to load quick recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load quick recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

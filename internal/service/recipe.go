package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/smartcook/backend/internal/models"
)

// ErrRecipeNotFound is returned when a recipe id does not resolve. The
// assistant treats this as a recoverable condition, not a store failure.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService is the read surface over the recipe store.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// SearchTitles performs a case-insensitive substring match against recipe
// titles, sorted by title ascending. An empty term returns no results
// without querying the store.
func (s *RecipeService) SearchTitles(ctx context.Context, term string) ([]models.RecipeSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	like := "%" + strings.ToLower(term) + "%"
	var results []models.RecipeSummary
	if err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("id, title, servings").
		Where("LOWER(title) LIKE ?", like).
		Order("title ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LoadRecipe retrieves a recipe with its ingredient lines (ordered by
// ingredient id) and steps (ordered by position).
func (s *RecipeService) LoadRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Difficulty").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.ingredient_id ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("steps.position ASC")
		}).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// ListCatalog returns every recipe with its ingredient names joined into a
// single string, for use as suggestion grounding.
func (s *RecipeService) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	// SQLite and Postgres spell string aggregation differently.
	agg := "GROUP_CONCAT(ingredients.name, ', ')"
	if s.db.Dialector.Name() == "postgres" {
		agg = "STRING_AGG(ingredients.name, ', ' ORDER BY ingredients.id)"
	}

	var entries []models.CatalogEntry
	if err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("recipes.id, recipes.title, recipes.servings, " + agg + " AS ingredient_names").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Group("recipes.id, recipes.title, recipes.servings").
		Order("recipes.id ASC").
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// QuickByTime returns up to limit recipes ranked by the sum of their step
// minutes, ascending. Recipes whose steps carry no time information are
// excluded; ties keep store order.
func (s *RecipeService) QuickByTime(ctx context.Context, limit int) ([]models.QuickRecipe, error) {
	var results []models.QuickRecipe
	if err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("recipes.id, recipes.title, recipes.servings, SUM(COALESCE(steps.minutes, 0)) AS total_minutes").
		Joins("JOIN steps ON steps.recipe_id = recipes.id").
		Group("recipes.id, recipes.title, recipes.servings").
		Having("SUM(COALESCE(steps.minutes, 0)) > 0").
		Order("total_minutes ASC, recipes.id ASC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListRecipes returns all recipes without their associations.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CreateRecipe stores a new recipe with its associations. Used by seeding
// and the recipe endpoints, never by the assistant pipeline.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

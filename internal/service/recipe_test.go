package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smartcook/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Difficulty{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Step{},
		&models.Message{},
	))
	return db
}

func seedRecipe(t *testing.T, db *gorm.DB, title string, servings int, ingredients []string, stepMinutes []*int) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{Title: title, Servings: servings}
	require.NoError(t, db.Create(recipe).Error)

	for _, name := range ingredients {
		ing := models.Ingredient{Name: name}
		require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&ing).Error)
		require.NoError(t, db.Create(&models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.ID,
		}).Error)
	}
	for i, minutes := range stepMinutes {
		require.NoError(t, db.Create(&models.Step{
			RecipeID:    recipe.ID,
			Position:    i + 1,
			Instruction: "Schritt",
			Minutes:     minutes,
		}).Error)
	}
	return recipe
}

func minutesPtr(m int) *int { return &m }

func TestSearchTitles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	seedRecipe(t, db, "Pasta Carbonara", 4, nil, nil)
	seedRecipe(t, db, "Pasta Arrabbiata", 2, nil, nil)
	seedRecipe(t, db, "Kartoffelgratin", 4, nil, nil)

	t.Run("case-insensitive substring match sorted by title", func(t *testing.T) {
		results, err := svc.SearchTitles(ctx, "PASTA")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Pasta Arrabbiata", results[0].Title)
		assert.Equal(t, "Pasta Carbonara", results[1].Title)
		assert.Equal(t, 2, results[0].Servings)
	})

	t.Run("no matches", func(t *testing.T) {
		results, err := svc.SearchTitles(ctx, "Pizza")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty term short-circuits", func(t *testing.T) {
		results, err := svc.SearchTitles(ctx, "   ")
		require.NoError(t, err)
		assert.Nil(t, results)
	})
}

func TestLoadRecipe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	seeded := seedRecipe(t, db, "Gemüsecurry", 3,
		[]string{"Reis", "Brokkoli"},
		[]*int{minutesPtr(10), nil, minutesPtr(15)})

	t.Run("loads associations in stored order", func(t *testing.T) {
		recipe, err := svc.LoadRecipe(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Gemüsecurry", recipe.Title)
		require.Len(t, recipe.Ingredients, 2)
		assert.Equal(t, "Reis", recipe.Ingredients[0].Ingredient.Name)
		assert.Equal(t, "Brokkoli", recipe.Ingredients[1].Ingredient.Name)
		require.Len(t, recipe.Steps, 3)
		assert.Equal(t, 1, recipe.Steps[0].Position)
		assert.Equal(t, 3, recipe.Steps[2].Position)
		assert.Nil(t, recipe.Steps[1].Minutes)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.LoadRecipe(ctx, 9999)
		assert.ErrorIs(t, err, ErrRecipeNotFound)
	})
}

func TestListCatalog(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	seedRecipe(t, db, "Aglio e Olio", 2, []string{"Spaghetti", "Knoblauch"}, nil)
	seedRecipe(t, db, "Tomatensalat", 2, []string{"Tomaten"}, nil)
	// A recipe without ingredient lines never reaches the catalog.
	seedRecipe(t, db, "Leeres Rezept", 1, nil, nil)

	entries, err := svc.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Aglio e Olio", entries[0].Title)
	assert.Contains(t, entries[0].IngredientNames, "Spaghetti")
	assert.Contains(t, entries[0].IngredientNames, "Knoblauch")
	assert.Equal(t, "Tomaten", entries[1].IngredientNames)
}

func TestQuickByTime(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	seedRecipe(t, db, "Linsen-Bolognese", 4, nil, []*int{minutesPtr(10), minutesPtr(20)})
	seedRecipe(t, db, "Tomatensalat", 2, nil, []*int{minutesPtr(10)})
	// Steps without minutes do not count; a recipe with zero total is excluded.
	seedRecipe(t, db, "Ohne Zeiten", 2, nil, []*int{nil, nil})
	seedRecipe(t, db, "Aglio e Olio", 2, nil, []*int{minutesPtr(5), nil, minutesPtr(11)})

	t.Run("ranks by summed minutes ascending", func(t *testing.T) {
		results, err := svc.QuickByTime(ctx, 5)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "Tomatensalat", results[0].Title)
		assert.Equal(t, 10, results[0].TotalMinutes)
		assert.Equal(t, "Aglio e Olio", results[1].Title)
		assert.Equal(t, 16, results[1].TotalMinutes)
		assert.Equal(t, "Linsen-Bolognese", results[2].Title)
		assert.Equal(t, 30, results[2].TotalMinutes)
	})

	t.Run("respects the limit", func(t *testing.T) {
		results, err := svc.QuickByTime(ctx, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Tomatensalat", results[0].Title)
	})
}

func TestCreateAndListRecipes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, &models.Recipe{Title: "Kartoffelgratin", Servings: 4})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	recipes, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Kartoffelgratin", recipes[0].Title)
}

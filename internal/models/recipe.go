package models

import "time"

// Difficulty is a lookup table for recipe difficulty levels.
type Difficulty struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Level int    `gorm:"not null" json:"level"`
}

// Recipe is the core recipe entity. It is read-only from the assistant's
// perspective; writes only happen through seeding and the recipe endpoints.
type Recipe struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Servings     int         `json:"servings"`
	Description  string      `gorm:"type:text" json:"description,omitempty"`
	PrepMinutes  *int        `json:"prep_minutes,omitempty"`
	CookMinutes  *int        `json:"cook_minutes,omitempty"`
	Vegan        *bool       `json:"vegan,omitempty"`
	DifficultyID *uint       `json:"-"`
	Difficulty   *Difficulty `gorm:"foreignKey:DifficultyID" json:"difficulty,omitempty"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	Steps       []Step             `gorm:"foreignKey:RecipeID" json:"steps,omitempty"`
}

// Ingredient is a shared ingredient name referenced by recipes.
type Ingredient struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

// RecipeIngredient is one ingredient line of a recipe. Quantity, unit and
// note are all optional; lines are ordered by ingredient ID, which is stable
// but not semantically meaningful.
type RecipeIngredient struct {
	RecipeID     uint       `gorm:"primaryKey" json:"-"`
	IngredientID uint       `gorm:"primaryKey" json:"-"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
	Quantity     *float64   `json:"quantity,omitempty"`
	Unit         *string    `gorm:"size:50" json:"unit,omitempty"`
	Note         *string    `gorm:"size:255" json:"note,omitempty"`
}

// Step is one preparation step. Position is 1-based and unique within a
// recipe; gaps are tolerated but the stored order is authoritative.
type Step struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	RecipeID    uint   `gorm:"not null;uniqueIndex:idx_recipe_position" json:"-"`
	Position    int    `gorm:"not null;uniqueIndex:idx_recipe_position" json:"position"`
	Instruction string `gorm:"type:text;not null" json:"instruction"`
	Minutes     *int   `json:"minutes,omitempty"`
}

// RecipeSummary is the projection returned by title search.
type RecipeSummary struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Servings int    `json:"servings"`
}

// CatalogEntry is one row of the full catalog used for suggestions, with the
// recipe's ingredient names joined into a single string.
type CatalogEntry struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Servings        int    `json:"servings"`
	IngredientNames string `json:"ingredient_names"`
}

// QuickRecipe is one row of the quick-recipes ranking. TotalMinutes is the
// sum of the recipe's step minutes; recipes without any timed step are
// excluded from the ranking.
type QuickRecipe struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Servings     int    `json:"servings"`
	TotalMinutes int    `json:"total_minutes"`
}

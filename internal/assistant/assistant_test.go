package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcook/backend/internal/models"
	"github.com/smartcook/backend/internal/service"
)

type stubStore struct {
	summaries []models.RecipeSummary
	recipes   map[uint]*models.Recipe
	catalog   []models.CatalogEntry
	quick     []models.QuickRecipe

	err error

	searchCalls  int
	lastTerm     string
	loadCalls    int
	catalogCalls int
	quickCalls   int
}

func (s *stubStore) SearchTitles(_ context.Context, term string) ([]models.RecipeSummary, error) {
	s.searchCalls++
	s.lastTerm = term
	if s.err != nil {
		return nil, s.err
	}
	return s.summaries, nil
}

func (s *stubStore) LoadRecipe(_ context.Context, id uint) (*models.Recipe, error) {
	s.loadCalls++
	if s.err != nil {
		return nil, s.err
	}
	recipe, ok := s.recipes[id]
	if !ok {
		return nil, service.ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *stubStore) ListCatalog(_ context.Context) ([]models.CatalogEntry, error) {
	s.catalogCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.catalog, nil
}

func (s *stubStore) QuickByTime(_ context.Context, _ int) ([]models.QuickRecipe, error) {
	s.quickCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quick, nil
}

type stubGenerator struct {
	term       string
	termErr    error
	answer     string
	answerErr  error
	suggestion string
	suggestErr error

	extractCalls  int
	groundedCalls int
	suggestCalls  int
	lastQuery     string
	lastContext   string
	lastBlock     string
}

func (g *stubGenerator) ExtractSearchTerm(_ context.Context, _ string) (string, error) {
	g.extractCalls++
	return g.term, g.termErr
}

func (g *stubGenerator) GroundedAnswer(_ context.Context, query, recipeContext string) (string, error) {
	g.groundedCalls++
	g.lastQuery = query
	g.lastContext = recipeContext
	return g.answer, g.answerErr
}

func (g *stubGenerator) SuggestAlternatives(_ context.Context, query, block string) (string, error) {
	g.suggestCalls++
	g.lastQuery = query
	g.lastBlock = block
	return g.suggestion, g.suggestErr
}

func newTestAssistant(store *stubStore, gen *stubGenerator) *Assistant {
	return New(store, gen, Config{
		QuickKeywords: defaultKeywords(),
		QuickLimit:    5,
	}, zap.NewNop())
}

func TestHandleQuery_EmptyInput(t *testing.T) {
	store := &stubStore{}
	gen := &stubGenerator{}
	a := newTestAssistant(store, gen)

	for _, input := range []string{"", "   ", "\n\t "} {
		answer, err := a.HandleQuery(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "Bitte gib eine Frage oder einen Rezeptnamen ein 🙂.", answer)
	}

	assert.Zero(t, store.searchCalls+store.loadCalls+store.catalogCalls+store.quickCalls)
	assert.Zero(t, gen.extractCalls+gen.groundedCalls+gen.suggestCalls)
}

func TestHandleQuery_QuickEffort(t *testing.T) {
	store := &stubStore{
		quick: []models.QuickRecipe{
			{ID: 3, Title: "Tomatensalat", Servings: 2, TotalMinutes: 10},
			{ID: 1, Title: "Aglio e Olio", Servings: 2, TotalMinutes: 16},
			{ID: 2, Title: "Linsen-Bolognese", Servings: 4, TotalMinutes: 30},
		},
	}
	gen := &stubGenerator{}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Ich will was mit wenig Aufwand")
	require.NoError(t, err)

	t.Run("ranked ascending by total minutes", func(t *testing.T) {
		lines := strings.Split(answer, "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "1. Tomatensalat (ID 3) – ca. 10 Minuten, für 2 Portionen", lines[1])
		assert.Equal(t, "2. Aglio e Olio (ID 1) – ca. 16 Minuten, für 2 Portionen", lines[2])
		assert.Equal(t, "3. Linsen-Bolognese (ID 2) – ca. 30 Minuten, für 4 Portionen", lines[3])
	})

	t.Run("no generation call on the quick path", func(t *testing.T) {
		assert.Zero(t, gen.extractCalls+gen.groundedCalls+gen.suggestCalls)
	})
}

func TestHandleQuery_QuickEffortEmpty(t *testing.T) {
	a := newTestAssistant(&stubStore{}, &stubGenerator{})

	answer, err := a.HandleQuery(context.Background(), "was geht schnell?")
	require.NoError(t, err)
	assert.Equal(t, "Für keines der gespeicherten Rezepte sind Zeitangaben zu den Schritten hinterlegt.", answer)
}

func TestHandleQuery_Disambiguation(t *testing.T) {
	store := &stubStore{
		summaries: []models.RecipeSummary{
			{ID: 1, Title: "Pasta Arrabbiata", Servings: 2},
			{ID: 2, Title: "Pasta Carbonara", Servings: 4},
		},
	}
	gen := &stubGenerator{term: "Pasta"}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Ich möchte Pasta kochen")
	require.NoError(t, err)

	assert.Contains(t, answer, "- Pasta Arrabbiata (ID 1)")
	assert.Contains(t, answer, "- Pasta Carbonara (ID 2)")
	assert.Contains(t, answer, "genauen Namen oder die ID")
	assert.Zero(t, gen.groundedCalls)
	assert.Zero(t, gen.suggestCalls)
}

func TestHandleQuery_GroundedAnswer(t *testing.T) {
	store := &stubStore{
		summaries: []models.RecipeSummary{{ID: 7, Title: "Linsen-Bolognese", Servings: 4}},
		recipes: map[uint]*models.Recipe{
			7: {
				ID:       7,
				Title:    "Linsen-Bolognese",
				Servings: 4,
				Ingredients: []models.RecipeIngredient{
					{Ingredient: models.Ingredient{Name: "Rote Linsen"}, Quantity: floatPtr(250), Unit: strPtr("g")},
				},
				Steps: []models.Step{
					{Position: 1, Instruction: "Linsen kochen", Minutes: intPtr(20)},
				},
			},
			8: {
				ID:    8,
				Title: "Kartoffelgratin",
				Ingredients: []models.RecipeIngredient{
					{Ingredient: models.Ingredient{Name: "Kartoffeln"}},
				},
			},
		},
	}
	gen := &stubGenerator{term: "Linsen-Bolognese", answer: "Hier ist die Anleitung."}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Hast du ein Rezept für Linsen-Bolognese?")
	require.NoError(t, err)

	t.Run("answer carries title, servings and the generated text", func(t *testing.T) {
		assert.Contains(t, answer, "**Linsen-Bolognese** (für 4 Portionen)")
		assert.Contains(t, answer, "Hier ist die Anleitung.")
	})

	t.Run("generator receives original query, not the extracted term", func(t *testing.T) {
		assert.Equal(t, "Hast du ein Rezept für Linsen-Bolognese?", gen.lastQuery)
	})

	t.Run("context holds only the matched recipe's data", func(t *testing.T) {
		assert.Contains(t, gen.lastContext, "Rote Linsen")
		assert.Contains(t, gen.lastContext, "1. Linsen kochen (ca. 20 Minuten)")
		assert.NotContains(t, gen.lastContext, "Kartoffeln")
	})
}

func TestHandleQuery_GroundedRecipeVanished(t *testing.T) {
	store := &stubStore{
		summaries: []models.RecipeSummary{{ID: 9, Title: "Flüchtiges Gericht", Servings: 2}},
		recipes:   map[uint]*models.Recipe{},
	}
	gen := &stubGenerator{term: "Flüchtiges Gericht"}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Flüchtiges Gericht bitte")
	require.NoError(t, err)
	assert.Contains(t, answer, "**Flüchtiges Gericht**")
	assert.Contains(t, answer, "nicht laden")
	assert.Zero(t, gen.groundedCalls)
}

func TestHandleQuery_GroundedNoIngredients(t *testing.T) {
	store := &stubStore{
		summaries: []models.RecipeSummary{{ID: 4, Title: "Leeres Rezept", Servings: 1}},
		recipes: map[uint]*models.Recipe{
			4: {ID: 4, Title: "Leeres Rezept", Servings: 1},
		},
	}
	gen := &stubGenerator{term: "Leeres Rezept"}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Leeres Rezept")
	require.NoError(t, err)
	assert.Contains(t, answer, "keine Zutaten dazu hinterlegt")
	assert.Zero(t, gen.groundedCalls)
}

func TestHandleQuery_GroundedGenerationFailure(t *testing.T) {
	store := &stubStore{
		summaries: []models.RecipeSummary{{ID: 7, Title: "Linsen-Bolognese", Servings: 4}},
		recipes: map[uint]*models.Recipe{
			7: {
				ID: 7, Title: "Linsen-Bolognese", Servings: 4,
				Ingredients: []models.RecipeIngredient{{Ingredient: models.Ingredient{Name: "Rote Linsen"}}},
			},
		},
	}
	gen := &stubGenerator{
		term:      "Linsen-Bolognese",
		answerErr: &service.GenerationError{Category: service.CategoryTimeout, Message: "request failed"},
	}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Linsen-Bolognese")
	require.NoError(t, err)
	assert.Contains(t, answer, "Beim Erzeugen der Antwort ist ein Fehler aufgetreten")
	assert.Contains(t, answer, service.CategoryTimeout)
}

func TestHandleQuery_Suggest(t *testing.T) {
	store := &stubStore{
		catalog: []models.CatalogEntry{
			{ID: 1, Title: "Aglio e Olio", Servings: 2, IngredientNames: "Spaghetti, Knoblauch"},
			{ID: 2, Title: "Gemüsecurry", Servings: 3, IngredientNames: "Reis, Brokkoli"},
		},
	}
	gen := &stubGenerator{term: "Pizza", suggestion: "Pizza gibt es leider nicht, aber..."}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Hast du Pizza?")
	require.NoError(t, err)

	t.Run("stub output is returned unmodified", func(t *testing.T) {
		assert.Equal(t, "Pizza gibt es leider nicht, aber...", answer)
	})

	t.Run("prompt block enumerates only catalog entries", func(t *testing.T) {
		assert.Contains(t, gen.lastBlock, "- ID 1: Aglio e Olio (für 2 Portionen) – Zutaten: Spaghetti, Knoblauch")
		assert.Contains(t, gen.lastBlock, "- ID 2: Gemüsecurry (für 3 Portionen) – Zutaten: Reis, Brokkoli")
		assert.Len(t, strings.Split(strings.TrimSpace(gen.lastBlock), "\n"), 2)
	})
}

func TestHandleQuery_SuggestEmptyCatalog(t *testing.T) {
	a := newTestAssistant(&stubStore{}, &stubGenerator{term: "Pizza"})

	answer, err := a.HandleQuery(context.Background(), "Hast du Pizza?")
	require.NoError(t, err)
	assert.Equal(t, "In der Datenbank sind aktuell keine Rezepte gespeichert.", answer)
}

func TestHandleQuery_SuggestGenerationFailure(t *testing.T) {
	store := &stubStore{
		catalog: []models.CatalogEntry{{ID: 1, Title: "Aglio e Olio", Servings: 2, IngredientNames: "Spaghetti"}},
	}
	gen := &stubGenerator{
		term:       "Pizza",
		suggestErr: &service.GenerationError{Category: service.CategoryStatus, Message: "unexpected status 500"},
	}
	a := newTestAssistant(store, gen)

	answer, err := a.HandleQuery(context.Background(), "Hast du Pizza?")
	require.NoError(t, err)
	assert.Contains(t, answer, "Beim Erzeugen der Vorschläge ist ein Fehler aufgetreten")
	assert.Contains(t, answer, service.CategoryStatus)
}

func TestExtractTerm_IdentityFallback(t *testing.T) {
	t.Run("generation error", func(t *testing.T) {
		gen := &stubGenerator{termErr: errors.New("boom")}
		a := newTestAssistant(&stubStore{}, gen)
		assert.Equal(t, "Ich möchte Pasta kochen", a.ExtractTerm(context.Background(), "Ich möchte Pasta kochen"))
	})

	t.Run("empty extraction result", func(t *testing.T) {
		gen := &stubGenerator{term: "  \n"}
		a := newTestAssistant(&stubStore{}, gen)
		assert.Equal(t, "Ich möchte Pasta kochen", a.ExtractTerm(context.Background(), "Ich möchte Pasta kochen"))
	})

	t.Run("successful extraction is trimmed", func(t *testing.T) {
		gen := &stubGenerator{term: " Pasta \n"}
		a := newTestAssistant(&stubStore{}, gen)
		assert.Equal(t, "Pasta", a.ExtractTerm(context.Background(), "Ich möchte Pasta kochen"))
	})
}

func TestHandleQuery_ExtractionFailureStillSearches(t *testing.T) {
	store := &stubStore{}
	gen := &stubGenerator{termErr: errors.New("llm down"), suggestion: "Vorschläge"}
	a := newTestAssistant(store, gen)

	_, err := a.HandleQuery(context.Background(), "Ich möchte Pasta kochen")
	require.NoError(t, err)
	assert.Equal(t, "Ich möchte Pasta kochen", store.lastTerm)
}

func TestHandleQuery_Idempotent(t *testing.T) {
	store := &stubStore{
		summaries: []models.RecipeSummary{{ID: 7, Title: "Linsen-Bolognese", Servings: 4}},
		recipes: map[uint]*models.Recipe{
			7: {
				ID: 7, Title: "Linsen-Bolognese", Servings: 4,
				Ingredients: []models.RecipeIngredient{{Ingredient: models.Ingredient{Name: "Rote Linsen"}}},
				Steps:       []models.Step{{Position: 1, Instruction: "Kochen", Minutes: intPtr(20)}},
			},
		},
	}
	gen := &stubGenerator{term: "Linsen-Bolognese", answer: "Anleitung."}
	a := newTestAssistant(store, gen)

	first, err := a.HandleQuery(context.Background(), "Linsen-Bolognese bitte")
	require.NoError(t, err)
	second, err := a.HandleQuery(context.Background(), "Linsen-Bolognese bitte")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHandleQuery_StoreFailure(t *testing.T) {
	store := &stubStore{err: errors.New("connection refused")}
	gen := &stubGenerator{term: "Pasta"}
	a := newTestAssistant(store, gen)

	_, err := a.HandleQuery(context.Background(), "Ich möchte Pasta kochen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

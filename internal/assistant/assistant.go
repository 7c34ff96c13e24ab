package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smartcook/backend/internal/models"
	"github.com/smartcook/backend/internal/service"
)

// RecipeStore is the read contract the pipeline requires from the recipe
// database.
type RecipeStore interface {
	SearchTitles(ctx context.Context, term string) ([]models.RecipeSummary, error)
	LoadRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListCatalog(ctx context.Context) ([]models.CatalogEntry, error)
	QuickByTime(ctx context.Context, limit int) ([]models.QuickRecipe, error)
}

// Generator is the generation service contract. Implementations must return
// *service.GenerationError for failed calls so the dispatcher can report the
// failure category.
type Generator interface {
	ExtractSearchTerm(ctx context.Context, userText string) (string, error)
	GroundedAnswer(ctx context.Context, query, recipeContext string) (string, error)
	SuggestAlternatives(ctx context.Context, query, recipesBlock string) (string, error)
}

// Config carries the pipeline's tunables.
type Config struct {
	QuickKeywords []string
	QuickLimit    int
}

const emptyInputPrompt = "Bitte gib eine Frage oder einen Rezeptnamen ein 🙂."

type handlerFunc func(ctx context.Context, intent Intent) (string, error)

// Assistant is the query-understanding-and-dispatch pipeline. It holds no
// per-request state; concurrent calls are independent.
type Assistant struct {
	store      RecipeStore
	gen        Generator
	classifier *Classifier
	quickLimit int
	logger     *zap.Logger
	handlers   map[IntentKind]handlerFunc
}

// New creates the assistant pipeline.
func New(store RecipeStore, gen Generator, cfg Config, logger *zap.Logger) *Assistant {
	a := &Assistant{
		store:      store,
		gen:        gen,
		classifier: NewClassifier(cfg.QuickKeywords),
		quickLimit: cfg.QuickLimit,
		logger:     logger,
	}
	a.handlers = map[IntentKind]handlerFunc{
		IntentQuickEffort: a.answerQuick,
		IntentLookup:      a.answerGrounded,
		IntentAmbiguous:   a.answerDisambiguation,
		IntentSuggest:     a.answerSuggestions,
	}
	return a
}

// HandleQuery runs one query through the pipeline and returns the answer
// text. The returned error is non-nil only for store failures; every other
// condition, including generation failures, is rendered into the answer.
func (a *Assistant) HandleQuery(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptyInputPrompt, nil
	}

	intent, err := a.classify(ctx, query)
	if err != nil {
		return "", err
	}
	return a.handlers[intent.Kind](ctx, intent)
}

// classify determines the dispatch variant. Quick-effort keywords win before
// anything else; otherwise the extracted term is resolved against the store
// and the match count decides.
func (a *Assistant) classify(ctx context.Context, query string) (Intent, error) {
	if a.classifier.IsQuickEffort(query) {
		return Intent{Kind: IntentQuickEffort, Query: query}, nil
	}

	term := a.ExtractTerm(ctx, query)
	matches, err := a.store.SearchTitles(ctx, term)
	if err != nil {
		return Intent{}, fmt.Errorf("searching recipe titles: %w", err)
	}

	switch len(matches) {
	case 0:
		return Intent{Kind: IntentSuggest, Query: query, Term: term}, nil
	case 1:
		return Intent{Kind: IntentLookup, Query: query, Term: term, Match: matches[0]}, nil
	default:
		return Intent{Kind: IntentAmbiguous, Query: query, Term: term, Candidates: matches}, nil
	}
}

// ExtractTerm reduces a user utterance to a short title search phrase. It
// never fails: any generation error or empty result falls back to the
// original text.
func (a *Assistant) ExtractTerm(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	term, err := a.gen.ExtractSearchTerm(ctx, text)
	if err != nil {
		a.logger.Debug("term extraction degraded to identity", zap.Error(err))
		return text
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return text
	}
	return term
}

// answerQuick renders the quick-recipe ranking. This path is pure data
// formatting; the generation service is never called.
func (a *Assistant) answerQuick(ctx context.Context, _ Intent) (string, error) {
	recipes, err := a.store.QuickByTime(ctx, a.quickLimit)
	if err != nil {
		return "", fmt.Errorf("loading quick recipes: %w", err)
	}
	if len(recipes) == 0 {
		return "Für keines der gespeicherten Rezepte sind Zeitangaben zu den Schritten hinterlegt.", nil
	}

	var b strings.Builder
	b.WriteString("Diese Rezepte machen wenig Aufwand:\n")
	for i, r := range recipes {
		fmt.Fprintf(&b, "%d. %s (ID %d) – ca. %d Minuten, für %d Portionen\n",
			i+1, r.Title, r.ID, r.TotalMinutes, r.Servings)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// answerDisambiguation lists the candidates and asks the user to pick one.
// No generation call is made.
func (a *Assistant) answerDisambiguation(_ context.Context, intent Intent) (string, error) {
	var titles strings.Builder
	for _, c := range intent.Candidates {
		fmt.Fprintf(&titles, "- %s (ID %d)\n", c.Title, c.ID)
	}
	return fmt.Sprintf(
		"Ich habe mehrere passende Rezepte in der Datenbank gefunden:\n%s\n"+
			"Sag mir bitte den genauen Namen oder die ID des Rezepts, "+
			"damit ich dir eine ausführliche Schritt-für-Schritt-Anleitung geben kann. 🍽️",
		titles.String()), nil
}

// answerGrounded loads the resolved recipe, assembles the grounding context
// and invokes the generation service with the original user query.
func (a *Assistant) answerGrounded(ctx context.Context, intent Intent) (string, error) {
	recipe, err := a.store.LoadRecipe(ctx, intent.Match.ID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			// The recipe vanished between resolve and load.
			return fmt.Sprintf("Entschuldige, ich konnte die Details zum Rezept **%s** gerade nicht laden.",
				intent.Match.Title), nil
		}
		return "", fmt.Errorf("loading recipe %d: %w", intent.Match.ID, err)
	}

	if len(recipe.Ingredients) == 0 {
		return fmt.Sprintf("Ich habe das Rezept **%s** gefunden, "+
			"aber in der Datenbank sind keine Zutaten dazu hinterlegt.", recipe.Title), nil
	}

	answer, err := a.gen.GroundedAnswer(ctx, intent.Query, RenderContext(recipe))
	if err != nil {
		return generationFailure("Beim Erzeugen der Antwort", err), nil
	}

	return fmt.Sprintf("🍝 **%s** (für %d Portionen)\n\n%s", recipe.Title, recipe.Servings, answer), nil
}

// answerSuggestions offers catalog-grounded alternatives when nothing
// matched the search term.
func (a *Assistant) answerSuggestions(ctx context.Context, intent Intent) (string, error) {
	catalog, err := a.store.ListCatalog(ctx)
	if err != nil {
		return "", fmt.Errorf("loading recipe catalog: %w", err)
	}
	if len(catalog) == 0 {
		return "In der Datenbank sind aktuell keine Rezepte gespeichert.", nil
	}

	var block strings.Builder
	for _, entry := range catalog {
		fmt.Fprintf(&block, "- ID %d: %s (für %d Portionen) – Zutaten: %s\n",
			entry.ID, entry.Title, entry.Servings, entry.IngredientNames)
	}

	answer, err := a.gen.SuggestAlternatives(ctx, intent.Query, block.String())
	if err != nil {
		return generationFailure("Beim Erzeugen der Vorschläge", err), nil
	}
	return answer, nil
}

// generationFailure renders a failed generation call into user-visible text
// carrying the failure category. Never retried.
func generationFailure(prefix string, err error) string {
	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		return fmt.Sprintf("%s ist ein Fehler aufgetreten: %s: %s", prefix, genErr.Category, genErr.Message)
	}
	return fmt.Sprintf("%s ist ein Fehler aufgetreten: %v", prefix, err)
}

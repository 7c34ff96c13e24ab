package assistant

import (
	"strings"

	"github.com/smartcook/backend/internal/models"
)

// IntentKind enumerates the dispatch variants of the pipeline.
type IntentKind int

const (
	// IntentQuickEffort asks for low-effort recipes ranked by total time.
	IntentQuickEffort IntentKind = iota
	// IntentLookup resolved to exactly one recipe.
	IntentLookup
	// IntentAmbiguous resolved to two or more recipes.
	IntentAmbiguous
	// IntentSuggest resolved to nothing; alternatives are offered instead.
	IntentSuggest
)

// Intent is the transient classification result of one query. Query always
// carries the original trimmed user text; Term, Match and Candidates are
// populated depending on Kind.
type Intent struct {
	Kind       IntentKind
	Query      string
	Term       string
	Match      models.RecipeSummary
	Candidates []models.RecipeSummary
}

// Classifier detects quick-effort queries with a fixed keyword table. It is
// a pure function of the input text and the configured phrases.
type Classifier struct {
	keywords []string
}

// NewClassifier creates a classifier over the given lower-cased phrases.
func NewClassifier(keywords []string) *Classifier {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &Classifier{keywords: lowered}
}

// IsQuickEffort reports whether the text contains any low-effort phrase.
// This check runs before term extraction and short-circuits all other
// classification.
func (c *Classifier) IsQuickEffort(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range c.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

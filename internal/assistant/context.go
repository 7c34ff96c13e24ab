package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smartcook/backend/internal/models"
)

// noStepsSentinel is rendered when a recipe has no stored steps. The model
// receives this line instead of an absent block so it cannot quietly invent
// a preparation of its own.
const noStepsSentinel = "Es sind keine Zubereitungsschritte gespeichert."

// RenderContext turns a fully loaded recipe into the grounding context given
// to the generation service. The block order is fixed (title, servings,
// ingredients, steps) and only store data appears in it.
func RenderContext(recipe *models.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Rezept: %s\n", recipe.Title)
	fmt.Fprintf(&b, "Portionen: %d\n", recipe.Servings)

	b.WriteString("\nZutaten:\n")
	b.WriteString(renderIngredients(recipe.Ingredients))

	b.WriteString("\nSchritte:\n")
	b.WriteString(renderSteps(recipe.Steps))

	return b.String()
}

func renderIngredients(lines []models.RecipeIngredient) string {
	if len(lines) == 0 {
		return "Es sind keine Zutaten gespeichert.\n"
	}

	var b strings.Builder
	for _, line := range lines {
		parts := ""
		if line.Quantity != nil {
			parts = strconv.FormatFloat(*line.Quantity, 'f', -1, 64)
		}
		if line.Unit != nil && *line.Unit != "" {
			parts += " " + *line.Unit
		}
		entry := strings.TrimSpace(parts + " " + line.Ingredient.Name)
		if line.Note != nil && *line.Note != "" {
			entry += " (" + *line.Note + ")"
		}
		fmt.Fprintf(&b, "- %s\n", entry)
	}
	return b.String()
}

func renderSteps(steps []models.Step) string {
	if len(steps) == 0 {
		return noStepsSentinel + "\n"
	}

	var b strings.Builder
	for _, step := range steps {
		if step.Minutes != nil {
			fmt.Fprintf(&b, "%d. %s (ca. %d Minuten)\n", step.Position, step.Instruction, *step.Minutes)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", step.Position, step.Instruction)
		}
	}
	return b.String()
}

package main

import (
	"log"

	"github.com/smartcook/backend/config"
	"github.com/smartcook/backend/internal/database"
	"github.com/smartcook/backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

type seedIngredient struct {
	name     string
	quantity *float64
	unit     *string
	note     *string
}

type seedStep struct {
	instruction string
	minutes     *int
}

type seedRecipe struct {
	title       string
	servings    int
	description string
	vegan       *bool
	difficulty  string
	ingredients []seedIngredient
	steps       []seedStep
}

var difficulties = []models.Difficulty{
	{Name: "einfach", Level: 1},
	{Name: "mittel", Level: 2},
	{Name: "anspruchsvoll", Level: 3},
}

var recipes = []seedRecipe{
	{
		title:       "Spaghetti Aglio e Olio",
		servings:    2,
		description: "Der Klassiker aus wenigen Zutaten.",
		vegan:       ptr(true),
		difficulty:  "einfach",
		ingredients: []seedIngredient{
			{name: "Spaghetti", quantity: ptr(250.0), unit: ptr("g")},
			{name: "Knoblauch", quantity: ptr(4.0), unit: ptr("Zehen"), note: ptr("in dünnen Scheiben")},
			{name: "Olivenöl", quantity: ptr(6.0), unit: ptr("EL")},
			{name: "Chiliflocken", quantity: ptr(1.0), unit: ptr("TL")},
			{name: "Petersilie", note: ptr("glatt, gehackt")},
		},
		steps: []seedStep{
			{instruction: "Spaghetti in reichlich Salzwasser al dente kochen", minutes: ptr(9)},
			{instruction: "Knoblauch im Olivenöl bei niedriger Hitze goldgelb anschwitzen", minutes: ptr(4)},
			{instruction: "Chiliflocken zugeben, Spaghetti und etwas Nudelwasser untermischen", minutes: ptr(2)},
			{instruction: "Mit Petersilie bestreuen und sofort servieren", minutes: ptr(1)},
		},
	},
	{
		title:       "Linsen-Bolognese",
		servings:    4,
		description: "Herzhafte vegane Bolognese auf Linsenbasis.",
		vegan:       ptr(true),
		difficulty:  "mittel",
		ingredients: []seedIngredient{
			{name: "Rote Linsen", quantity: ptr(250.0), unit: ptr("g")},
			{name: "Zwiebel", quantity: ptr(1.0), note: ptr("fein gewürfelt")},
			{name: "Karotte", quantity: ptr(2.0), note: ptr("fein gewürfelt")},
			{name: "Passierte Tomaten", quantity: ptr(500.0), unit: ptr("ml")},
			{name: "Tomatenmark", quantity: ptr(2.0), unit: ptr("EL")},
			{name: "Olivenöl", quantity: ptr(2.0), unit: ptr("EL")},
		},
		steps: []seedStep{
			{instruction: "Zwiebel und Karotte im Olivenöl anschwitzen", minutes: ptr(5)},
			{instruction: "Tomatenmark kurz mitrösten", minutes: ptr(2)},
			{instruction: "Linsen und passierte Tomaten zugeben, köcheln lassen", minutes: ptr(20)},
			{instruction: "Abschmecken und zu Pasta servieren", minutes: ptr(3)},
		},
	},
	{
		title:       "Gemüsecurry mit Reis",
		servings:    3,
		description: "Mildes Curry mit Saisongemüse und Basmatireis.",
		vegan:       ptr(true),
		difficulty:  "mittel",
		ingredients: []seedIngredient{
			{name: "Basmatireis", quantity: ptr(200.0), unit: ptr("g")},
			{name: "Kokosmilch", quantity: ptr(400.0), unit: ptr("ml")},
			{name: "Currypaste", quantity: ptr(2.0), unit: ptr("EL"), note: ptr("rot oder gelb")},
			{name: "Brokkoli", quantity: ptr(300.0), unit: ptr("g")},
			{name: "Paprika", quantity: ptr(1.0)},
		},
		steps: []seedStep{
			{instruction: "Reis nach Packungsanweisung kochen", minutes: ptr(12)},
			{instruction: "Gemüse anbraten und Currypaste zugeben", minutes: ptr(6)},
			{instruction: "Mit Kokosmilch ablöschen und garen", minutes: ptr(10)},
		},
	},
	{
		title:       "Kartoffelgratin",
		servings:    4,
		description: "Cremiges Gratin aus dem Ofen.",
		vegan:       ptr(false),
		difficulty:  "anspruchsvoll",
		ingredients: []seedIngredient{
			{name: "Kartoffeln", quantity: ptr(1.2), unit: ptr("kg"), note: ptr("festkochend")},
			{name: "Sahne", quantity: ptr(250.0), unit: ptr("ml")},
			{name: "Milch", quantity: ptr(150.0), unit: ptr("ml")},
			{name: "Bergkäse", quantity: ptr(120.0), unit: ptr("g"), note: ptr("gerieben")},
			{name: "Knoblauch", quantity: ptr(1.0), unit: ptr("Zehe")},
			{name: "Muskat", note: ptr("frisch gerieben")},
		},
		steps: []seedStep{
			{instruction: "Kartoffeln schälen und in dünne Scheiben hobeln", minutes: ptr(10)},
			{instruction: "Sahne und Milch mit Knoblauch und Muskat erhitzen", minutes: ptr(5)},
			{instruction: "Alles schichten, mit Käse bestreuen und backen", minutes: ptr(45)},
		},
	},
	{
		title:       "Tomatensalat mit Zwiebeln",
		servings:    2,
		description: "Schneller Salat ohne Kochen.",
		vegan:       ptr(true),
		difficulty:  "einfach",
		ingredients: []seedIngredient{
			{name: "Tomaten", quantity: ptr(4.0), note: ptr("reif")},
			{name: "Rote Zwiebel", quantity: ptr(1.0)},
			{name: "Olivenöl", quantity: ptr(3.0), unit: ptr("EL")},
			{name: "Rotweinessig", quantity: ptr(1.0), unit: ptr("EL")},
		},
		steps: []seedStep{
			{instruction: "Tomaten und Zwiebel schneiden", minutes: ptr(5)},
			{instruction: "Mit Öl und Essig anmachen und ziehen lassen", minutes: ptr(5)},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	difficultyIDs := make(map[string]uint)
	for _, d := range difficulties {
		existing := models.Difficulty{}
		if err := db.Where("name = ?", d.Name).FirstOrCreate(&existing, d).Error; err != nil {
			log.Fatalf("failed to seed difficulty %s: %v", d.Name, err)
		}
		difficultyIDs[d.Name] = existing.ID
	}

	for _, r := range recipes {
		var count int64
		db.Model(&models.Recipe{}).Where("title = ?", r.title).Count(&count)
		if count > 0 {
			log.Printf("skipping %q, already seeded", r.title)
			continue
		}

		recipe := models.Recipe{
			Title:       r.title,
			Servings:    r.servings,
			Description: r.description,
			Vegan:       r.vegan,
		}
		if id, ok := difficultyIDs[r.difficulty]; ok {
			recipe.DifficultyID = &id
		}
		if err := db.Create(&recipe).Error; err != nil {
			log.Fatalf("failed to create recipe %q: %v", r.title, err)
		}

		for _, ing := range r.ingredients {
			ingredient := models.Ingredient{Name: ing.name}
			if err := db.Where("name = ?", ing.name).FirstOrCreate(&ingredient).Error; err != nil {
				log.Fatalf("failed to seed ingredient %q: %v", ing.name, err)
			}
			line := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ingredient.ID,
				Quantity:     ing.quantity,
				Unit:         ing.unit,
				Note:         ing.note,
			}
			if err := db.Create(&line).Error; err != nil {
				log.Fatalf("failed to seed ingredient line for %q: %v", r.title, err)
			}
		}

		for i, st := range r.steps {
			step := models.Step{
				RecipeID:    recipe.ID,
				Position:    i + 1,
				Instruction: st.instruction,
				Minutes:     st.minutes,
			}
			if err := db.Create(&step).Error; err != nil {
				log.Fatalf("failed to seed step for %q: %v", r.title, err)
			}
		}

		log.Printf("seeded %q with %d ingredients and %d steps", r.title, len(r.ingredients), len(r.steps))
	}
}

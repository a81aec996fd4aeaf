// Package mock provides a deterministic Completer for local development and
// tests, so the rest of the pipeline can run without a live model endpoint.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"fitplan"
)

type Completer struct{}

func NewCompleter() *Completer {
	return &Completer{}
}

// Complete is a mock implementation that inspects the prompt to decide what
// kind of content to synthesize. It is, of course, deterministic and only
// serves as a stand-in to see how the planner handles each generation phase.
// Real models may not be so kind :)
func (m *Completer) Complete(ctx context.Context, prompt string, opts fitplan.CompletionOptions) (string, error) {
	slog.Info("LLM_CLIENT: Invoked", "prompt_len", len(prompt), "json_mode", opts.JSONMode)

	lower := strings.ToLower(prompt)

	if !opts.JSONMode && strings.Contains(lower, "workout") {
		slog.Info("LLM_CLIENT: Returning canned workout text")
		return cannedWorkout(), nil
	}

	slog.Info("LLM_CLIENT: Returning canned nutrition plan")
	return cannedNutrition()
}

func cannedWorkout() string {
	var b strings.Builder
	for w := 1; w <= 2; w++ {
		fmt.Fprintf(&b, "Week %d\n", w)
		for d := 1; d <= 3; d++ {
			fmt.Fprintf(&b, "Day %d - Full Body\n", d)
			b.WriteString("Squat: 3x8\n")
			b.WriteString("Bench Press: 3x8\n")
			b.WriteString("Row: 3x10\n")
		}
	}
	return b.String()
}

func cannedNutrition() (string, error) {
	meals := []map[string]any{
		{
			"name":   "Oats with Berries",
			"recipe": "Simmer oats in milk, top with berries.",
			"macros": map[string]any{"kcal": 450, "protein_g": 25, "carbs_g": 60, "fat_g": 12},
			"ingredients": []map[string]any{
				{"item": "rolled oats", "grams": 80},
				{"item": "blueberries", "grams": 100},
			},
		},
		{
			"name":   "Chicken and Rice Bowl",
			"recipe": "Grill chicken, serve over rice with broccoli.",
			"macros": map[string]any{"kcal": 650, "protein_g": 50, "carbs_g": 70, "fat_g": 15},
			"ingredients": []map[string]any{
				{"item": "chicken breast", "grams": 200},
				{"item": "rice", "grams": 90},
				{"item": "broccoli", "grams": 150},
			},
		},
		{
			"name":   "Greek Yogurt Parfait",
			"recipe": "Layer yogurt with granola.",
			"macros": map[string]any{"kcal": 350, "protein_g": 30, "carbs_g": 35, "fat_g": 8},
			"ingredients": []map[string]any{
				{"item": "greek yogurt", "grams": 250},
			},
		},
		{
			"name":   "Salmon with Sweet Potato",
			"recipe": "Bake salmon and sweet potato wedges.",
			"macros": map[string]any{"kcal": 700, "protein_g": 45, "carbs_g": 55, "fat_g": 28},
			"ingredients": []map[string]any{
				{"item": "salmon", "grams": 180},
				{"item": "sweet potato", "grams": 250},
			},
		},
	}

	dayPlans := make([]map[string]any, 0, 7)
	for d := 1; d <= 7; d++ {
		dayPlans = append(dayPlans, map[string]any{
			"day":        d,
			"total_kcal": 2150,
			"meals":      meals,
		})
	}

	plan := map[string]any{
		"summary": map[string]any{
			"kcal": 2150, "protein_g": 150, "carbs_g": 220, "fat_g": 63, "meals_per_day": 4,
		},
		"guidelines": []string{
			"Drink at least 3 liters of water daily.",
			"Eat protein with every meal.",
		},
		"day_plans": dayPlans,
		"grocery_list": map[string]any{
			"items": []map[string]any{
				{"item": "chicken breast", "grams": 1400},
				{"item": "rice", "grams": 630},
				{"item": "rolled oats", "grams": 560},
				{"item": "salmon", "grams": 1260},
				{"item": "broccoli", "grams": 1050},
				{"item": "sweet potato", "grams": 1750},
				{"item": "greek yogurt", "grams": 1750},
				{"item": "blueberries", "grams": 700},
			},
		},
	}

	b, err := json.Marshal(plan)
	if err != nil {
		slog.Error("Failed to marshal canned plan", "error", err)
		return "", err
	}
	return string(b), nil
}

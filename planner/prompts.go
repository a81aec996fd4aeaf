package planner

import (
	"fmt"
	"strings"

	"fitplan"
)

const workoutPromptHeader = `You are a strength and conditioning coach writing an 8-week workout program.

OUTPUT FORMAT:
Plain text only. Structure the program as:

Week 1
Day 1 - Upper Body
Bench Press: 4x8
Row: 4x10
Day 2 - Lower Body
...

CRITICAL RULES:
- Start every week with a line "Week N".
- Start every training day with a line "Day N - <focus>".
- One exercise per line as "<exercise name>: <sets>x<reps> [@load]". Every exercise line must contain a colon.
- No markdown tables, no numbered section headings, no commentary between weeks.
- Progress load or volume week over week according to the goal.
`

const nutritionPromptHeader = `You are a sports nutritionist writing a 7-day meal plan.

FINAL OUTPUT FORMAT:
Return ONLY the JSON object - no explanations, no text before or after, no markdown formatting. Start immediately with { and end with }.

JSON Schema:
{
  "summary": { "kcal": integer, "protein_g": integer, "carbs_g": integer, "fat_g": integer, "meals_per_day": integer },
  "guidelines": [ string ],
  "day_plans": [                         // MUST contain exactly 7 elements
    {
      "day": integer,                    // starting at 1
      "total_kcal": integer,
      "meals": [                         // exactly meals_per_day elements
        {
          "name": string,
          "recipe": string,              // 1-3 sentence preparation
          "macros": { "kcal": integer, "protein_g": integer, "carbs_g": integer, "fat_g": integer },
          "ingredients": [ { "item": string, "grams": number } ]
        }
      ]
    }
  ],
  "grocery_list": { "items": [ { "item": string, "grams": number } ] }
}

CRITICAL RULES:
- day_plans must contain exactly 7 days and every day exactly meals_per_day meals.
- Daily meal macros must sum close to the stated daily targets.
- Ingredient quantities use grams; use "count" only for discrete items like eggs.
- The JSON must be valid UTF-8, with no commentary, no markdown, and no trailing commas.
`

func buildWorkoutPrompt(p fitplan.Profile) string {
	var b strings.Builder
	b.WriteString(workoutPromptHeader)
	b.WriteString("\nCLIENT:\n")
	fmt.Fprintf(&b, "- %s, age %d, %.0f cm, %.0f kg\n", p.Sex, p.Age, p.HeightCM, p.WeightKG)
	fmt.Fprintf(&b, "- Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "- Activity level: %s, training load: %s\n", p.Activity, p.TrainingLoad)
	return b.String()
}

func buildNutritionPrompt(p fitplan.Profile, t fitplan.MacroTargets) string {
	var b strings.Builder
	b.WriteString(nutritionPromptHeader)
	b.WriteString("\nDAILY TARGETS:\n")
	fmt.Fprintf(&b, "- %d kcal, %dg protein, %dg carbs, %dg fat\n", t.Kcal, t.ProteinG, t.CarbsG, t.FatG)
	fmt.Fprintf(&b, "- At least %dg fiber, at most %dmg sodium\n", t.FiberG, t.SodiumMGCap)
	b.WriteString("\nCLIENT:\n")
	fmt.Fprintf(&b, "- %s, age %d, %.0f cm, %.0f kg, goal %s\n", p.Sex, p.Age, p.HeightCM, p.WeightKG, p.Goal)
	fmt.Fprintf(&b, "- %d meals per day\n", p.MealsPerDay)
	if len(p.DietPrefs) > 0 && !(len(p.DietPrefs) == 1 && p.DietPrefs[0] == "none") {
		fmt.Fprintf(&b, "- Dietary preferences: %s\n", strings.Join(p.DietPrefs, ", "))
	}
	if len(p.CuisinePrefs) > 0 {
		fmt.Fprintf(&b, "- Cuisine preferences: %s\n", strings.Join(p.CuisinePrefs, ", "))
	}
	if len(p.Allergies) > 0 {
		fmt.Fprintf(&b, "- Allergies (strictly exclude): %s\n", strings.Join(p.Allergies, ", "))
	}
	if p.BudgetLevel != "" {
		fmt.Fprintf(&b, "- Grocery budget: %s\n", p.BudgetLevel)
	}
	return b.String()
}

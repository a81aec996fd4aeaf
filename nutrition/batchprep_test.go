package nutrition_test

import (
	"strings"
	"testing"

	"fitplan"
	"fitplan/nutrition"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func groceryPlan(items ...string) *fitplan.NutritionPlan {
	plan := &fitplan.NutritionPlan{}
	for _, it := range items {
		plan.GroceryList.Items = append(plan.GroceryList.Items, fitplan.Ingredient{Item: it})
	}
	return plan
}

func flatSteps(days []fitplan.BatchPrepDay) string {
	var b strings.Builder
	for _, d := range days {
		for _, s := range d.Steps {
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func stepsFor(t *testing.T, days []fitplan.BatchPrepDay, label string) []string {
	t.Helper()
	for _, d := range days {
		if d.Day == label {
			return d.Steps
		}
	}
	t.Fatalf("no %s entry in batch prep", label)
	return nil
}

func TestSynthesize_MinimalGroceryList(t *testing.T) {
	plan := groceryPlan("chicken breast", "brown rice", "broccoli", "eggs")
	days := nutrition.SynthesizeBatchPrep(plan, 4)

	must.Len(t, days, 2)
	sunday := strings.Join(stepsFor(t, days, "Sunday"), "\n")
	thursday := strings.Join(stepsFor(t, days, "Thursday"), "\n")

	should.Contains(t, sunday, "Batch-cook chicken breast", "non-egg proteins batch-cooked")
	should.Contains(t, sunday, "Hard-boil", "eggs called out separately")
	should.Contains(t, sunday, "eggs")
	should.Contains(t, sunday, "brown rice", "carb batch-cook step")
	should.Contains(t, sunday, "broccoli", "vegetable step")
	should.NotContains(t, sunday, "Batch-cook chicken breast and eggs", "eggs excluded from the generic protein step")

	should.Contains(t, thursday, "chicken breast")
	should.Contains(t, thursday, "brown rice")
	should.Contains(t, thursday, "broccoli")
}

func TestSynthesize_ClosingReminders(t *testing.T) {
	days := nutrition.SynthesizeBatchPrep(groceryPlan("chicken breast"), 3)
	sunday := stepsFor(t, days, "Sunday")
	thursday := stepsFor(t, days, "Thursday")

	should.Contains(t, sunday[len(sunday)-1], "Label")
	should.Contains(t, thursday[len(thursday)-1], "inventory")
}

func TestSynthesize_LeafyVersusSturdyVegetables(t *testing.T) {
	days := nutrition.SynthesizeBatchPrep(groceryPlan("spinach", "carrots"), 3)
	sunday := strings.Join(stepsFor(t, days, "Sunday"), "\n")

	should.Contains(t, sunday, "paper towel", "leafy veg get the crisp-storage instruction")
	should.Contains(t, sunday, "spinach")
	should.Contains(t, sunday, "airtight", "sturdy veg get the chopped-storage instruction")
	should.Contains(t, sunday, "carrots")
}

func TestSynthesize_PotatoSplitFromGrains(t *testing.T) {
	days := nutrition.SynthesizeBatchPrep(groceryPlan("sweet potato", "quinoa"), 3)
	sunday := strings.Join(stepsFor(t, days, "Sunday"), "\n")

	should.Contains(t, sunday, "Roast or bake sweet potato")
	should.Contains(t, sunday, "Cook quinoa on the stovetop")
}

func TestSynthesize_BreakfastWordingByMealCount(t *testing.T) {
	plan := groceryPlan("oats")

	few := flatSteps(nutrition.SynthesizeBatchPrep(plan, 3))
	should.Contains(t, few, "breakfast packs with oats")
	should.NotContains(t, few, "grab-and-go")

	many := flatSteps(nutrition.SynthesizeBatchPrep(plan, 5))
	should.Contains(t, many, "grab-and-go")
}

func TestSynthesize_SaucesJarred(t *testing.T) {
	steps := flatSteps(nutrition.SynthesizeBatchPrep(groceryPlan("olive oil", "pesto"), 4))
	should.Contains(t, steps, "Batch olive oil and pesto into jars")
}

func TestSynthesize_FallsBackToMealIngredients(t *testing.T) {
	// No grocery list: names come from scanning every meal.
	plan := &fitplan.NutritionPlan{
		DayPlans: []fitplan.DayPlan{{
			Day: 1,
			Meals: []fitplan.Meal{{
				Name: "Bowl",
				Ingredients: []fitplan.Ingredient{
					{Item: "chicken thighs"},
					{Item: "white rice"},
				},
			}},
		}},
	}
	steps := flatSteps(nutrition.SynthesizeBatchPrep(plan, 3))
	should.Contains(t, steps, "chicken thighs")
	should.Contains(t, steps, "white rice")
}

func TestSynthesize_QuantitySuffixesStripped(t *testing.T) {
	steps := flatSteps(nutrition.SynthesizeBatchPrep(groceryPlan("chicken breast (1.5kg)", "brown rice - 900g"), 3))
	should.Contains(t, steps, "chicken breast")
	should.NotContains(t, steps, "1.5kg")
	should.NotContains(t, steps, "900g")
}

// TestSynthesize_Groundedness: every food name referenced in a synthesized
// step must come from the plan's own ingredient set. With an empty plan the
// only remaining steps are the fixed closing reminders.
func TestSynthesize_Groundedness(t *testing.T) {
	days := nutrition.SynthesizeBatchPrep(&fitplan.NutritionPlan{}, 4)
	must.Len(t, days, 2)
	must.Len(t, stepsFor(t, days, "Sunday"), 1)
	must.Len(t, stepsFor(t, days, "Thursday"), 1)

	// Unmatched names are dropped from batch-prep entirely.
	steps := flatSteps(nutrition.SynthesizeBatchPrep(groceryPlan("dragonfruit extract"), 4))
	should.NotContains(t, steps, "dragonfruit")
}

func TestMergeBatchPrep_WeakExistingReplaced(t *testing.T) {
	synthesized := nutrition.SynthesizeBatchPrep(groceryPlan("chicken breast", "brown rice"), 4)

	tests := []struct {
		name     string
		existing []fitplan.BatchPrepDay
	}{
		{"no days", nil},
		{"single day", []fitplan.BatchPrepDay{{Day: "Sunday", Steps: []string{"a", "b", "c", "d"}}}},
		{"too few steps", []fitplan.BatchPrepDay{
			{Day: "Sunday", Steps: []string{"a"}},
			{Day: "Thursday", Steps: []string{"b"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			should.Equal(t, synthesized, nutrition.MergeBatchPrep(tt.existing, synthesized))
		})
	}
}

func TestMergeBatchPrep_StrongExistingMergedNotReplaced(t *testing.T) {
	existing := []fitplan.BatchPrepDay{
		{Day: "Sunday", Steps: []string{"Marinate the chicken overnight.", "Cook rice.", "Prep veg."}},
		{Day: "Thursday", Steps: []string{"Check the fridge.", "Top up rice."}},
	}
	synthesized := []fitplan.BatchPrepDay{
		{Day: "Sunday", Steps: []string{"Cook rice.", "Label every container with contents and date."}},
		{Day: "Thursday", Steps: []string{"Take inventory and adjust portions for the rest of the week."}},
	}

	merged := nutrition.MergeBatchPrep(existing, synthesized)
	must.Len(t, merged, 2)

	should.Equal(t, []string{
		"Marinate the chicken overnight.",
		"Cook rice.",
		"Prep veg.",
		"Label every container with contents and date.",
	}, merged[0].Steps, "existing content preserved, duplicates skipped, new steps appended")

	should.Contains(t, merged[1].Steps, "Check the fridge.")
	should.Contains(t, merged[1].Steps, "Take inventory and adjust portions for the rest of the week.")
}

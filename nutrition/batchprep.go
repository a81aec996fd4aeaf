package nutrition

import (
	"fmt"
	"regexp"
	"strings"

	"fitplan"
)

// Lexicon is the keyword classification table behind batch-prep synthesis.
// It is a fixed, deliberately narrow list; matching is lower-cased substring
// containment and a name may land in more than one bucket. Unmatched names
// are left out of batch-prep but still appear in the grocery list.
type Lexicon struct {
	Proteins   []string
	Carbs      []string
	Vegetables []string
	Breakfast  []string
	Sauces     []string

	// Sub-splits within buckets that change the instruction wording.
	Leafy  []string
	Potato []string
}

var DefaultLexicon = Lexicon{
	Proteins:   []string{"chicken", "beef", "turkey", "pork", "salmon", "tuna", "fish", "shrimp", "tofu", "tempeh", "egg", "yogurt", "cottage cheese"},
	Carbs:      []string{"rice", "pasta", "potato", "quinoa", "oats", "bread", "tortilla", "couscous", "noodle", "lentil", "bean", "chickpea"},
	Vegetables: []string{"broccoli", "spinach", "pepper", "carrot", "zucchini", "onion", "tomato", "cucumber", "lettuce", "kale", "cauliflower", "green bean", "asparagus", "cabbage", "salad"},
	Breakfast:  []string{"oats", "granola", "yogurt", "berries", "banana", "egg", "muesli"},
	Sauces:     []string{"olive oil", "soy sauce", "salsa", "pesto", "hummus", "vinegar", "mustard", "tahini", "marinade"},

	Leafy:  []string{"green", "spinach", "salad", "lettuce", "kale"},
	Potato: []string{"potato"},
}

var quantitySuffixRe = regexp.MustCompile(`(?i)\s*(\([^)]*\)|[-–,]?\s*\d+(\.\d+)?\s*(g|kg|ml|l|x|pcs?|count)?)\s*$`)

// SynthesizeBatchPrep derives Sunday (bulk prep) and Thursday (mid-week
// top-up) instructions using the default lexicon.
func SynthesizeBatchPrep(plan *fitplan.NutritionPlan, mealsPerDay int) []fitplan.BatchPrepDay {
	return DefaultLexicon.Synthesize(plan, mealsPerDay)
}

// Synthesize builds batch-prep instructions from the ingredient set actually
// present in the plan. It never invents foods: every name in a step comes
// from the grocery list (preferred) or the meals themselves.
func (lex Lexicon) Synthesize(plan *fitplan.NutritionPlan, mealsPerDay int) []fitplan.BatchPrepDay {
	names := collectIngredientNames(plan)

	var proteins, carbs, vegetables, breakfast, sauces []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if matchesAny(lower, lex.Proteins) {
			proteins = append(proteins, name)
		}
		if matchesAny(lower, lex.Carbs) {
			carbs = append(carbs, name)
		}
		if matchesAny(lower, lex.Vegetables) {
			vegetables = append(vegetables, name)
		}
		if matchesAny(lower, lex.Breakfast) {
			breakfast = append(breakfast, name)
		}
		if matchesAny(lower, lex.Sauces) {
			sauces = append(sauces, name)
		}
	}

	var sunday, thursday []string

	// Proteins: batch-cook everything except eggs, which get their own step.
	var nonEgg, eggs []string
	for _, p := range proteins {
		if strings.Contains(strings.ToLower(p), "egg") {
			eggs = append(eggs, p)
		} else {
			nonEgg = append(nonEgg, p)
		}
	}
	if len(nonEgg) > 0 {
		sunday = append(sunday, fmt.Sprintf("Batch-cook %s; portion into containers and freeze half for later in the week.", joinNames(nonEgg)))
	}
	if len(eggs) > 0 {
		sunday = append(sunday, fmt.Sprintf("Hard-boil a batch of %s; refrigerate in the shell.", joinNames(eggs)))
	}
	if len(proteins) > 0 {
		thursday = append(thursday, fmt.Sprintf("Reheat remaining %s; cook a fresh batch if running low.", joinNames(proteins)))
	}

	// Carbs: potato-type items get roasted, grains go on the stovetop.
	var potatoes, grains []string
	for _, c := range carbs {
		if matchesAny(strings.ToLower(c), lex.Potato) {
			potatoes = append(potatoes, c)
		} else {
			grains = append(grains, c)
		}
	}
	if len(potatoes) > 0 {
		sunday = append(sunday, fmt.Sprintf("Roast or bake %s in bulk; cool before refrigerating.", joinNames(potatoes)))
	}
	if len(grains) > 0 {
		sunday = append(sunday, fmt.Sprintf("Cook %s on the stovetop; cool and portion into containers.", joinNames(grains)))
	}
	if len(carbs) > 0 {
		thursday = append(thursday, fmt.Sprintf("Cook a small fresh batch of %s if supplies are low.", joinNames(carbs)))
	}

	// Vegetables: leafy and sturdy veg store differently.
	var leafy, sturdy []string
	for _, v := range vegetables {
		if matchesAny(strings.ToLower(v), lex.Leafy) {
			leafy = append(leafy, v)
		} else {
			sturdy = append(sturdy, v)
		}
	}
	if len(leafy) > 0 {
		sunday = append(sunday, fmt.Sprintf("Wash and dry %s; store loosely with a paper towel to keep crisp.", joinNames(leafy)))
	}
	if len(sturdy) > 0 {
		sunday = append(sunday, fmt.Sprintf("Wash and chop %s; store in airtight containers.", joinNames(sturdy)))
	}
	if len(vegetables) > 0 {
		thursday = append(thursday, fmt.Sprintf("Refresh vegetables: chop a new batch of %s.", joinNames(vegetables)))
	}

	if len(breakfast) > 0 {
		if mealsPerDay >= 4 {
			sunday = append(sunday, fmt.Sprintf("Assemble make-ahead breakfast packs with %s so the first meal of a %d-meal day is grab-and-go.", joinNames(breakfast), mealsPerDay))
		} else {
			sunday = append(sunday, fmt.Sprintf("Assemble make-ahead breakfast packs with %s.", joinNames(breakfast)))
		}
	}

	if len(sauces) > 0 {
		sunday = append(sunday, fmt.Sprintf("Batch %s into jars; one shake before serving.", joinNames(sauces)))
	}

	sunday = append(sunday, "Label every container with contents and date.")
	thursday = append(thursday, "Take inventory and adjust portions for the rest of the week.")

	return []fitplan.BatchPrepDay{
		{Day: "Sunday", Steps: sunday},
		{Day: "Thursday", Steps: thursday},
	}
}

// MergeBatchPrep applies the merge policy for a plan that already carries a
// batch_prep section. Fewer than 2 day entries or fewer than 4 total steps
// means the existing section is too weak and is replaced wholesale;
// otherwise synthesized steps missing from the matching day (verbatim string
// match) are appended, preserving existing content.
func MergeBatchPrep(existing, synthesized []fitplan.BatchPrepDay) []fitplan.BatchPrepDay {
	total := 0
	for _, d := range existing {
		total += len(d.Steps)
	}
	if len(existing) < 2 || total < 4 {
		return synthesized
	}

	merged := make([]fitplan.BatchPrepDay, len(existing))
	for i, ed := range existing {
		merged[i] = fitplan.BatchPrepDay{Day: ed.Day, Steps: append([]string(nil), ed.Steps...)}
	}

	for _, sd := range synthesized {
		idx := -1
		for i, ed := range merged {
			if strings.EqualFold(ed.Day, sd.Day) {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, sd)
			continue
		}
		have := make(map[string]bool, len(merged[idx].Steps))
		for _, s := range merged[idx].Steps {
			have[s] = true
		}
		for _, s := range sd.Steps {
			if !have[s] {
				merged[idx].Steps = append(merged[idx].Steps, s)
			}
		}
	}
	return merged
}

// collectIngredientNames prefers the grocery list when present and non-empty,
// falling back to scanning every meal across all days. Display names keep
// their source casing with trailing quantity suffixes stripped; duplicates
// are removed case-insensitively, first spelling wins.
func collectIngredientNames(plan *fitplan.NutritionPlan) []string {
	var raw []string
	if len(plan.GroceryList.Items) > 0 {
		for _, it := range plan.GroceryList.Items {
			raw = append(raw, it.Item)
		}
	} else {
		for _, day := range plan.DayPlans {
			for _, meal := range day.Meals {
				for _, ing := range meal.Ingredients {
					raw = append(raw, ing.Item)
				}
			}
		}
	}

	seen := make(map[string]bool, len(raw))
	var names []string
	for _, r := range raw {
		name := stripQuantitySuffix(r)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

func stripQuantitySuffix(s string) string {
	s = strings.TrimSpace(s)
	for {
		trimmed := quantitySuffixRe.ReplaceAllString(s, "")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

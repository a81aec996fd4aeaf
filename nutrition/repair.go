package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fitplan"
)

// Engine validates raw model output against the canonical plan shape and
// repairs it when incomplete: one model-assisted attempt first, then the
// deterministic programmatic fallback. The fallback never fails, so callers
// only see an error when the raw text cannot be parsed at all.
type Engine struct {
	completer fitplan.Completer
	opts      fitplan.CompletionOptions
	lexicon   Lexicon
}

// NewEngine creates a repair engine. A nil completer disables model-assisted
// repair; incomplete plans then go straight to the programmatic path.
func NewEngine(completer fitplan.Completer, opts fitplan.CompletionOptions) *Engine {
	opts.JSONMode = true
	if opts.Schema == nil {
		opts.Schema = PlanSchema()
	}
	return &Engine{completer: completer, opts: opts, lexicon: DefaultLexicon}
}

// EnsureComplete parses raw completion text and guarantees the canonical
// shape: exactly 7 day plans with exactly mealsPerDay meals each. The second
// return value reports which repair path ran (fitplan.RepairNone, RepairModel
// or RepairProgrammatic).
func (e *Engine) EnsureComplete(ctx context.Context, raw string, targets fitplan.MacroTargets, mealsPerDay int) (*fitplan.NutritionPlan, string, error) {
	plan, err := ParsePlan(raw)
	if err != nil {
		return nil, "", err
	}

	path := fitplan.RepairNone
	if !plan.IsComplete(mealsPerDay) {
		slog.Info("REPAIR: Plan incomplete, attempting model-assisted repair",
			"days", len(plan.DayPlans), "meals_per_day_wanted", mealsPerDay)

		repaired, rerr := e.modelRepair(ctx, plan, targets, mealsPerDay)
		if rerr == nil {
			plan = repaired
			path = fitplan.RepairModel
		} else {
			slog.Warn("REPAIR: Model-assisted repair failed, falling back to programmatic", "error", rerr)
		}

		// The programmatic pass is the invariant backstop: it runs whenever
		// the plan is still short, including after a lenient model repair.
		if !plan.IsComplete(mealsPerDay) {
			programmaticRepair(plan, targets, mealsPerDay)
			path = fitplan.RepairProgrammatic
		}
	}

	normalizeShape(plan, mealsPerDay)

	// Batch-prep enforcement always runs, whichever path produced the plan.
	plan.BatchPrep = MergeBatchPrep(plan.BatchPrep, e.lexicon.Synthesize(plan, mealsPerDay))

	if plan.Summary.MealsPerDay == 0 {
		plan.Summary.MealsPerDay = mealsPerDay
	}
	if plan.Summary.Kcal == 0 {
		plan.Summary.MacroTargets = targets
	}

	return plan, path, nil
}

// modelRepair issues one strict-JSON completion asking the model to expand
// the existing plan to the canonical shape. Single attempt; any failure
// falls through to the programmatic path.
func (e *Engine) modelRepair(ctx context.Context, plan *fitplan.NutritionPlan, targets fitplan.MacroTargets, mealsPerDay int) (*fitplan.NutritionPlan, error) {
	if e.completer == nil {
		return nil, fmt.Errorf("no completer configured")
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan for repair: %w", err)
	}
	targetsJSON, err := json.Marshal(targets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal targets for repair: %w", err)
	}

	prompt := fmt.Sprintf(repairPromptFmt, mealsPerDay, string(targetsJSON), string(planJSON))

	out, err := e.completer.Complete(ctx, prompt, e.opts)
	if err != nil {
		return nil, fmt.Errorf("repair completion failed: %w", err)
	}

	repaired, err := ParsePlan(out)
	if err != nil {
		return nil, fmt.Errorf("repair output unparseable: %w", err)
	}
	return repaired, nil
}

// programmaticRepair deterministically fills the plan out to 7 days and
// mealsPerDay meals per day without any model call. Cloned days get
// sequential numbers and, when they hold more than one meal, a rotated meal
// order so consecutive clones are not byte-identical.
func programmaticRepair(plan *fitplan.NutritionPlan, targets fitplan.MacroTargets, mealsPerDay int) {
	if len(plan.DayPlans) == 0 {
		plan.DayPlans = []fitplan.DayPlan{{Day: 1, TotalKcal: targets.Kcal}}
	}

	for i := range plan.DayPlans {
		day := &plan.DayPlans[i]
		for len(day.Meals) < mealsPerDay {
			if len(day.Meals) == 0 {
				day.Meals = append(day.Meals, placeholderMeal(targets, mealsPerDay))
			} else {
				day.Meals = append(day.Meals, day.Meals[len(day.Meals)-1].Clone())
			}
		}
	}

	for len(plan.DayPlans) < 7 {
		next := plan.DayPlans[len(plan.DayPlans)-1].Clone()
		next.Day = len(plan.DayPlans) + 1
		if len(next.Meals) > 1 {
			first := next.Meals[0]
			next.Meals = append(next.Meals[1:], first)
		}
		plan.DayPlans = append(plan.DayPlans, next)
	}
}

// normalizeShape trims any surplus the model produced so the invariant is
// exact in both directions: 7 days, mealsPerDay meals.
func normalizeShape(plan *fitplan.NutritionPlan, mealsPerDay int) {
	if len(plan.DayPlans) > 7 {
		plan.DayPlans = plan.DayPlans[:7]
	}
	for i := range plan.DayPlans {
		if len(plan.DayPlans[i].Meals) > mealsPerDay {
			plan.DayPlans[i].Meals = plan.DayPlans[i].Meals[:mealsPerDay]
		}
	}
}

func placeholderMeal(targets fitplan.MacroTargets, mealsPerDay int) fitplan.Meal {
	return fitplan.Meal{
		Name:   "Balanced meal",
		Recipe: "Combine a lean protein, a starchy carbohydrate, and vegetables.",
		Macros: fitplan.MealMacros{
			Kcal:     targets.Kcal / mealsPerDay,
			ProteinG: targets.ProteinG / mealsPerDay,
			CarbsG:   targets.CarbsG / mealsPerDay,
			FatG:     targets.FatG / mealsPerDay,
		},
	}
}

const repairPromptFmt = `You are a nutrition plan repair assistant.

The JSON plan below is incomplete. Expand it so that "day_plans" contains exactly 7 entries (day 1 through day 7) and every entry's "meals" array contains exactly %d meals.

RULES
- Preserve the existing days, meals and field shapes verbatim; only add what is missing.
- Keep the daily macro targets exactly as given: %s
- Respond with ONE valid JSON object only (no extra text, no markdown, no code fences). Start with '{' and end with '}'.

PLAN
%s`

package fitplan

import (
	"encoding/json"
)

// NutritionPlan is the canonical plan shape produced by the repair engine.
// Post-repair invariant: exactly 7 day plans, each with exactly
// summary.meals_per_day meals. Nothing downstream may assume the invariant
// holds before repair runs.
type NutritionPlan struct {
	Summary     PlanSummary    `json:"summary"`
	Guidelines  []string       `json:"guidelines,omitempty"`
	DayPlans    []DayPlan      `json:"day_plans"`
	GroceryList GroceryList    `json:"grocery_list"`
	BatchPrep   []BatchPrepDay `json:"batch_prep,omitempty"`
}

// UnmarshalJSON normalizes the legacy "days" field alias into day_plans once,
// at the parse boundary, so downstream code never branches on aliases.
func (p *NutritionPlan) UnmarshalJSON(data []byte) error {
	type plain NutritionPlan
	aux := struct {
		*plain
		LegacyDays []DayPlan `json:"days"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(p.DayPlans) == 0 && len(aux.LegacyDays) > 0 {
		p.DayPlans = aux.LegacyDays
	}
	return nil
}

// IsComplete reports whether the plan already satisfies the canonical
// 7-day/N-meal shape and needs no repair.
func (p *NutritionPlan) IsComplete(mealsPerDay int) bool {
	if len(p.DayPlans) < 7 {
		return false
	}
	for _, d := range p.DayPlans {
		if len(d.Meals) < mealsPerDay {
			return false
		}
	}
	return true
}

type PlanSummary struct {
	MacroTargets
	MealsPerDay int `json:"meals_per_day,omitempty"`
}

type DayPlan struct {
	Day       int    `json:"day"`
	TotalKcal int    `json:"total_kcal,omitempty"`
	Meals     []Meal `json:"meals"`
}

// Clone returns a deep copy, used by the programmatic repair path so cloned
// days and meals never share backing slices with the original.
func (d DayPlan) Clone() DayPlan {
	out := d
	out.Meals = make([]Meal, len(d.Meals))
	for i, m := range d.Meals {
		out.Meals[i] = m.Clone()
	}
	return out
}

type Meal struct {
	Name        string       `json:"name"`
	Recipe      string       `json:"recipe,omitempty"`
	Macros      MealMacros   `json:"macros"`
	Ingredients []Ingredient `json:"ingredients,omitempty"`
}

func (m Meal) Clone() Meal {
	out := m
	out.Ingredients = append([]Ingredient(nil), m.Ingredients...)
	return out
}

type MealMacros struct {
	Kcal     int `json:"kcal"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

type GroceryList struct {
	Items []Ingredient `json:"items"`
}

type BatchPrepDay struct {
	Day   string   `json:"day"`
	Steps []string `json:"steps"`
}

// Unit tags an ingredient quantity. Model output uses one of the wire keys
// grams/kg/ml/count, or none at all; the union keeps that explicit instead of
// spreading nullable fields through the renderer.
type Unit int

const (
	UnitUnspecified Unit = iota
	UnitGrams
	UnitKilograms
	UnitMilliliters
	UnitCount
)

type Quantity struct {
	Unit   Unit
	Amount float64
}

// Ingredient is a single food item with at most one quantity. The same type
// backs grocery list entries, which may carry kilograms instead of grams.
type Ingredient struct {
	Item     string
	Quantity Quantity
}

type ingredientWire struct {
	Item  string   `json:"item"`
	Grams *float64 `json:"grams,omitempty"`
	KG    *float64 `json:"kg,omitempty"`
	ML    *float64 `json:"ml,omitempty"`
	Count *float64 `json:"count,omitempty"`
}

func (i Ingredient) MarshalJSON() ([]byte, error) {
	w := ingredientWire{Item: i.Item}
	amt := i.Quantity.Amount
	switch i.Quantity.Unit {
	case UnitGrams:
		w.Grams = &amt
	case UnitKilograms:
		w.KG = &amt
	case UnitMilliliters:
		w.ML = &amt
	case UnitCount:
		w.Count = &amt
	}
	return json.Marshal(w)
}

// UnmarshalJSON normalizes the quantity key aliases into the tagged union.
// When the model emits more than one key, grams wins over kg over ml over
// count; when it emits none, the quantity stays Unspecified.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var w ingredientWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	i.Item = w.Item
	switch {
	case w.Grams != nil:
		i.Quantity = Quantity{Unit: UnitGrams, Amount: *w.Grams}
	case w.KG != nil:
		i.Quantity = Quantity{Unit: UnitKilograms, Amount: *w.KG}
	case w.ML != nil:
		i.Quantity = Quantity{Unit: UnitMilliliters, Amount: *w.ML}
	case w.Count != nil:
		i.Quantity = Quantity{Unit: UnitCount, Amount: *w.Count}
	default:
		i.Quantity = Quantity{Unit: UnitUnspecified}
	}
	return nil
}

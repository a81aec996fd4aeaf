package nutrition_test

import (
	"errors"
	"testing"

	"fitplan"
	"fitplan/nutrition"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func TestParsePlan_Strict(t *testing.T) {
	raw := `{"summary":{"kcal":2000,"meals_per_day":3},"day_plans":[{"day":1,"meals":[{"name":"Oats"}]}],"grocery_list":{"items":[{"item":"oats","grams":500}]}}`
	plan, err := nutrition.ParsePlan(raw)
	must.NoError(t, err)

	should.Equal(t, 2000, plan.Summary.Kcal)
	must.Len(t, plan.DayPlans, 1)
	should.Equal(t, "Oats", plan.DayPlans[0].Meals[0].Name)
	must.Len(t, plan.GroceryList.Items, 1)
	should.Equal(t, fitplan.Quantity{Unit: fitplan.UnitGrams, Amount: 500}, plan.GroceryList.Items[0].Quantity)
}

func TestParsePlan_RescuesFencedOutput(t *testing.T) {
	raw := "Here is your plan:\n```json\n{\"summary\":{\"kcal\":1800},\"day_plans\":[],\"grocery_list\":{\"items\":[]}}\n```\nEnjoy!"
	plan, err := nutrition.ParsePlan(raw)
	must.NoError(t, err)
	should.Equal(t, 1800, plan.Summary.Kcal)
}

func TestParsePlan_InvalidOutputCarriesRawText(t *testing.T) {
	raw := "I'm sorry, I can't produce a plan right now."
	_, err := nutrition.ParsePlan(raw)
	must.Error(t, err)
	should.True(t, errors.Is(err, fitplan.ErrInvalidModelOutput))

	var perr *fitplan.Error
	must.ErrorAs(t, err, &perr)
	should.Equal(t, raw, perr.Raw)
	should.Equal(t, "invalid_output", perr.Kind)
}

func TestParsePlan_LegacyDaysAlias(t *testing.T) {
	raw := `{"summary":{"kcal":2000},"days":[{"day":1,"meals":[{"name":"Eggs"}]}],"grocery_list":{"items":[]}}`
	plan, err := nutrition.ParsePlan(raw)
	must.NoError(t, err)
	must.Len(t, plan.DayPlans, 1, "legacy days field normalized into day_plans")
	should.Equal(t, "Eggs", plan.DayPlans[0].Meals[0].Name)
}

func TestParsePlan_QuantityUnits(t *testing.T) {
	raw := `{"day_plans":[{"day":1,"meals":[{"name":"M","ingredients":[
		{"item":"rice","grams":100},
		{"item":"milk","ml":250},
		{"item":"eggs","count":2},
		{"item":"salt"}
	]}]}],"grocery_list":{"items":[{"item":"chicken","kg":1.5}]}}`
	plan, err := nutrition.ParsePlan(raw)
	must.NoError(t, err)

	ings := plan.DayPlans[0].Meals[0].Ingredients
	must.Len(t, ings, 4)
	should.Equal(t, fitplan.UnitGrams, ings[0].Quantity.Unit)
	should.Equal(t, fitplan.UnitMilliliters, ings[1].Quantity.Unit)
	should.Equal(t, fitplan.UnitCount, ings[2].Quantity.Unit)
	should.Equal(t, fitplan.UnitUnspecified, ings[3].Quantity.Unit)
	should.Equal(t, fitplan.Quantity{Unit: fitplan.UnitKilograms, Amount: 1.5}, plan.GroceryList.Items[0].Quantity)
}

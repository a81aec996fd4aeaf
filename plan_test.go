package fitplan

import (
	"encoding/json"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func TestIngredientUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Ingredient
	}{
		{
			name: "grams",
			in:   `{"item":"rice","grams":90}`,
			want: Ingredient{Item: "rice", Quantity: Quantity{Unit: UnitGrams, Amount: 90}},
		},
		{
			name: "kilograms",
			in:   `{"item":"chicken breast","kg":1.4}`,
			want: Ingredient{Item: "chicken breast", Quantity: Quantity{Unit: UnitKilograms, Amount: 1.4}},
		},
		{
			name: "milliliters",
			in:   `{"item":"olive oil","ml":250}`,
			want: Ingredient{Item: "olive oil", Quantity: Quantity{Unit: UnitMilliliters, Amount: 250}},
		},
		{
			name: "count",
			in:   `{"item":"eggs","count":12}`,
			want: Ingredient{Item: "eggs", Quantity: Quantity{Unit: UnitCount, Amount: 12}},
		},
		{
			name: "no quantity key stays unspecified",
			in:   `{"item":"salt"}`,
			want: Ingredient{Item: "salt", Quantity: Quantity{Unit: UnitUnspecified}},
		},
		{
			name: "grams wins over competing keys",
			in:   `{"item":"oats","grams":80,"kg":0.08,"count":1}`,
			want: Ingredient{Item: "oats", Quantity: Quantity{Unit: UnitGrams, Amount: 80}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Ingredient
			must.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			should.Equal(t, tt.want, got)
		})
	}
}

func TestIngredientMarshalSingleKey(t *testing.T) {
	b, err := json.Marshal(Ingredient{Item: "eggs", Quantity: Quantity{Unit: UnitCount, Amount: 12}})
	must.NoError(t, err)
	should.JSONEq(t, `{"item":"eggs","count":12}`, string(b))

	b, err = json.Marshal(Ingredient{Item: "salt"})
	must.NoError(t, err)
	should.JSONEq(t, `{"item":"salt"}`, string(b))
}

func TestNutritionPlanLegacyDaysAlias(t *testing.T) {
	var p NutritionPlan
	must.NoError(t, json.Unmarshal([]byte(`{"days":[{"day":1,"meals":[]}]}`), &p))
	must.Len(t, p.DayPlans, 1)
	should.Equal(t, 1, p.DayPlans[0].Day)

	// day_plans wins when both appear
	var q NutritionPlan
	must.NoError(t, json.Unmarshal([]byte(`{"day_plans":[{"day":1},{"day":2}],"days":[{"day":9}]}`), &q))
	must.Len(t, q.DayPlans, 2)
	should.Equal(t, 2, q.DayPlans[1].Day)
}

func TestNutritionPlanIsComplete(t *testing.T) {
	day := func(meals int) DayPlan {
		d := DayPlan{}
		for i := 0; i < meals; i++ {
			d.Meals = append(d.Meals, Meal{Name: "m"})
		}
		return d
	}

	full := NutritionPlan{}
	for i := 0; i < 7; i++ {
		full.DayPlans = append(full.DayPlans, day(4))
	}
	should.True(t, full.IsComplete(4))

	short := full
	short.DayPlans = full.DayPlans[:6]
	should.False(t, short.IsComplete(4))

	thin := NutritionPlan{}
	for i := 0; i < 7; i++ {
		thin.DayPlans = append(thin.DayPlans, day(3))
	}
	should.False(t, thin.IsComplete(4))
}

func TestDayPlanCloneIsDeep(t *testing.T) {
	orig := DayPlan{
		Day: 1,
		Meals: []Meal{
			{Name: "A", Ingredients: []Ingredient{{Item: "rice"}}},
		},
	}

	cp := orig.Clone()
	cp.Meals[0].Name = "B"
	cp.Meals[0].Ingredients[0].Item = "oats"

	should.Equal(t, "A", orig.Meals[0].Name)
	should.Equal(t, "rice", orig.Meals[0].Ingredients[0].Item)
}

package nutrition

import (
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

// PlanSchema describes the canonical nutrition plan object handed to
// schema-aware completion providers in strict-JSON mode. Field names match
// the wire shape in plan.go exactly.
func PlanSchema() *jsonschema.Schema {
	minDay := 1.0
	maxDay := 7.0

	macros := map[string]*jsonschema.Schema{
		"kcal":      {Type: "integer"},
		"protein_g": {Type: "integer"},
		"carbs_g":   {Type: "integer"},
		"fat_g":     {Type: "integer"},
	}

	ingredient := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"item":  {Type: "string"},
			"grams": {Type: "number"},
			"ml":    {Type: "number"},
			"count": {Type: "number"},
		},
		Required: []string{"item"},
	}

	groceryItem := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"item":  {Type: "string"},
			"kg":    {Type: "number"},
			"grams": {Type: "number"},
			"ml":    {Type: "number"},
			"count": {Type: "number"},
		},
		Required: []string{"item"},
	}

	meal := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"name":        {Type: "string"},
			"recipe":      {Type: "string"},
			"macros":      {Type: "object", Properties: macros},
			"ingredients": {Type: "array", Items: ingredient},
		},
		Required: []string{"name", "macros"},
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"summary": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"kcal":          {Type: "integer"},
					"protein_g":     {Type: "integer"},
					"carbs_g":       {Type: "integer"},
					"fat_g":         {Type: "integer"},
					"fiber_g":       {Type: "integer"},
					"sodium_mg_cap": {Type: "integer"},
					"meals_per_day": {Type: "integer"},
				},
			},
			"guidelines": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			"day_plans": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"day":        {Type: "integer", Minimum: &minDay, Maximum: &maxDay},
						"total_kcal": {Type: "integer"},
						"meals":      {Type: "array", Items: meal},
					},
					Required: []string{"day", "meals"},
				},
			},
			"grocery_list": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"items": {Type: "array", Items: groceryItem},
				},
				Required: []string{"items"},
			},
			"batch_prep": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"day":   {Type: "string"},
						"steps": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
					},
					Required: []string{"day", "steps"},
				},
			},
		},
		Required: []string{"summary", "day_plans", "grocery_list"},
	}
}

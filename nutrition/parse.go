// Package nutrition turns raw completion text into the canonical 7-day
// nutrition plan, repairing incomplete model output along the way and
// deriving batch-prep instructions from the plan's own ingredients.
package nutrition

import (
	"encoding/json"
	"strings"

	"fitplan"
)

// ParsePlan attempts a strict JSON parse of the raw completion text, then a
// rescue parse (strip code fences, take first '{' through last '}'). If both
// fail the invalid-output error carries the raw text for diagnostics.
func ParsePlan(raw string) (*fitplan.NutritionPlan, error) {
	var plan fitplan.NutritionPlan
	if err := json.Unmarshal([]byte(raw), &plan); err == nil {
		return &plan, nil
	}

	rescued, ok := rescueJSON(raw)
	if ok {
		var plan fitplan.NutritionPlan
		if err := json.Unmarshal([]byte(rescued), &plan); err == nil {
			return &plan, nil
		}
	}

	return nil, fitplan.NewInvalidOutputError("completion text is not parseable JSON", raw)
}

// rescueJSON extracts the most plausible JSON object from prose-wrapped or
// fence-wrapped model output.
func rescueJSON(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

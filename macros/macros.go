// Package macros derives daily calorie and macronutrient targets from a
// validated body/activity profile. Everything here is pure arithmetic:
// same profile in, same targets out.
package macros

import (
	"math"

	"fitplan"
)

// activityFactors maps activity levels to their energy-expenditure
// multiplier. This is the single source of truth for valid levels.
var activityFactors = map[fitplan.ActivityLevel]float64{
	fitplan.ActivitySedentary:  1.20,
	fitplan.ActivityLight:      1.375,
	fitplan.ActivityModerate:   1.55,
	fitplan.ActivityVeryActive: 1.725,
}

// goalFactors adjusts total energy expenditure toward the training goal.
var goalFactors = map[fitplan.Goal]float64{
	fitplan.GoalCut:    0.80,
	fitplan.GoalRecomp: 0.95,
	fitplan.GoalGain:   1.12,
}

// carbFloorGPerKG is the minimum daily carbohydrate intake per kg of body
// weight for a given training load (lower bound of the load band).
var carbFloorGPerKG = map[fitplan.TrainingLoad]float64{
	fitplan.TrainingLight:    3,
	fitplan.TrainingModerate: 5,
	fitplan.TrainingHigh:     8,
}

const sodiumCapMG = 2300

// ComputeTargets computes calorie and macro targets from the profile.
// Inputs are pre-validated by Profile.Validate, so there is no error path.
//
// RMR uses Mifflin-St Jeor; fat starts at 30% of calories and drops to 22%
// in a single pass when the remaining carbohydrate budget falls below the
// training-load floor. Carbs never land below the floor itself.
func ComputeTargets(p fitplan.Profile) fitplan.MacroTargets {
	rmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Sex == fitplan.SexMale {
		rmr += 5
	} else {
		rmr -= 161
	}

	tee := rmr * activityFactors[p.Activity]
	kcal := int(math.Round(tee * goalFactors[p.Goal]))

	proteinPerKG := 1.8
	if p.Goal == fitplan.GoalCut {
		proteinPerKG = 2.2
	}
	protein := int(math.Round(proteinPerKG * p.WeightKG))

	fat := int(math.Round(float64(kcal) * 0.30 / 9))
	carbs := carbsFromRemainder(kcal, protein, fat)

	floor := int(math.Floor(carbFloorGPerKG[p.TrainingLoad] * p.WeightKG))
	if carbs < floor {
		// Single-pass correction: free calories by cutting fat to 22%,
		// then hold the floor if the freed calories still fall short.
		fat = int(math.Round(float64(kcal) * 0.22 / 9))
		carbs = carbsFromRemainder(kcal, protein, fat)
		if carbs < floor {
			carbs = floor
		}
	}

	fiber := int(math.Round(14 * float64(kcal) / 1000))

	return fitplan.MacroTargets{
		Kcal:        kcal,
		ProteinG:    protein,
		CarbsG:      carbs,
		FatG:        fat,
		FiberG:      fiber,
		SodiumMGCap: sodiumCapMG,
	}
}

func carbsFromRemainder(kcal, proteinG, fatG int) int {
	remaining := float64(kcal) - float64(proteinG)*4 - float64(fatG)*9
	return int(math.Round(remaining / 4))
}

package macros_test

import (
	"math"
	"testing"

	"fitplan"
	"fitplan/macros"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

func baseProfile() fitplan.Profile {
	return fitplan.Profile{
		Sex:          fitplan.SexMale,
		Age:          30,
		HeightCM:     180,
		WeightKG:     80,
		Activity:     fitplan.ActivityModerate,
		Goal:         fitplan.GoalGain,
		TrainingLoad: fitplan.TrainingHigh,
		MealsPerDay:  4,
	}
}

func TestComputeTargets_GainScenario(t *testing.T) {
	// male, 30y, 180cm, 80kg, moderate, gain, high load:
	// RMR = 800 + 1125 - 150 + 5 = 1780
	// TEE = 1780 * 1.55 = 2759
	// kcal = round(2759 * 1.12) = 3090
	got := macros.ComputeTargets(baseProfile())

	should.Equal(t, 3090, got.Kcal)
	should.Equal(t, 144, got.ProteinG, "gain uses 1.8 g/kg")
	should.GreaterOrEqual(t, got.CarbsG, 640, "high load floors carbs at 8 g/kg")
	should.Equal(t, 2300, got.SodiumMGCap)
	should.Equal(t, int(math.Round(14*3090.0/1000)), got.FiberG)
}

func TestComputeTargets_CutUsesHigherProtein(t *testing.T) {
	p := baseProfile()
	p.Goal = fitplan.GoalCut
	got := macros.ComputeTargets(p)
	should.Equal(t, 176, got.ProteinG, "cut uses 2.2 g/kg")
}

func TestComputeTargets_FatCorrectionOnCarbShortfall(t *testing.T) {
	// Small female cut profile: the 30% fat allocation leaves a carb target
	// far below the light-load floor, so fat must drop to 22% and carbs must
	// land exactly on the floor.
	p := fitplan.Profile{
		Sex:          fitplan.SexFemale,
		Age:          40,
		HeightCM:     165,
		WeightKG:     60,
		Activity:     fitplan.ActivitySedentary,
		Goal:         fitplan.GoalCut,
		TrainingLoad: fitplan.TrainingLight,
		MealsPerDay:  3,
	}
	got := macros.ComputeTargets(p)

	must.Equal(t, 1219, got.Kcal)
	should.Equal(t, 30, got.FatG, "fat recomputed at 22% of calories")
	should.Equal(t, 180, got.CarbsG, "carbs held at the 3 g/kg floor")
}

func TestComputeTargets_NoFatCorrectionWhenCarbsAboveFloor(t *testing.T) {
	// Big surplus, light load: 30% fat leaves plenty of carbs.
	p := baseProfile()
	p.TrainingLoad = fitplan.TrainingLight
	got := macros.ComputeTargets(p)

	should.Equal(t, 103, got.FatG, "fat stays at 30% of calories")
	should.GreaterOrEqual(t, got.CarbsG, 240)
}

// TestComputeTargets_CarbFloorHolds exercises every activity/goal/load
// combination at both profile extremes and checks the floor invariant.
func TestComputeTargets_CarbFloorHolds(t *testing.T) {
	activities := []fitplan.ActivityLevel{
		fitplan.ActivitySedentary, fitplan.ActivityLight,
		fitplan.ActivityModerate, fitplan.ActivityVeryActive,
	}
	goals := []fitplan.Goal{fitplan.GoalCut, fitplan.GoalRecomp, fitplan.GoalGain}
	loads := []fitplan.TrainingLoad{fitplan.TrainingLight, fitplan.TrainingModerate, fitplan.TrainingHigh}
	floors := map[fitplan.TrainingLoad]float64{
		fitplan.TrainingLight:    3,
		fitplan.TrainingModerate: 5,
		fitplan.TrainingHigh:     8,
	}
	profiles := []fitplan.Profile{
		{Sex: fitplan.SexFemale, Age: 13, HeightCM: 120, WeightKG: 35, MealsPerDay: 3},
		{Sex: fitplan.SexMale, Age: 90, HeightCM: 230, WeightKG: 250, MealsPerDay: 6},
		baseProfile(),
	}

	for _, p := range profiles {
		for _, act := range activities {
			for _, goal := range goals {
				for _, load := range loads {
					p.Activity = act
					p.Goal = goal
					p.TrainingLoad = load
					got := macros.ComputeTargets(p)

					floor := int(math.Floor(floors[load] * p.WeightKG))
					should.GreaterOrEqualf(t, got.CarbsG, floor,
						"carb floor violated for %s/%s/%s at %.0fkg", act, goal, load, p.WeightKG)
					should.Positive(t, got.Kcal)
					should.Positive(t, got.FatG)
					should.Equal(t, 2300, got.SodiumMGCap)
				}
			}
		}
	}
}

func TestComputeTargets_Deterministic(t *testing.T) {
	p := baseProfile()
	should.Equal(t, macros.ComputeTargets(p), macros.ComputeTargets(p))
}

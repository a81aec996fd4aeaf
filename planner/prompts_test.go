package planner

import (
	"strings"
	"testing"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"

	"fitplan"
	"fitplan/workout"
)

// The output format the workout prompt instructs is only worth anything if
// the parser reads it back. Parse the example block embedded in the prompt
// and check it comes out with days and exercises, not bare week headings.
func TestWorkoutPromptExampleParses(t *testing.T) {
	start := strings.Index(workoutPromptHeader, "Week 1")
	must.GreaterOrEqual(t, start, 0, "prompt no longer embeds a format example")
	end := strings.Index(workoutPromptHeader, "...")
	must.Greater(t, end, start)

	weeks := workout.Parse(workoutPromptHeader[start:end])
	must.Len(t, weeks, 1)
	must.Len(t, weeks[0].Days, 2)
	should.Equal(t, "Day 1 - Upper Body", weeks[0].Days[0].Name)
	should.Equal(t, []string{"Bench Press: 4x8", "Row: 4x10"}, weeks[0].Days[0].Exercises)
}

func TestBuildWorkoutPrompt(t *testing.T) {
	prompt := buildWorkoutPrompt(testProfile())

	should.True(t, strings.HasPrefix(prompt, workoutPromptHeader))
	should.Contains(t, prompt, "CLIENT:")
	should.Contains(t, prompt, "Goal: gain")
}

func TestBuildNutritionPrompt(t *testing.T) {
	targets := fitplan.MacroTargets{Kcal: 3090, ProteinG: 176, CarbsG: 380, FatG: 86}
	prompt := buildNutritionPrompt(testProfile(), targets)

	should.True(t, strings.HasPrefix(prompt, nutritionPromptHeader))
	should.Contains(t, prompt, "DAILY TARGETS:")
	should.Contains(t, prompt, "3090")
}

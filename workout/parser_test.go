package workout_test

import (
	"testing"

	"fitplan"
	"fitplan/workout"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

const sampleText = "Week 1\nDay 1 – Push\nBench Press: 3x8 @135lb\nNotes about form\nDay 2 – Pull\nRow: 3x10 @95lb\nWeek 2\nDay 1 – Push\nOHP: 3x8 @65lb"

func TestParse_TwoWeekPlan(t *testing.T) {
	weeks := workout.Parse(sampleText)

	must.Len(t, weeks, 2)

	should.Equal(t, 1, weeks[0].Number)
	must.Len(t, weeks[0].Days, 2)
	must.Len(t, weeks[0].Days[0].Exercises, 1, "narrative line without colon excluded")
	should.Equal(t, "Bench Press: 3x8 @135lb", weeks[0].Days[0].Exercises[0])
	should.Equal(t, []string{"Row: 3x10 @95lb"}, weeks[0].Days[1].Exercises)

	should.Equal(t, 2, weeks[1].Number)
	must.Len(t, weeks[1].Days, 1)
	should.Equal(t, []string{"OHP: 3x8 @65lb"}, weeks[1].Days[0].Exercises)
}

func TestParse_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []fitplan.WorkoutWeek
	}{
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "no structure",
			text: "Just some general advice.\nStay hydrated: always.",
			want: nil,
		},
		{
			name: "day before any week is discarded",
			text: "Day 1 – Push\nBench: 3x8\nWeek 1\nDay 1 – Push\nSquat: 5x5",
			want: []fitplan.WorkoutWeek{
				{Number: 1, Days: []fitplan.WorkoutDay{{Name: "Day 1 – Push", Exercises: []string{"Squat: 5x5"}}}},
			},
		},
		{
			name: "day with no exercise lines is retained empty",
			text: "Week 1\nDay 1 – Rest\nTake it easy today",
			want: []fitplan.WorkoutWeek{
				{Number: 1, Days: []fitplan.WorkoutDay{{Name: "Day 1 – Rest"}}},
			},
		},
		{
			name: "markdown emphasis stripped",
			text: "**Week 1**\n**Day 1 – Push**\nBench Press: 3x8",
			want: []fitplan.WorkoutWeek{
				{Number: 1, Days: []fitplan.WorkoutDay{{Name: "Day 1 – Push", Exercises: []string{"Bench Press: 3x8"}}}},
			},
		},
		{
			name: "week with no days",
			text: "Week 3\nWeek 4\nDay 1\nRow: 3x10",
			want: []fitplan.WorkoutWeek{
				{Number: 3},
				{Number: 4, Days: []fitplan.WorkoutDay{{Name: "Day 1", Exercises: []string{"Row: 3x10"}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			should.Equal(t, tt.want, workout.Parse(tt.text))
		})
	}
}

func TestParse_SourceOrderPreserved(t *testing.T) {
	// Week numbers are kept in encounter order, never re-sorted.
	weeks := workout.Parse("Week 2\nDay 1\nA: 1\nWeek 1\nDay 1\nB: 2")
	must.Len(t, weeks, 2)
	should.Equal(t, 2, weeks[0].Number)
	should.Equal(t, 1, weeks[1].Number)
}

func TestParse_ReturnsMoreThanSixWeeks(t *testing.T) {
	// Dropping extra weeks is the renderer's job; the parser returns all.
	text := ""
	for i := 1; i <= 8; i++ {
		text += workout.Render([]fitplan.WorkoutWeek{{Number: i, Days: []fitplan.WorkoutDay{{Name: "Day 1", Exercises: []string{"Lift: 3x8"}}}}})
	}
	should.Len(t, workout.Parse(text), 8)
}

func TestRenderParse_RoundTrip(t *testing.T) {
	weeks := workout.Parse(sampleText)
	again := workout.Parse(workout.Render(weeks))
	should.Equal(t, weeks, again)
}

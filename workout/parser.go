// Package workout recovers a structured week/day/exercise hierarchy from the
// loosely formatted free text the completion provider returns for workout
// plans.
package workout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fitplan"
)

var (
	weekRe = regexp.MustCompile(`(?i)^week\s+(\d+)`)
	dayRe  = regexp.MustCompile(`(?i)^day\s+\d+`)
)

// Parse converts free-text plan output into ordered weeks. It never fails:
// text with no recognizable structure yields an empty slice.
//
// The scan keeps "current week" and "current day" cursors. A line starting
// with "Week N" opens a week, "Day N" opens a day under the current week,
// and any non-empty line containing a colon while a day is open is kept
// verbatim as one exercise entry. Colon presence is a deliberate heuristic:
// it separates set lines ("Bench Press: 3x8 @135lb") from narrative prose,
// and lives only behind this function so it can be swapped without touching
// the renderer.
func Parse(text string) []fitplan.WorkoutWeek {
	text = stripEmphasis(text)

	var (
		weeks   []fitplan.WorkoutWeek
		curWeek *fitplan.WorkoutWeek
		curDay  *fitplan.WorkoutDay
	)

	flushDay := func() {
		if curWeek != nil && curDay != nil {
			curWeek.Days = append(curWeek.Days, *curDay)
		}
		curDay = nil
	}
	flushWeek := func() {
		flushDay()
		if curWeek != nil {
			weeks = append(weeks, *curWeek)
		}
		curWeek = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := weekRe.FindStringSubmatch(line); m != nil {
			flushWeek()
			// The capture group is all digits, so Atoi cannot fail.
			n, _ := strconv.Atoi(m[1])
			curWeek = &fitplan.WorkoutWeek{Number: n}
			continue
		}

		if dayRe.MatchString(line) {
			if curWeek == nil {
				// A day before any week has nowhere to live.
				continue
			}
			flushDay()
			curDay = &fitplan.WorkoutDay{Name: line}
			continue
		}

		if curDay != nil && strings.Contains(line, ":") {
			curDay.Exercises = append(curDay.Exercises, line)
		}
		// Anything else is narrative; dropped.
	}

	flushWeek()
	return weeks
}

// Render writes weeks back into the canonical text form Parse understands.
// Parsing the rendered text reproduces an equivalent structure, which is
// what re-prompting and the round-trip tests rely on.
func Render(weeks []fitplan.WorkoutWeek) string {
	var b strings.Builder
	for _, w := range weeks {
		fmt.Fprintf(&b, "Week %d\n", w.Number)
		for _, d := range w.Days {
			b.WriteString(d.Name)
			b.WriteByte('\n')
			for _, ex := range d.Exercises {
				b.WriteString(ex)
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// stripEmphasis removes markdown emphasis markers so "**Week 1**" and
// "_Day 1_" still anchor the scan.
func stripEmphasis(s string) string {
	return strings.NewReplacer("**", "", "__", "", "*", "", "_", "").Replace(s)
}


package fitplan

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Completer is the external completion provider boundary. Implementations
// must be safe for concurrent use; connection pooling is owned by the
// implementation, not by callers.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// CompletionOptions carries per-call model parameters. JSONMode requests a
// strict-JSON response; Schema, when set, additionally describes the expected
// object shape for providers that support schema-constrained output.
type CompletionOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	JSONMode    bool
	Schema      *jsonschema.Schema
}

// EntitlementVerifier answers "does this payment reference grant tier X".
type EntitlementVerifier interface {
	Verify(ctx context.Context, sessionRef string) (Entitlement, error)
}

type Entitlement struct {
	Paid       bool
	Tier       Tier
	SessionRef string
	Email      string
}

type Tier string

const (
	TierBase Tier = "base"
	TierPro  Tier = "pro"
)

// MailSender is the external mail transport boundary.
type MailSender interface {
	Send(ctx context.Context, email Email) error
}

type Email struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
}

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityVeryActive ActivityLevel = "very_active"
)

type Goal string

const (
	GoalCut    Goal = "cut"
	GoalRecomp Goal = "recomp"
	GoalGain   Goal = "gain"
)

type TrainingLoad string

const (
	TrainingLight    TrainingLoad = "light"
	TrainingModerate TrainingLoad = "moderate"
	TrainingHigh     TrainingLoad = "high"
)

type BudgetLevel string

const (
	BudgetTight  BudgetLevel = "tight"
	BudgetNormal BudgetLevel = "normal"
	BudgetFlex   BudgetLevel = "flex"
)

// Profile is the validated body/activity profile a request is generated from.
// It is immutable once Validate has passed and is consumed only by the
// target calculator and prompt construction.
type Profile struct {
	Name         string        `json:"name,omitempty"`
	Sex          Sex           `json:"sex"`
	Age          int           `json:"age"`
	HeightCM     float64       `json:"height_cm"`
	WeightKG     float64       `json:"weight_kg"`
	Activity     ActivityLevel `json:"activity_level"`
	Goal         Goal          `json:"goal"`
	TrainingLoad TrainingLoad  `json:"training_load"`
	MealsPerDay  int           `json:"meals_per_day"`
	CuisinePrefs []string      `json:"cuisine_prefs,omitempty"`
	DietPrefs    []string      `json:"diet_prefs,omitempty"`
	Allergies    []string      `json:"allergies,omitempty"`
	BudgetLevel  BudgetLevel   `json:"budget_level,omitempty"`
}

// Validate checks range constraints and applies defaults (4 meals/day,
// diet_prefs {none}, budget normal). The returned profile is the one to use.
func (p Profile) Validate() (Profile, error) {
	if p.Sex != SexMale && p.Sex != SexFemale {
		return p, fmt.Errorf("invalid sex %q", p.Sex)
	}
	if p.Age < 13 || p.Age > 90 {
		return p, fmt.Errorf("age %d out of range 13-90", p.Age)
	}
	if p.HeightCM < 120 || p.HeightCM > 230 {
		return p, fmt.Errorf("height %.1f out of range 120-230", p.HeightCM)
	}
	if p.WeightKG < 35 || p.WeightKG > 250 {
		return p, fmt.Errorf("weight %.1f out of range 35-250", p.WeightKG)
	}
	switch p.Activity {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityVeryActive:
	default:
		return p, fmt.Errorf("invalid activity level %q", p.Activity)
	}
	switch p.Goal {
	case GoalCut, GoalRecomp, GoalGain:
	default:
		return p, fmt.Errorf("invalid goal %q", p.Goal)
	}
	switch p.TrainingLoad {
	case TrainingLight, TrainingModerate, TrainingHigh:
	default:
		return p, fmt.Errorf("invalid training load %q", p.TrainingLoad)
	}
	if p.MealsPerDay == 0 {
		p.MealsPerDay = 4
	}
	if p.MealsPerDay < 3 || p.MealsPerDay > 6 {
		return p, fmt.Errorf("meals_per_day %d out of range 3-6", p.MealsPerDay)
	}
	if len(p.DietPrefs) == 0 {
		p.DietPrefs = []string{"none"}
	}
	if p.BudgetLevel == "" {
		p.BudgetLevel = BudgetNormal
	}
	return p, nil
}

// MacroTargets are the daily calorie and macro goals derived from a Profile.
// Purely computed, never persisted; recomputed per request.
type MacroTargets struct {
	Kcal        int `json:"kcal"`
	ProteinG    int `json:"protein_g"`
	CarbsG      int `json:"carbs_g"`
	FatG        int `json:"fat_g"`
	FiberG      int `json:"fiber_g"`
	SodiumMGCap int `json:"sodium_mg_cap"`
}

// WorkoutWeek is one parsed training week. Weeks appear in source order;
// the renderer consumes at most the first six.
type WorkoutWeek struct {
	Number int          `json:"number"`
	Days   []WorkoutDay `json:"days"`
}

// WorkoutDay holds the verbatim exercise lines recognized for one day.
// A day with no recognized exercises is retained and renders without bullets.
type WorkoutDay struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

// Document is the renderable artifact handed to the PDF renderer: either or
// both of a parsed workout plan and a repaired nutrition plan.
type Document struct {
	Subject   string
	Goal      string
	Workout   []WorkoutWeek
	Nutrition *NutritionPlan
}

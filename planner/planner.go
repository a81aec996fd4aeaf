// Package planner orchestrates a purchase-to-delivery run: verify the
// purchase, compute targets, generate and repair both plans, then render and
// deliver the PDF. It owns sequencing and refusal policy; all heavy lifting
// lives in the leaf packages.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fitplan"
	"fitplan/macros"
	"fitplan/nutrition"
	"fitplan/render"
	"fitplan/workout"
)

// Request is one plan-generation order.
type Request struct {
	SessionRef string
	Profile    fitplan.Profile
	// Email overrides the address captured at checkout when set.
	Email string
}

type Planner struct {
	completer fitplan.Completer
	verifier  fitplan.EntitlementVerifier
	mailer    fitplan.MailSender
	renderer  *render.Renderer
	engine    *nutrition.Engine
	audit     fitplan.AuditLogger
	cfg       fitplan.ModelConfig
}

func New(completer fitplan.Completer, verifier fitplan.EntitlementVerifier, mailer fitplan.MailSender, renderer *render.Renderer, audit fitplan.AuditLogger, cfg fitplan.ModelConfig) *Planner {
	repairModel := cfg.RepairModel
	if repairModel == "" {
		repairModel = cfg.ModelID
	}
	engine := nutrition.NewEngine(completer, fitplan.CompletionOptions{
		Model:       repairModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	return &Planner{
		completer: completer,
		verifier:  verifier,
		mailer:    mailer,
		renderer:  renderer,
		engine:    engine,
		audit:     audit,
		cfg:       cfg,
	}
}

// Generate runs entitlement verification and plan generation. The base tier
// gets a workout plan; the pro tier additionally gets a full nutrition plan.
// No model call happens before the purchase is confirmed.
func (p *Planner) Generate(ctx context.Context, req Request) (*fitplan.Document, fitplan.Entitlement, error) {
	slog.Info("PLANNER: Starting run", "session_ref", req.SessionRef)

	ent, err := p.verifier.Verify(ctx, req.SessionRef)
	if err != nil {
		return nil, fitplan.Entitlement{}, err
	}
	if !ent.Paid {
		return nil, fitplan.Entitlement{}, fitplan.NewEntitlementError(fmt.Sprintf("session %s is not paid", req.SessionRef))
	}

	profile, err := req.Profile.Validate()
	if err != nil {
		return nil, ent, fmt.Errorf("invalid profile: %w", err)
	}

	targets := macros.ComputeTargets(profile)
	slog.Info("PLANNER: Targets computed",
		"kcal", targets.Kcal,
		"protein_g", targets.ProteinG,
		"carbs_g", targets.CarbsG,
		"fat_g", targets.FatG,
	)

	doc := &fitplan.Document{
		Subject: subjectFor(profile),
		Goal:    string(profile.Goal),
	}

	weeks, err := p.generateWorkout(ctx, profile)
	if err != nil {
		return nil, ent, err
	}
	doc.Workout = weeks

	if ent.Tier == fitplan.TierPro {
		plan, err := p.generateNutrition(ctx, profile, targets)
		if err != nil {
			return nil, ent, err
		}
		doc.Nutrition = plan
	}

	slog.Info("PLANNER: Run complete",
		"weeks", len(doc.Workout),
		"nutrition", doc.Nutrition != nil,
		"tier", ent.Tier,
	)
	return doc, ent, nil
}

func (p *Planner) generateWorkout(ctx context.Context, profile fitplan.Profile) ([]fitplan.WorkoutWeek, error) {
	prompt := buildWorkoutPrompt(profile)
	attempt := fitplan.AttemptLog{
		Kind:       "workout",
		Timestamp:  time.Now(),
		Model:      p.cfg.ModelID,
		PromptSize: len(prompt),
	}

	text, err := p.completer.Complete(ctx, prompt, fitplan.CompletionOptions{
		Model:       p.cfg.ModelID,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		attempt.Error = err.Error()
		p.logAttempt(attempt)
		return nil, fmt.Errorf("workout generation failed: %w", err)
	}
	attempt.OutputSize = len(text)

	weeks := workout.Parse(text)
	if countDays(weeks) == 0 {
		attempt.Error = "no workout structure recognized"
		p.logAttempt(attempt)
		return nil, fitplan.NewInvalidOutputError("no workout structure recognized in completion", text)
	}

	p.logAttempt(attempt)
	slog.Info("PLANNER: Workout parsed", "weeks", len(weeks), "days", countDays(weeks))
	return weeks, nil
}

// countDays guards against completions that look like a program but carry
// nothing trainable, e.g. week headings with no day blocks under them.
func countDays(weeks []fitplan.WorkoutWeek) int {
	n := 0
	for _, w := range weeks {
		n += len(w.Days)
	}
	return n
}

func (p *Planner) generateNutrition(ctx context.Context, profile fitplan.Profile, targets fitplan.MacroTargets) (*fitplan.NutritionPlan, error) {
	prompt := buildNutritionPrompt(profile, targets)
	attempt := fitplan.AttemptLog{
		Kind:       "nutrition",
		Timestamp:  time.Now(),
		Model:      p.cfg.ModelID,
		PromptSize: len(prompt),
	}

	raw, err := p.completer.Complete(ctx, prompt, fitplan.CompletionOptions{
		Model:       p.cfg.ModelID,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
		JSONMode:    true,
		Schema:      nutrition.PlanSchema(),
	})
	if err != nil {
		attempt.Error = err.Error()
		p.logAttempt(attempt)
		return nil, fmt.Errorf("nutrition generation failed: %w", err)
	}
	attempt.OutputSize = len(raw)

	plan, repairPath, err := p.engine.EnsureComplete(ctx, raw, targets, profile.MealsPerDay)
	attempt.RepairPath = repairPath
	if err != nil {
		attempt.Error = err.Error()
		p.logAttempt(attempt)
		return nil, err
	}

	p.logAttempt(attempt)
	slog.Info("PLANNER: Nutrition plan ready", "repair_path", repairPath, "days", len(plan.DayPlans))
	return plan, nil
}

// Deliver renders the document and emails it as a PDF attachment.
func (p *Planner) Deliver(ctx context.Context, doc *fitplan.Document, to string) error {
	result, err := p.renderer.Render(ctx, *doc)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	filename := render.Filename(doc.Subject)
	attempt := fitplan.AttemptLog{Kind: "delivery", Timestamp: time.Now(), OutputSize: len(result.Bytes)}

	err = p.mailer.Send(ctx, fitplan.Email{
		To:      to,
		Subject: deliverySubject(doc),
		HTML:    deliveryBody(doc),
		Attachments: []fitplan.Attachment{
			{Filename: filename, Content: result.Bytes, MIMEType: "application/pdf"},
		},
	})
	if err != nil {
		attempt.Error = err.Error()
		p.logAttempt(attempt)
		return err
	}

	p.logAttempt(attempt)
	slog.Info("PLANNER: Delivered", "to", to, "filename", filename, "pages", result.Pages)
	return nil
}

// PDF renders the document for direct download and returns the delivery
// filename alongside the bytes.
func (p *Planner) PDF(ctx context.Context, doc *fitplan.Document) (string, []byte, error) {
	result, err := p.renderer.Render(ctx, *doc)
	if err != nil {
		return "", nil, fmt.Errorf("render failed: %w", err)
	}
	return render.Filename(doc.Subject), result.Bytes, nil
}

func (p *Planner) logAttempt(attempt fitplan.AttemptLog) {
	if p.audit == nil {
		return
	}
	if err := p.audit.LogAttempt(attempt); err != nil {
		slog.Error("Failed to log attempt", "error", err, "kind", attempt.Kind)
	}
}

func subjectFor(profile fitplan.Profile) string {
	if name := strings.TrimSpace(profile.Name); name != "" {
		return name
	}
	switch profile.Goal {
	case fitplan.GoalCut:
		return "Cut"
	case fitplan.GoalGain:
		return "Gain"
	default:
		return "Recomp"
	}
}

func deliverySubject(doc *fitplan.Document) string {
	return fmt.Sprintf("Your %s plan is ready", strings.ToLower(doc.Subject))
}

func deliveryBody(doc *fitplan.Document) string {
	var b strings.Builder
	b.WriteString("<p>Your personalized plan is attached as a PDF.</p>")
	if doc.Nutrition != nil {
		b.WriteString("<p>It includes your full training program and a 7-day nutrition plan with grocery list and batch-prep guide.</p>")
	} else {
		b.WriteString("<p>It includes your full training program.</p>")
	}
	b.WriteString("<p>Train hard!</p>")
	return b.String()
}

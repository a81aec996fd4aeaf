package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"fitplan"
	"fitplan/completion/mock"
	"fitplan/completion/openai"
	"fitplan/entitlement"
	"fitplan/mail"
	"fitplan/planner"
	"fitplan/render"
	"fitplan/render/assets"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Info("SETUP: No .env file found, using process environment")
	}

	var modelConfig fitplan.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	var svcConfig fitplan.ServiceConfig
	if err := envdecode.Decode(&svcConfig); err != nil {
		log.Fatalf("Failed to decode: %s", err)
	}

	profilePath := argOr(1, "profile.json")
	sessionRef := argOr(2, "local-dev")
	recipient := argOr(3, "")

	profile, err := loadProfile(profilePath)
	if err != nil {
		slog.Error("SETUP: Failed to load profile", "error", err, "path", profilePath)
		return
	}
	slog.Info("SETUP: Profile loaded", "path", profilePath, "goal", profile.Goal)

	completer, err := newCompleter(modelConfig, svcConfig)
	if err != nil {
		slog.Error("SETUP: Failed to create completion client", "error", err)
		return
	}

	verifier := newVerifier(svcConfig)

	mailer := mail.NewClient(mail.ClientOpts{
		Endpoint:    svcConfig.MailEndpoint,
		APIKey:      svcConfig.MailAPIKey,
		From:        svcConfig.MailFrom,
		MaxAttempts: svcConfig.MailMaxAttempts,
		HTTPClient:  http.DefaultClient,
	})

	renderer := render.New(render.WithLogo(assets.NewFileSource(svcConfig.LogoPath)))

	audit, cleanup, err := newAuditLogger(modelConfig.ModelID)
	if err != nil {
		slog.Error("SETUP: Failed to create audit logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Failed to flush audit log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := fitplan.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(fitplan.TracerNamePlanner)
	ctx, span := tracer.Start(ctx, fitplan.TracerNamePlanner, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
	))
	defer span.End()

	p := planner.NewInstrumentedPlanner(
		planner.New(completer, verifier, mailer, renderer, audit, modelConfig),
		tracer,
		meterProvider.Meter(fitplan.TracerNamePlanner),
	)

	doc, ent, err := p.Generate(ctx, planner.Request{SessionRef: sessionRef, Profile: profile})
	if err != nil {
		slog.Error("RESULT: Generation failed", "error", err)
		return
	}

	if recipient == "" {
		recipient = ent.Email
	}

	if recipient != "" {
		if err := p.Deliver(ctx, doc, recipient); err != nil {
			slog.Error("RESULT: Delivery failed", "error", err)
			return
		}
		slog.Info("RESULT: Plan emailed", "to", recipient)
		return
	}

	filename, pdfBytes, err := p.PDF(ctx, doc)
	if err != nil {
		slog.Error("RESULT: Render failed", "error", err)
		return
	}
	if err := os.WriteFile(filename, pdfBytes, 0644); err != nil {
		slog.Error("RESULT: Failed to write PDF", "error", err, "filename", filename)
		return
	}
	slog.Info("RESULT: Plan written", "filename", filename, "bytes", len(pdfBytes))
}

func newCompleter(modelConfig fitplan.ModelConfig, svcConfig fitplan.ServiceConfig) (fitplan.Completer, error) {
	if modelConfig.ModelID == "mock" {
		slog.Info("SETUP: Using mock completion client")
		return mock.NewCompleter(), nil
	}
	return openai.NewClient(openai.ClientOpts{
		BaseEndpoint: svcConfig.OpenAIBaseEndpoint,
		APIKey:       svcConfig.OpenAIAPIKey,
		ModelID:      modelConfig.ModelID,
		HTTPClient:   http.DefaultClient,
	})
}

func newVerifier(svcConfig fitplan.ServiceConfig) fitplan.EntitlementVerifier {
	if svcConfig.StripeAPIKey == "" {
		slog.Info("SETUP: No Stripe key configured, granting pro tier locally")
		return entitlement.StaticVerifier{Tier: fitplan.TierPro}
	}
	return entitlement.NewStripeVerifier(svcConfig.StripeAPIKey)
}

func newAuditLogger(modelID string) (fitplan.AuditLogger, func() error, error) {
	logFilePath := fitplan.NewAuditLogFilePath(modelID)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := fitplan.NewFileAuditLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}

func loadProfile(path string) (fitplan.Profile, error) {
	var profile fitplan.Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile, nil
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

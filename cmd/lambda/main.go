package main

import (
	"context"
	"encoding/base64"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"fitplan"
	"fitplan/completion/bedrock"
	"fitplan/entitlement"
	"fitplan/mail"
	"fitplan/planner"
	"fitplan/render"
	"fitplan/render/assets"
)

type Params struct {
	SessionRef string          `json:"session_ref"`
	Profile    fitplan.Profile `json:"profile"`
	// Email, when set, overrides the address captured at checkout. When both
	// are empty the PDF comes back base64-encoded instead of being emailed.
	Email string `json:"email,omitempty"`
}

type Results struct {
	Delivered bool   `json:"delivered"`
	Filename  string `json:"filename,omitempty"`
	PDFBase64 string `json:"pdf_base64,omitempty"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig fitplan.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var svcConfig fitplan.ServiceConfig
		if err := envdecode.Decode(&svcConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			slog.Error("SETUP: Failed to load AWS config", "error", err)
			return Results{}, err
		}

		completer := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOpts{
			ModelID:     modelConfig.ModelID,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
		})

		verifier := entitlement.NewStripeVerifier(svcConfig.StripeAPIKey)

		mailer := mail.NewClient(mail.ClientOpts{
			Endpoint:    svcConfig.MailEndpoint,
			APIKey:      svcConfig.MailAPIKey,
			From:        svcConfig.MailFrom,
			MaxAttempts: svcConfig.MailMaxAttempts,
			HTTPClient:  http.DefaultClient,
		})

		renderer := render.New(renderLogoOption(awsCfg, svcConfig))

		tracerProvider, meterProvider, otelShutdown, err := fitplan.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		p := planner.NewInstrumentedPlanner(
			planner.New(completer, verifier, mailer, renderer, fitplan.NewStdoutAuditLogger(), modelConfig),
			tracerProvider.Tracer(fitplan.TracerNamePlanner),
			meterProvider.Meter(fitplan.TracerNamePlanner),
		)

		doc, ent, err := p.Generate(ctx, planner.Request{SessionRef: params.SessionRef, Profile: params.Profile})
		if err != nil {
			slog.Error("RESULT: Generation failed", "error", err)
			return Results{}, err
		}

		recipient := params.Email
		if recipient == "" {
			recipient = ent.Email
		}

		if recipient != "" {
			if err := p.Deliver(ctx, doc, recipient); err != nil {
				slog.Error("RESULT: Delivery failed", "error", err)
				return Results{}, err
			}
			return Results{Delivered: true, Filename: render.Filename(doc.Subject)}, nil
		}

		filename, pdfBytes, err := p.PDF(ctx, doc)
		if err != nil {
			slog.Error("RESULT: Render failed", "error", err)
			return Results{}, err
		}
		return Results{
			Filename:  filename,
			PDFBase64: base64.StdEncoding.EncodeToString(pdfBytes),
		}, nil
	}

	lambda.Start(fn)
}

// renderLogoOption sources the cover logo from S3 when LOGO_S3_BUCKET and
// LOGO_S3_KEY are set, falling back to the bundled file path.
func renderLogoOption(awsCfg aws.Config, svcConfig fitplan.ServiceConfig) render.Option {
	bucket := os.Getenv("LOGO_S3_BUCKET")
	key := os.Getenv("LOGO_S3_KEY")
	if bucket != "" && key != "" {
		return render.WithLogo(assets.NewS3Source(s3.NewFromConfig(awsCfg), bucket, key))
	}
	return render.WithLogo(assets.NewFileSource(svcConfig.LogoPath))
}

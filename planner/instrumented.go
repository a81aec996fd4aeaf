package planner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"fitplan"
)

// InstrumentedPlanner is an instrumented version of the Planner with
// comprehensive observability metrics.
type InstrumentedPlanner struct {
	inner  *Planner
	tracer trace.Tracer
	meter  metric.Meter
}

// NewInstrumentedPlanner initializes a new instrumented planner.
func NewInstrumentedPlanner(inner *Planner, tracer trace.Tracer, meter metric.Meter) *InstrumentedPlanner {
	return &InstrumentedPlanner{
		inner:  inner,
		tracer: tracer,
		meter:  meter,
	}
}

// Generate runs plan generation with full instrumentation.
func (p *InstrumentedPlanner) Generate(ctx context.Context, req Request) (*fitplan.Document, fitplan.Entitlement, error) {
	ctx, span := p.tracer.Start(ctx, "InstrumentedPlanner.Generate")
	defer span.End()

	runsCounter, _ := p.meter.Int64Counter("planner_runs_total",
		metric.WithDescription("Total number of plan generation runs started"))
	runsCompletedCounter, _ := p.meter.Int64Counter("planner_runs_completed_total",
		metric.WithDescription("Total number of plan generation runs completed successfully"))
	runsFailedCounter, _ := p.meter.Int64Counter("planner_runs_failed_total",
		metric.WithDescription("Total number of plan generation runs that failed"))
	entitlementRefusalsCounter, _ := p.meter.Int64Counter("entitlement_refusals_total",
		metric.WithDescription("Total number of runs refused for missing or unpaid entitlement"))
	invalidOutputCounter, _ := p.meter.Int64Counter("invalid_model_output_total",
		metric.WithDescription("Total number of runs that failed on unusable model output"))

	workoutWeeksGauge, _ := p.meter.Int64Gauge("workout_weeks_count",
		metric.WithDescription("Number of workout weeks parsed in the latest run"))
	nutritionDaysGauge, _ := p.meter.Int64Gauge("nutrition_days_count",
		metric.WithDescription("Number of nutrition days in the latest run"))

	generationDurationHist, _ := p.meter.Float64Histogram("generation_duration_seconds",
		metric.WithDescription("Total duration of plan generation in seconds"))

	runsCounter.Add(ctx, 1)
	start := time.Now()

	doc, ent, err := p.inner.Generate(ctx, req)

	generationDurationHist.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		switch {
		case errors.Is(err, fitplan.ErrEntitlement):
			entitlementRefusalsCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Entitlement refused")
		case errors.Is(err, fitplan.ErrInvalidModelOutput):
			invalidOutputCounter.Add(ctx, 1)
			span.SetStatus(codes.Error, "Invalid model output")
		default:
			span.SetStatus(codes.Error, "Generation failed")
		}
		span.RecordError(err)
		return nil, ent, err
	}

	workoutWeeksGauge.Record(ctx, int64(len(doc.Workout)))
	if doc.Nutrition != nil {
		nutritionDaysGauge.Record(ctx, int64(len(doc.Nutrition.DayPlans)))
	}
	runsCompletedCounter.Add(ctx, 1)

	span.AddEvent("Plan generated", trace.WithAttributes(
		attribute.Int("workout_weeks", len(doc.Workout)),
		attribute.Bool("nutrition_included", doc.Nutrition != nil),
		attribute.String("tier", string(ent.Tier)),
	))
	slog.Info("PLANNER: Instrumented run complete", "duration_ms", time.Since(start).Milliseconds())
	return doc, ent, nil
}

// Deliver renders and emails the document with instrumentation.
func (p *InstrumentedPlanner) Deliver(ctx context.Context, doc *fitplan.Document, to string) error {
	ctx, span := p.tracer.Start(ctx, "InstrumentedPlanner.Deliver")
	defer span.End()

	deliveriesCounter, _ := p.meter.Int64Counter("deliveries_total",
		metric.WithDescription("Total number of delivery attempts"))
	deliveriesFailedCounter, _ := p.meter.Int64Counter("deliveries_failed_total",
		metric.WithDescription("Total number of delivery attempts that failed"))
	deliveryDurationHist, _ := p.meter.Float64Histogram("delivery_duration_seconds",
		metric.WithDescription("Duration of render plus send in seconds"))

	deliveriesCounter.Add(ctx, 1)
	start := time.Now()

	err := p.inner.Deliver(ctx, doc, to)

	deliveryDurationHist.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		deliveriesFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Delivery failed")
		span.RecordError(err)
		return err
	}

	span.AddEvent("Plan delivered", trace.WithAttributes(
		attribute.String("recipient", to),
	))
	return nil
}

// PDF renders the document for direct download with instrumentation.
func (p *InstrumentedPlanner) PDF(ctx context.Context, doc *fitplan.Document) (string, []byte, error) {
	ctx, span := p.tracer.Start(ctx, "InstrumentedPlanner.PDF")
	defer span.End()

	renderDurationHist, _ := p.meter.Float64Histogram("render_duration_seconds",
		metric.WithDescription("Duration of PDF rendering in seconds"))
	pdfSizeGauge, _ := p.meter.Int64Gauge("pdf_size_bytes",
		metric.WithDescription("Size of the rendered PDF in bytes"))

	start := time.Now()
	filename, pdfBytes, err := p.inner.PDF(ctx, doc)
	renderDurationHist.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		span.SetStatus(codes.Error, "Render failed")
		span.RecordError(err)
		return "", nil, err
	}

	pdfSizeGauge.Record(ctx, int64(len(pdfBytes)))
	return filename, pdfBytes, nil
}

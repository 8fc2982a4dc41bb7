package otel

import (
	"context"
	"sync"

	buildid "github.com/hanpama/wiregraph/internal/buildid"
	eventbus "github.com/hanpama/wiregraph/internal/eventbus"
	events "github.com/hanpama/wiregraph/internal/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("wiregraph")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer       trace.Tracer
	compileSpans sync.Map // build id -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		bid, _ := buildid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "wiregraph.compile")
		span.SetAttributes(
			attribute.Int("compile.schema_files", e.SchemaFiles),
			attribute.Int("compile.operation_files", e.OperationFiles),
		)
		s.compileSpans.Store(bid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.OperationCompiled) {
		bid, _ := buildid.FromContext(ctx)
		v, ok := s.compileSpans.Load(bid)
		if !ok {
			return
		}
		v.(trace.Span).AddEvent("operation", trace.WithAttributes(
			attribute.String("graphql.operation.name", e.Name),
			attribute.String("graphql.operation.type", e.Type),
			attribute.String("identity.algorithm", e.AlgorithmVersion),
			attribute.String("identity.digest", e.Digest),
		))
	})

	eventbus.Subscribe(func(ctx context.Context, e events.ManifestResolved) {
		bid, _ := buildid.FromContext(ctx)
		v, ok := s.compileSpans.Load(bid)
		if !ok {
			return
		}
		v.(trace.Span).SetAttributes(
			attribute.String("manifest.format", e.Format),
			attribute.Int("manifest.entries", e.Entries),
		)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		bid, _ := buildid.FromContext(ctx)
		v, ok := s.compileSpans.LoadAndDelete(bid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("compile.operations", e.Operations))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}

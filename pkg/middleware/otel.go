package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/enhance"
)

const (
	defaultTracerName = "enhance"

	// SpanName is the name of the span started for each render.
	SpanName = "enhance.render"
)

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "enhance").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider.
	TracerProvider trace.TracerProvider

	// Filter determines which renders to trace. If nil, all are traced.
	Filter func(ctx context.Context, info *enhance.RenderInfo) bool

	// AttributeExtractor adds custom span attributes.
	AttributeExtractor func(ctx context.Context) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithRenderFilter sets a filter function for renders.
func WithRenderFilter(filter func(ctx context.Context, info *enhance.RenderInfo) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx context.Context) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every render.
//
// The span carries enhance.name on start and enhance.elements, enhance.styles,
// enhance.scripts and enhance.links once the render finishes. Errors are
// recorded and set the span status.
//
// Configure the global tracer provider in main() before rendering:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) enhance.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(ctx context.Context, info *enhance.RenderInfo, next func(context.Context) error) error {
		if config.Filter != nil && !config.Filter(ctx, info) {
			return next(ctx)
		}

		attrs := []attribute.KeyValue{
			attribute.String("enhance.name", info.Name),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := tracer.Start(ctx, SpanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next(spanCtx)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(
			attribute.Int("enhance.elements", info.Elements),
			attribute.Int("enhance.styles", info.Styles),
			attribute.Int("enhance.scripts", info.Scripts),
			attribute.Int("enhance.links", info.Links),
		)

		return err
	}
}

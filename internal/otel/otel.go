package otel

import (
	"context"
	"errors"
	"sync"

	eventbus "github.com/hanpama/gqlshape/internal/eventbus"
	events "github.com/hanpama/gqlshape/internal/events"
	reqid "github.com/hanpama/gqlshape/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
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

	detach := Attach(otel.Tracer("gqlshape"))
	return func(ctx context.Context) error {
		detach()
		return tp.Shutdown(ctx)
	}, nil
}

// Attach subscribes tracer to resolution events on the global bus: one span
// per document with a child span per definition. It returns a function that
// removes the subscriptions.
func Attach(tracer trace.Tracer) (detach func()) {
	s := &subscriber{tracer: tracer}
	return s.register()
}

type definitionKey struct {
	rid   string
	index int
}

type subscriber struct {
	tracer   trace.Tracer
	docSpans sync.Map // rid -> trace.Span
	defSpans sync.Map // definitionKey -> trace.Span
}

func (s *subscriber) register() func() {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.DocumentStart) {
			rid, _ := reqid.FromContext(ctx)
			_, span := s.tracer.Start(ctx, "gqlshape.document")
			span.SetAttributes(
				attribute.String("gqlshape.source", e.Source),
				attribute.Int("gqlshape.definitions", e.Definitions),
			)
			s.docSpans.Store(rid, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.DocumentFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.docSpans.LoadAndDelete(rid)
			if !ok {
				return
			}
			span := v.(trace.Span)
			recordError(span, e.Err)
			span.End()
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ResolveStart) {
			rid, _ := reqid.FromContext(ctx)
			parent := ctx
			if v, ok := s.docSpans.Load(rid); ok {
				parent = trace.ContextWithSpan(ctx, v.(trace.Span))
			}
			_, span := s.tracer.Start(parent, "gqlshape.resolve")
			span.SetAttributes(
				attribute.String("graphql.definition.name", e.Definition),
				attribute.String("graphql.definition.kind", string(e.Kind)),
			)
			s.defSpans.Store(definitionKey{rid, e.Index}, span)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.ResolveFinish) {
			rid, _ := reqid.FromContext(ctx)
			v, ok := s.defSpans.LoadAndDelete(definitionKey{rid, e.Index})
			if !ok {
				return
			}
			span := v.(trace.Span)
			span.SetAttributes(attribute.Int("gqlshape.members", e.Members))
			recordError(span, e.Err)
			span.End()
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func recordError(span trace.Span, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

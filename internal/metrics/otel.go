package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "franchise-sim"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx                context.Context
	meter              metric.Meter
	requests           metric.Int64Counter
	requestLatencyMs   metric.Float64Histogram
	games              metric.Int64Counter
	gameDurationMs     metric.Float64Histogram
	possessions        metric.Int64Counter
	overtimes          metric.Int64Counter
	substitutions      metric.Int64Counter
	evolutionPasses    metric.Int64Counter
	evolutionErrors    metric.Int64Counter
	evolutionLatencyMs metric.Float64Histogram
	evolutionEvents    metric.Int64Counter
	injuries           metric.Int64Counter
	retirements        metric.Int64Counter
	clockCycles        metric.Int64Counter
	clockErrors        metric.Int64Counter
	clockLatencyMs     metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("franchise-sim")
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}

	games, err := meter.Int64Counter("games_simulated_total")
	if err != nil {
		return nil, err
	}
	gameDuration, err := meter.Float64Histogram("game_simulation_duration_ms")
	if err != nil {
		return nil, err
	}
	possessions, err := meter.Int64Counter("possessions_total")
	if err != nil {
		return nil, err
	}
	overtimes, err := meter.Int64Counter("overtime_periods_total")
	if err != nil {
		return nil, err
	}
	substitutions, err := meter.Int64Counter("substitutions_total")
	if err != nil {
		return nil, err
	}

	evolutionPasses, err := meter.Int64Counter("evolution_passes_total")
	if err != nil {
		return nil, err
	}
	evolutionErrors, err := meter.Int64Counter("evolution_pass_errors_total")
	if err != nil {
		return nil, err
	}
	evolutionLatency, err := meter.Float64Histogram("evolution_pass_duration_ms")
	if err != nil {
		return nil, err
	}
	evolutionEvents, err := meter.Int64Counter("evolution_events_total")
	if err != nil {
		return nil, err
	}
	injuries, err := meter.Int64Counter("injuries_total")
	if err != nil {
		return nil, err
	}
	retirements, err := meter.Int64Counter("retirements_total")
	if err != nil {
		return nil, err
	}

	clockCycles, err := meter.Int64Counter("league_clock_cycles_total")
	if err != nil {
		return nil, err
	}
	clockErrors, err := meter.Int64Counter("league_clock_errors_total")
	if err != nil {
		return nil, err
	}
	clockLatency, err := meter.Float64Histogram("league_clock_cycle_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:                ctx,
		meter:              meter,
		requests:           requests,
		requestLatencyMs:   requestLatency,
		games:              games,
		gameDurationMs:     gameDuration,
		possessions:        possessions,
		overtimes:          overtimes,
		substitutions:      substitutions,
		evolutionPasses:    evolutionPasses,
		evolutionErrors:    evolutionErrors,
		evolutionLatencyMs: evolutionLatency,
		evolutionEvents:    evolutionEvents,
		injuries:           injuries,
		retirements:        retirements,
		clockCycles:        clockCycles,
		clockErrors:        clockErrors,
		clockLatencyMs:     clockLatency,
	}, nil
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordGame(duration time.Duration, possessions, overtimes int) {
	if o == nil {
		return
	}
	o.recordCounter(o.games, 1)
	o.recordHistogram(o.gameDurationMs, float64(duration.Milliseconds()))
	o.recordCounter(o.possessions, int64(possessions))
	if overtimes > 0 {
		o.recordCounter(o.overtimes, int64(overtimes))
	}
}

func (o *otelInstruments) recordSubstitutions(count int) {
	if o == nil {
		return
	}
	o.recordCounter(o.substitutions, int64(count))
}

func (o *otelInstruments) recordEvolutionPass(pass string, duration time.Duration, outcome EvolutionOutcome) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrPass, pass)}
	o.recordCounter(o.evolutionPasses, 1, attrs...)
	o.recordHistogram(o.evolutionLatencyMs, float64(duration.Milliseconds()), attrs...)
	if outcome.Err != nil {
		o.recordCounter(o.evolutionErrors, 1, attrs...)
	}
	if outcome.Events > 0 {
		o.recordCounter(o.evolutionEvents, int64(outcome.Events), attrs...)
	}
	if outcome.Injuries > 0 {
		o.recordCounter(o.injuries, int64(outcome.Injuries), attrs...)
	}
	if outcome.Retirements > 0 {
		o.recordCounter(o.retirements, int64(outcome.Retirements), attrs...)
	}
}

func (o *otelInstruments) recordClockCycle(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.clockCycles, 1)
	o.recordHistogram(o.clockLatencyMs, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.clockErrors, 1)
	}
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}

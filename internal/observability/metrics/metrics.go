package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	companiesCreated metric.Int64Counter
	companiesDeleted metric.Int64Counter
	invoicesCreated  metric.Int64Counter
	invoicesDeleted  metric.Int64Counter
	rateLimitDenied  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "biztime"
	}
	meter := provider.Meter(name)

	companiesCreated, err := meter.Int64Counter("biztime_companies_created_total")
	if err != nil {
		return nil, err
	}
	companiesDeleted, err := meter.Int64Counter("biztime_companies_deleted_total")
	if err != nil {
		return nil, err
	}
	invoicesCreated, err := meter.Int64Counter("biztime_invoices_created_total")
	if err != nil {
		return nil, err
	}
	invoicesDeleted, err := meter.Int64Counter("biztime_invoices_deleted_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("biztime_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		companiesCreated: companiesCreated,
		companiesDeleted: companiesDeleted,
		invoicesCreated:  invoicesCreated,
		invoicesDeleted:  invoicesDeleted,
		rateLimitDenied:  rateLimitDenied,
	}, nil
}

func (m *Metrics) RecordCompanyCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.companiesCreated.Add(ctx, 1)
}

func (m *Metrics) RecordCompanyDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.companiesDeleted.Add(ctx, 1)
}

func (m *Metrics) RecordInvoiceCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesCreated.Add(ctx, 1)
}

func (m *Metrics) RecordInvoiceDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesDeleted.Add(ctx, 1)
}

// RecordRateLimitDenied increments rate limit deny counts.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint)))
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"method":      {},
	"status_code": {},
	"reason":      {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

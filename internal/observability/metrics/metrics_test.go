package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("endpoint", "/companies"),
		attribute.String("company_code", "apple"),
		attribute.Int("status_code", 201),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("endpoint"), attrs[0].Key)
	assert.Equal(t, attribute.Key("status_code"), attrs[1].Key)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCompanyCreated(context.Background())
		m.RecordInvoiceCreated(context.Background())
		m.RecordRateLimitDenied(context.Background(), "/invoices")
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordCompanyDeleted(context.Background())
		m.RecordInvoiceDeleted(context.Background())
	})
}

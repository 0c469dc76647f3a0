package observability

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsSink snapshots OTel instruments through a private Prometheus
// registry, for runs too short to be scraped.
type MetricsSink struct {
	registry *prometheus.Registry
}

func newMetricsSink() (*MetricsSink, sdkmetric.Reader, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &MetricsSink{registry: registry}, exporter, nil
}

// WriteText gathers every metric and writes it in the Prometheus text
// exposition format.
func (s *MetricsSink) WriteText(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, mf := range families {
		if err = enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

// WriteFile writes the text snapshot to path, replacing it.
func (s *MetricsSink) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return s.WriteText(f)
}

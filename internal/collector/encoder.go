package collector

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Cumulative cost gauge identity
const (
	MetricName = "azure_30day_cumulative_cost_usd"
	MetricHelp = "Azure cumulative cost over last 30 days in USD"
)

var textFormat = expfmt.NewFormat(expfmt.TypeTextPlain)

// ContentType is the Content-Type of the encoded exposition
func ContentType() string {
	return string(textFormat)
}

// NewCumulativeCostGauge creates an unregistered cumulative cost gauge
func NewCumulativeCostGauge() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricName,
		Help: MetricHelp,
	})
}

// Gather builds a throwaway registry for res and gathers it. The gauge is
// only registered for a successful result, so an empty result gathers no
// families at all.
func Gather(res Result) ([]*dto.MetricFamily, error) {
	if res.Outcome == OutcomeFailure {
		return nil, fmt.Errorf("cannot encode a failed scrape: %w", res.Err)
	}

	registry := prometheus.NewRegistry()
	if res.Outcome == OutcomeSuccess {
		gauge := NewCumulativeCostGauge()
		if err := registry.Register(gauge); err != nil {
			return nil, fmt.Errorf("failed to register gauge: %w", err)
		}
		gauge.Set(res.Value())
	}

	return registry.Gather()
}

// Encode writes res in the Prometheus text exposition format. An empty
// result produces the HELP and TYPE lines without a sample.
func Encode(w io.Writer, res Result) error {
	families, err := Gather(res)
	if err != nil {
		return err
	}

	// expfmt rejects families without samples, so the header is written directly
	if res.Outcome == OutcomeEmpty {
		_, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n", MetricName, MetricHelp, MetricName)
		return err
	}

	enc := expfmt.NewEncoder(w, textFormat)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"strconv"

	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/agrikit/pkg/observability"
)

// printMetrics renders every collected counter and gauge as a table.
// Histograms are summarized by sample count and sum.
func printMetrics(w io.Writer, p *observability.Prometheus) error {
	families, err := p.Gatherer().Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var rows [][]string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			rows = append(rows, []string{mf.GetName(), labelString(m.GetLabel()), metricValue(mf.GetType(), m)})
		}
	}
	if len(rows) == 0 {
		printInfo("No metrics recorded")
		return nil
	}
	fmt.Fprintln(w, renderTable([]string{"Metric", "Labels", "Value"}, rows))
	return nil
}

func labelString(labels []*dto.LabelPair) string {
	s := ""
	for i, l := range labels {
		if i > 0 {
			s += ","
		}
		s += l.GetName() + "=" + l.GetValue()
	}
	return s
}

func metricValue(t dto.MetricType, m *dto.Metric) string {
	format := func(f float64) string { return strconv.FormatFloat(f, 'g', 6, 64) }
	switch t {
	case dto.MetricType_COUNTER:
		return format(m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return format(m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("n=%d sum=%s", h.GetSampleCount(), format(h.GetSampleSum()))
	default:
		return "-"
	}
}

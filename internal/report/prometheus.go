package report

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// WritePrometheusTextfile writes the measurements of result in the Prometheus
// text format, for node_exporter's textfile collector.
func WritePrometheusTextfile(filename string, result Result) error {
	registry := prometheus.NewRegistry()

	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "duration_seconds",
		Help:      "Time spent appending and finalizing one input size.",
	}, []string{"strategy", "size"})

	resultLength := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "result_length_bytes",
		Help:      "Length of the finalized string.",
	}, []string{"strategy", "size"})

	maxRSS := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "builderbench",
		Name:      "max_rss_bytes",
		Help:      "Peak resident set size of the benchmark process after the measurement.",
	}, []string{"strategy", "size"})

	registry.MustRegister(duration, resultLength, maxRSS)

	for _, round := range result.Rounds {
		for _, m := range round.Measurements {
			labels := prometheus.Labels{
				"strategy": m.Strategy,
				"size":     strconv.Itoa(m.Size),
			}
			duration.With(labels).Set(m.Duration.Seconds())
			resultLength.With(labels).Set(float64(m.ResultLength))
			if m.MaxRSSBytes > 0 {
				maxRSS.With(labels).Set(float64(m.MaxRSSBytes))
			}
		}
	}

	return prometheus.WriteToTextfile(filename, registry)
}

package label

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the counters of the labeling runs of a Server.
type Metrics struct {
	blocks        prometheus.Counter
	candidates    prometheus.Counter
	votes         *prometheus.CounterVec
	blockDuration prometheus.Histogram
}

// NewMetrics creates the labeling metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		blocks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rwe",
				Subsystem: "label",
				Name:      "blocks_total",
				Help:      "The total number of labeled blocks.",
			},
		),
		candidates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rwe",
				Subsystem: "label",
				Name:      "candidates_total",
				Help:      "The total number of labeled candidates.",
			},
		),
		votes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rwe",
				Subsystem: "label",
				Name:      "votes_total",
				Help:      "The total number of non abstain votes.",
			},
			[]string{"lf", "vote"},
		),
		blockDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "rwe",
				Subsystem: "label",
				Name:      "block_duration_seconds",
				Help:      "Time taken to label a block.",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
	}

	reg.MustRegister(m.blocks, m.candidates, m.votes, m.blockDuration)
	return m
}

func (m *Metrics) observeBlock(names []string, block *Matrix, seconds float64) {
	if m == nil {
		return
	}

	m.blocks.Inc()
	m.candidates.Add(float64(block.rows))
	m.blockDuration.Observe(seconds)

	for k, j := range block.indices {
		vote := "accept"
		if block.data[k] < 0 {
			vote = "reject"
		}
		m.votes.WithLabelValues(names[j], vote).Inc()
	}
}

// Package metrics exposes the load equalizer's per-frame numbers as
// Prometheus instruments. This is supplemental observability, not part
// of the core scheduler (spec.md's Non-goals exclude the statistics
// transport itself, but carrying Prometheus metrics for the scheduler's
// own outputs is ambient-stack territory, not a Non-goal).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder wraps the Prometheus instruments a LoadEqualizer reports
// through. A nil *Recorder is safe to call methods on — every method
// no-ops — so wiring it in is optional.
type Recorder struct {
	targetTime   *prometheus.GaugeVec
	measuredTime *prometheus.GaugeVec
	splits       prometheus.Counter
	historySize  prometheus.Gauge
}

// NewRecorder creates a Recorder and registers its instruments against
// reg. Pass prometheus.DefaultRegisterer for process-global metrics, or
// a fresh *prometheus.Registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		targetTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "loadeq_leaf_target_time_ms",
			Help: "Per-leaf target render time for the most recent frame split.",
		}, []string{"channel"}),
		measuredTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "loadeq_leaf_measured_time_ms",
			Help: "Per-leaf measured render time from the most recently ingested statistics.",
		}, []string{"channel"}),
		splits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loadeq_frame_split_total",
			Help: "Number of frame splits computed.",
		}),
		historySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loadeq_history_records",
			Help: "Number of Frame History records currently retained.",
		}),
	}
	reg.MustRegister(r.targetTime, r.measuredTime, r.splits, r.historySize)
	return r
}

// ObserveTarget records channel's target render time for the frame just
// split.
func (r *Recorder) ObserveTarget(channel string, ms float64) {
	if r == nil {
		return
	}
	r.targetTime.WithLabelValues(channel).Set(ms)
}

// ObserveMeasured records channel's measured render time from an
// ingested statistics batch.
func (r *Recorder) ObserveMeasured(channel string, ms float64) {
	if r == nil {
		return
	}
	r.measuredTime.WithLabelValues(channel).Set(ms)
}

// IncSplits increments the frame-split counter.
func (r *Recorder) IncSplits() {
	if r == nil {
		return
	}
	r.splits.Inc()
}

// SetHistorySize reports the current number of retained history
// records.
func (r *Recorder) SetHistorySize(n int) {
	if r == nil {
		return
	}
	r.historySize.Set(float64(n))
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/umalmyha/insurance-crm/internal/model"
)

// Metrics is set of application collectors
type Metrics struct {
	RemindersComputed   *prometheus.CounterVec
	ComputeDuration     prometheus.Histogram
	SnapshotCustomers   prometheus.Gauge
	CustomerMutations   *prometheus.CounterVec
	CustomerCacheLookup *prometheus.CounterVec
}

// New registers collectors in reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RemindersComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_reminders_computed_total",
			Help: "Total number of reminders produced, by reminder type",
		}, []string{"type"}),
		ComputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "crm_dashboard_compute_duration_seconds",
			Help:    "Duration of reminder and dashboard computation including snapshot load",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SnapshotCustomers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "crm_snapshot_customers",
			Help: "Number of customers in the latest computed snapshot",
		}),
		CustomerMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_customer_mutations_total",
			Help: "Total number of customer collection mutations, by operation",
		}, []string{"operation"}),
		CustomerCacheLookup: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_customer_cache_lookups_total",
			Help: "Total number of customer cache lookups, by result",
		}, []string{"result"}),
	}
}

// ObserveCompute records duration of computation started at start over snapshot of customers
func (m *Metrics) ObserveCompute(start time.Time, customers int) {
	m.ComputeDuration.Observe(time.Since(start).Seconds())
	m.SnapshotCustomers.Set(float64(customers))
}

// CountReminders increments reminder counters by type
func (m *Metrics) CountReminders(reminders []model.Reminder) {
	for _, r := range reminders {
		m.RemindersComputed.WithLabelValues(string(r.Type)).Inc()
	}
}

// IncrementMutation counts customer collection mutation
func (m *Metrics) IncrementMutation(operation string) {
	m.CustomerMutations.WithLabelValues(operation).Inc()
}

// IncrementCacheLookup counts customer cache hit or miss
func (m *Metrics) IncrementCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CustomerCacheLookup.WithLabelValues(result).Inc()
}

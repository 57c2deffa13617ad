package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace используется, если namespace не задан.
const DefaultNamespace = "lead_assigner"

// Prometheus - Recorder поверх client_golang.
type Prometheus struct {
	assignments     *prometheus.CounterVec
	skipped         *prometheus.CounterVec
	notifyFailures  *prometheus.CounterVec
	sweepDuration   prometheus.Histogram
	sweepAssigned   prometheus.Counter
	sweepFailed     prometheus.Counter
	sweepOverlaps   prometheus.Counter
	releasedOnShift prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus создаёт и регистрирует счётчики. reg == nil означает prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	p := &Prometheus{
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "distribution",
			Name:      "assignments_total",
			Help:      "Applications assigned to a manager by source (auto, sweep, manual).",
		}, []string{"source"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "distribution",
			Name:      "skipped_total",
			Help:      "Automatic assignment attempts that left the application unassigned, by reason.",
		}, []string{"reason"}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "failures_total",
			Help:      "Notifications that could not be delivered, by kind.",
		}, []string{"kind"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Duration of a sweep pass in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		sweepAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "assigned_total",
			Help:      "Applications assigned by the sweep.",
		}),
		sweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "failed_total",
			Help:      "Applications the sweep failed to process.",
		}),
		sweepOverlaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "overlaps_total",
			Help:      "Ticks skipped because the previous pass was still running.",
		}),
		releasedOnShift: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shift",
			Name:      "released_applications_total",
			Help:      "In-progress applications returned to the queue when a manager went off shift.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		p.assignments,
		p.skipped,
		p.notifyFailures,
		p.sweepDuration,
		p.sweepAssigned,
		p.sweepFailed,
		p.sweepOverlaps,
		p.releasedOnShift,
		p.httpRequests,
		p.httpDuration,
	)
	return p
}

// AssignmentMade увеличивает assignments_total.
func (p *Prometheus) AssignmentMade(source string) {
	p.assignments.WithLabelValues(source).Inc()
}

// AssignmentSkipped увеличивает skipped_total.
func (p *Prometheus) AssignmentSkipped(reason string) {
	p.skipped.WithLabelValues(reason).Inc()
}

// NotificationFailed увеличивает failures_total.
func (p *Prometheus) NotificationFailed(kind string) {
	p.notifyFailures.WithLabelValues(kind).Inc()
}

// SweepCompleted записывает длительность и итоги прохода.
func (p *Prometheus) SweepCompleted(d time.Duration, assigned, failed int) {
	p.sweepDuration.Observe(d.Seconds())
	p.sweepAssigned.Add(float64(assigned))
	p.sweepFailed.Add(float64(failed))
}

// SweepSkipped увеличивает overlaps_total.
func (p *Prometheus) SweepSkipped() {
	p.sweepOverlaps.Inc()
}

// ShiftReleased добавляет n к released_applications_total.
func (p *Prometheus) ShiftReleased(n int) {
	p.releasedOnShift.Add(float64(n))
}

// HTTPRequest записывает код ответа и длительность запроса.
func (p *Prometheus) HTTPRequest(route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

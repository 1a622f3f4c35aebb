package perf

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the Prometheus collectors exported on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	queryDuration   *prometheus.HistogramVec
	finesRecorded   prometheus.Counter
	finesDeleted    prometheus.Counter
	loginAttempts   *prometheus.CounterVec
}

// NewMetrics registers the application collectors plus the Go and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boetepot",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "boetepot",
			Name:      "db_query_duration_seconds",
			Help:      "Database statement latency by statement label and outcome.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"statement", "outcome"}),
		finesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boetepot",
			Name:      "fines_recorded_total",
			Help:      "Fines inserted since process start.",
		}),
		finesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boetepot",
			Name:      "fines_deleted_total",
			Help:      "Fines removed since process start, single or delete-all.",
		}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boetepot",
			Name:      "admin_login_attempts_total",
			Help:      "Admin login attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.requestDuration,
		m.queryDuration,
		m.finesRecorded,
		m.finesDeleted,
		m.loginAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(seconds)
}

// ObserveQuery records one database statement.
func (m *Metrics) ObserveQuery(label string, failed bool, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.queryDuration.WithLabelValues(label, outcome).Observe(seconds)
}

// FinesRecorded adds n newly inserted fines.
func (m *Metrics) FinesRecorded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.finesRecorded.Add(float64(n))
}

// FinesDeleted adds n removed fines.
func (m *Metrics) FinesDeleted(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.finesDeleted.Add(float64(n))
}

// LoginAttempt counts a login by result: "success" or the failure reason.
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// RouteLabel collapses numeric path segments so label cardinality stays bounded.
// "/admin/fines/42/edit" becomes "/admin/fines/:id/edit".
func RouteLabel(path string) string {
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// QueryLabel reduces a SQL statement to its verb and primary table,
// e.g. "SELECT fines" or "INSERT players".
func QueryLabel(query string) string {
	fields := strings.Fields(strings.ToUpper(query))
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	verb := fields[0]
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		if len(fields) > 1 {
			return verb + " " + strings.ToLower(fields[1])
		}
		return verb
	default:
		return verb
	}
	for i, f := range fields {
		if f == marker && i+1 < len(fields) {
			table := fields[i+1]
			if j := strings.IndexAny(table, "(),;"); j >= 0 {
				table = table[:j]
			}
			if table == "" {
				return verb
			}
			return verb + " " + strings.ToLower(table)
		}
	}
	return verb
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rawwealthy"

// Login outcomes
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginLocked  = "locked"
)

// Collector owns a private registry with the service metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	logins           *prometheus.CounterVec
	lockouts         prometheus.Counter
	registrations    prometheus.Counter
	planInvestments  prometheus.Counter
	planInvestedSum  prometheus.Counter
	resetTokenPurged prometheus.Counter
}

// NewCollector registers every metric plus the Go and process collectors
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		lockouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_lockouts_total",
			Help:      "Accounts locked after repeated failed logins",
		}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Accounts registered",
		}),
		planInvestments: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_investments_total",
			Help:      "Investments recorded against plans",
		}),
		planInvestedSum: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_invested_amount_total",
			Help:      "Sum of amounts recorded against plans",
		}),
		resetTokenPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reset_tokens_purged_total",
			Help:      "Expired password reset tokens removed by the cleanup job",
		}),
	}
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, latency time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLockout() {
	if c == nil {
		return
	}
	c.lockouts.Inc()
}

func (c *Collector) RecordRegistration() {
	if c == nil {
		return
	}
	c.registrations.Inc()
}

func (c *Collector) RecordPlanInvestment(amount float64) {
	if c == nil {
		return
	}
	c.planInvestments.Inc()
	c.planInvestedSum.Add(amount)
}

func (c *Collector) RecordResetTokensPurged(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.resetTokenPurged.Add(float64(n))
}

// Registry exposes the underlying registry, mainly for tests
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

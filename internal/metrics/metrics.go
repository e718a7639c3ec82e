package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation results used as the "result" label.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

type Metrics struct {
	reg        *prometheus.Registry
	operations *prometheus.CounterVec
	suggest    *prometheus.CounterVec
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return
		}
		panic(err)
	}
}

// New builds the collectors on a private registry so tests can create as many as they like.
func New(namespace string) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_operations_total",
			Help:      "Client record operations by kind and result",
		}, []string{"operation", "result"}),
		suggest: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggest_requests_total",
			Help:      "Calls to the suggestion service by result",
		}, []string{"result"}),
	}
	registerCollector(m.reg, m.operations)
	registerCollector(m.reg, m.suggest)
	registerCollector(m.reg, collectors.NewGoCollector())
	registerCollector(m.reg, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Operation counts one client operation. A nil *Metrics is a no-op.
func (m *Metrics) Operation(op, result string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Suggest(result string) {
	if m == nil {
		return
	}
	m.suggest.WithLabelValues(result).Inc()
}

func (m *Metrics) OperationCounter(op, result string) prometheus.Counter {
	return m.operations.WithLabelValues(op, result)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

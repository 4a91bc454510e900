package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signalrelay"

// Collector exposes relay counters to Prometheus. It satisfies core.Metrics.
type Collector struct {
	registry    *prometheus.Registry
	connections prometheus.Gauge
	rooms       prometheus.Gauge
	relayed     *prometheus.CounterVec
	dropped     *prometheus.CounterVec
}

// New registers the relay collectors plus Go runtime and process metrics
// on a private registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_open",
			Help:      "Currently registered connections.",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_active",
			Help:      "Rooms with at least one member.",
		}),
		relayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_relayed_total",
			Help:      "Signaling and chat events relayed, by kind.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_dropped_total",
			Help:      "Deliveries dropped, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(
		c.connections,
		c.rooms,
		c.relayed,
		c.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) ConnectionOpened()             { c.connections.Inc() }
func (c *Collector) ConnectionClosed()             { c.connections.Dec() }
func (c *Collector) RoomsActive(n int)             { c.rooms.Set(float64(n)) }
func (c *Collector) EventRelayed(kind string)      { c.relayed.WithLabelValues(kind).Inc() }
func (c *Collector) DeliveryDropped(reason string) { c.dropped.WithLabelValues(reason).Inc() }

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

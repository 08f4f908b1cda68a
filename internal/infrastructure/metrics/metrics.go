package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/pos-admin/internal/application/ports"
)

const namespace = "posadmin"

var _ ports.Recorder = (*Registry)(nil)

// Registry registro propio de Prometheus (no el global) con las métricas de la API.
type Registry struct {
	reg *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	documentsCreated *prometheus.CounterVec
	dashboardCache   *prometheus.CounterVec
}

// New crea y registra todas las métricas. constLabels se agregan a cada serie (env, instancia).
func New(constLabels prometheus.Labels) *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Peticiones HTTP atendidas.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Latencia de las peticiones HTTP.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		documentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "documents_created_total",
			Help:        "Documentos numerados creados por tipo.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		dashboardCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "dashboard_cache_total",
			Help:        "Consultas a la caché del resumen del dashboard.",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
	r.reg.MustRegister(
		r.httpRequests,
		r.httpDuration,
		r.documentsCreated,
		r.dashboardCache,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// DocumentCreated implementa ports.Recorder.
func (r *Registry) DocumentCreated(kind string) {
	r.documentsCreated.WithLabelValues(kind).Inc()
}

// DashboardCache implementa ports.Recorder.
func (r *Registry) DashboardCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.dashboardCache.WithLabelValues(result).Inc()
}

// Gatherer expone el registro (tests y exportación).
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler http.Handler de /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Middleware mide cada petición. La ruta es el patrón registrado (/api/invoices/:id), no la URL,
// para no crear una serie por ID.
func (r *Registry) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" || route == "/" && c.Path() != "/" {
			route = "unmatched"
		}
		method := c.Method()
		r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return err
	}
}

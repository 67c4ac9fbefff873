package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var httpHistogramBuckets = []float64{
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000,
	3000, 5000, 7500, 10000, 15000,
	30000, 60000,
}

// URLLabelMappingFn controls the cardinality of the "url" label, typically by
// returning the route template instead of the raw path.
type URLLabelMappingFn func(c *gin.Context) string

// Prometheus instruments a gin engine with request count/duration metrics and
// optionally serves /metrics on a dedicated address.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec

	listenAddress string
	urlMapping    URLLabelMappingFn
	logger        *zap.SugaredLogger
}

type NewPrometheusOptions struct {
	Subsystem               string
	ReqCntURLLabelMappingFn URLLabelMappingFn
	Logger                  *zap.SugaredLogger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		urlMapping: options.ReqCntURLLabelMappingFn,
		logger:     options.Logger,
	}
	if p.urlMapping == nil {
		p.urlMapping = func(c *gin.Context) string { return c.Request.URL.Path }
	}

	p.reqCnt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: options.Subsystem,
			Name:      "requests_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and URL.",
		},
		[]string{"code", "method", "url"},
	)
	p.reqDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: options.Subsystem,
			Name:      "request_duration_ms",
			Help:      "The HTTP request latency in milliseconds.",
			Buckets:   httpHistogramBuckets,
		},
		[]string{"code", "method", "url"},
	)
	for _, c := range []prometheus.Collector{p.reqCnt, p.reqDur} {
		if err := prometheus.Register(c); err != nil {
			if p.logger != nil {
				p.logger.Warnw("metrics_register_failed", "err", err)
			}
		}
	}
	return p
}

// SetListenAddress exposes /metrics on a separate address instead of the
// instrumented engine.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
}

// Use attaches the middleware and mounts the metrics endpoint.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress != "" {
		r := gin.New()
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
		go func() {
			if err := r.Run(p.listenAddress); err != nil && p.logger != nil {
				p.logger.Errorw("metrics_server_error", "err", err)
			}
		}()
		return
	}
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlMapping(c)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(float64(time.Since(start).Milliseconds()))
	}
}

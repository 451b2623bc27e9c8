package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PrometheusMetrics Prometheus指标收集器
// 收集SQL生成结果与HTTP请求指标
type PrometheusMetrics struct {
	// 生成指标
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	remoteFailures     *prometheus.CounterVec

	// HTTP请求指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry

	logger *zap.Logger
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Namespace      string
	Subsystem      string
	ServiceName    string
	ServiceVersion string
}

// DefaultMetricsConfig 默认指标配置
func DefaultMetricsConfig(version string) *MetricsConfig {
	return &MetricsConfig{
		Namespace:      "sqlchat",
		Subsystem:      "generator",
		ServiceName:    "sqlchat",
		ServiceVersion: version,
	}
}

// NewPrometheusMetrics 创建指标收集器，使用独立注册表
func NewPrometheusMetrics(config *MetricsConfig, logger *zap.Logger) *PrometheusMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	pm := &PrometheusMetrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	constLabels := prometheus.Labels{"service": config.ServiceName, "version": config.ServiceVersion}

	pm.generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "generations_total",
			Help:        "Total number of SQL generations by backend and result source",
			ConstLabels: constLabels,
		},
		[]string{"backend", "source"},
	)

	pm.generationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "generation_duration_seconds",
			Help:        "SQL generation duration in seconds",
			Buckets:     []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		},
		[]string{"backend"},
	)

	pm.remoteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "remote_failures_total",
			Help:        "Remote generation failures that fell back to rules",
			ConstLabels: constLabels,
		},
		[]string{"provider"},
	)

	pm.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	pm.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	pm.registry.MustRegister(
		pm.generationsTotal,
		pm.generationDuration,
		pm.remoteFailures,
		pm.httpRequestsTotal,
		pm.httpRequestDuration,
	)

	return pm
}

// RecordGeneration 记录一次生成
func (pm *PrometheusMetrics) RecordGeneration(backend, source string, duration time.Duration) {
	pm.generationsTotal.WithLabelValues(backend, source).Inc()
	pm.generationDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// RecordRemoteFailure 记录远程调用失败
func (pm *PrometheusMetrics) RecordRemoteFailure(provider string) {
	pm.remoteFailures.WithLabelValues(provider).Inc()
}

// Registry 指标注册表
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// HTTPMetricsMiddleware HTTP指标收集中间件
func (pm *PrometheusMetrics) HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		method := c.Request.Method

		pm.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		pm.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// GetMetricsHandler Prometheus指标端点
func (pm *PrometheusMetrics) GetMetricsHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

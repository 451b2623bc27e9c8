package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"sqlchat-go/internal/metrics"
	"sqlchat-go/internal/middleware"
)

// RouterConfig 路由配置结构
type RouterConfig struct {
	AIHandler     *AIHandler
	HealthHandler *HealthHandler
	Metrics       *metrics.PrometheusMetrics
	Middleware    *middleware.MiddlewareConfig
}

// SetupRoutes 配置所有API路由
func SetupRoutes(r *gin.Engine, config *RouterConfig) {
	// 指标中间件最先注册，限流与panic产生的响应也计入
	if config.Metrics != nil {
		r.Use(config.Metrics.HTTPMetricsMiddleware())
	}
	if config.Middleware != nil {
		middleware.SetupMiddleware(r, config.Middleware)
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat2sql", config.AIHandler.Chat2SQL)
		v1.GET("/tables/normalize", config.AIHandler.NormalizeTable)
		v1.GET("/version/compatible", config.AIHandler.VersionCompatible)
	}

	setupSystemRoutes(r, config)
}

// setupSystemRoutes 健康检查与监控端点
func setupSystemRoutes(r *gin.Engine, config *RouterConfig) {
	if config.HealthHandler != nil {
		r.GET("/health", config.HealthHandler.Health)
		r.GET("/version", config.HealthHandler.Version)
	}
	if config.Metrics != nil {
		r.GET("/metrics", config.Metrics.GetMetricsHandler())
	}
}

func init() {
	// 拒绝未知字段
	binding.EnableDecoderDisallowUnknownFields = true
}

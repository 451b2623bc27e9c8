package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlchat-go/internal/service"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	health service.HealthServiceInterface
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(health service.HealthServiceInterface) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health 健康检查，不健康时返回503
func (h *HealthHandler) Health(c *gin.Context) {
	result := h.health.CheckHealth(c.Request.Context())
	status := http.StatusOK
	if result.Status == service.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}

// Version 版本信息
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.health.GetVersionInfo())
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sqlchat-go/internal/config"
	"sqlchat-go/internal/generator"
)

// 规则生成器自检用例
const (
	probeQuery       = "List all employees who earn more than 5000."
	probeExpectedSQL = "SELECT * FROM employees WHERE salary > 5000;"
)

// HealthServiceInterface 健康检查服务接口
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) *HealthCheckResult
	GetVersionInfo() map[string]interface{}
}

// HealthService 健康检查服务
type HealthService struct {
	aiService *AIService
	appInfo   *config.AppInfo
	logger    *zap.Logger
}

// NewHealthService 创建健康检查服务
func NewHealthService(aiService *AIService, appInfo *config.AppInfo, logger *zap.Logger) *HealthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthService{
		aiService: aiService,
		appInfo:   appInfo,
		logger:    logger,
	}
}

// HealthStatus 健康状态枚举
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
)

// ComponentStatus 组件状态
type ComponentStatus struct {
	Status    HealthStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// HealthCheckResult 健康检查结果
type HealthCheckResult struct {
	Status      HealthStatus               `json:"status"`
	Timestamp   time.Time                  `json:"timestamp"`
	Service     string                     `json:"service"`
	Version     string                     `json:"version"`
	Environment string                     `json:"environment"`
	Components  map[string]ComponentStatus `json:"components"`
	BuildInfo   map[string]interface{}     `json:"build_info,omitempty"`
}

// CheckHealth 执行健康检查
func (h *HealthService) CheckHealth(ctx context.Context) *HealthCheckResult {
	components := map[string]ComponentStatus{
		"rules": h.checkRules(),
		"llm":   h.checkLLM(),
	}

	overallStatus := HealthStatusHealthy
	if components["rules"].Status != HealthStatusHealthy {
		overallStatus = HealthStatusUnhealthy
	}

	return &HealthCheckResult{
		Status:      overallStatus,
		Timestamp:   time.Now(),
		Service:     h.appInfo.Name,
		Version:     h.appInfo.GetVersion(),
		Environment: h.appInfo.Environment,
		Components:  components,
		BuildInfo:   h.appInfo.GetBuildInfo(),
	}
}

// checkRules 用固定用例验证规则表
func (h *HealthService) checkRules() ComponentStatus {
	got := generator.Generate(probeQuery)
	if got != probeExpectedSQL {
		h.logger.Error("rule generator self-check failed", zap.String("got", got))
		return ComponentStatus{
			Status:    HealthStatusUnhealthy,
			Message:   fmt.Sprintf("unexpected probe output: %s", got),
			Timestamp: time.Now(),
		}
	}
	return ComponentStatus{
		Status:    HealthStatusHealthy,
		Message:   fmt.Sprintf("%d rules loaded", len(generator.Rules())),
		Timestamp: time.Now(),
	}
}

// checkLLM 只报告配置状态，不发起远程调用
func (h *HealthService) checkLLM() ComponentStatus {
	if h.aiService == nil || !h.aiService.RemoteEnabled() {
		return ComponentStatus{
			Status:    HealthStatusHealthy,
			Message:   "not configured, rule-based generation only",
			Timestamp: time.Now(),
		}
	}
	return ComponentStatus{
		Status:    HealthStatusHealthy,
		Message:   "configured: " + h.aiService.Backend(),
		Timestamp: time.Now(),
	}
}

// GetVersionInfo 获取版本信息
func (h *HealthService) GetVersionInfo() map[string]interface{} {
	return h.appInfo.GetBuildInfo()
}

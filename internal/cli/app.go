package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sqlchat-go/internal/config"
	"sqlchat-go/internal/metrics"
	"sqlchat-go/internal/service"
	"sqlchat-go/internal/version"
)

// App 命令共享的运行时依赖
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.PrometheusMetrics
	AIService *service.AIService
}

type appKey struct{}

// newApp 按配置组装日志、指标与生成服务
func newApp(cfg *config.Config) (*App, error) {
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg.LogSummary(logger)

	m := metrics.NewPrometheusMetrics(metrics.DefaultMetricsConfig(version.Version), logger)
	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		AIService: service.NewAIServiceFromConfig(cfg.LLM, m, logger),
	}, nil
}

// Close 释放资源
func (a *App) Close() {
	_ = a.AIService.Close()
	_ = a.Logger.Sync()
}

func withApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// appFrom 读取PersistentPreRunE中创建的App
func appFrom(ctx context.Context) *App {
	if app, ok := ctx.Value(appKey{}).(*App); ok {
		return app
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sqlchat-go/internal/config"
	"sqlchat-go/internal/handler"
	"sqlchat-go/internal/middleware"
	"sqlchat-go/internal/service"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, appFrom(cmd.Context()))
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	return cmd
}

// newRouter 组装HTTP路由
func newRouter(app *App) *gin.Engine {
	if !app.Config.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	healthService := service.NewHealthService(app.AIService, config.DefaultAppInfo(), app.Logger)
	handler.SetupRoutes(r, &handler.RouterConfig{
		AIHandler:     handler.NewAIHandler(app.AIService, app.Config.LLM.Timeout, app.Logger),
		HealthHandler: handler.NewHealthHandler(healthService),
		Metrics:       app.Metrics,
		Middleware:    middleware.DefaultMiddlewareConfig(app.Logger),
	})
	return r
}

// runServer 启动HTTP服务，ctx取消后优雅关闭
func runServer(ctx context.Context, app *App) error {
	srv := &http.Server{
		Addr:           app.Config.Server.Addr,
		Handler:        newRouter(app),
		ReadTimeout:    app.Config.Server.ReadTimeout,
		WriteTimeout:   app.Config.Server.WriteTimeout,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("sqlchat server starting",
			zap.String("addr", srv.Addr),
			zap.String("backend", app.AIService.Backend()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	app.Logger.Info("Server gracefully stopped")
	return nil
}

// SQL生成HTTP API处理器
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sqlchat-go/internal/middleware"
	"sqlchat-go/internal/naming"
	"sqlchat-go/internal/service"
	"sqlchat-go/internal/version"
)

// DefaultRequestTimeout 单次生成的超时时间
const DefaultRequestTimeout = 30 * time.Second

// AIHandler SQL生成HTTP处理器
type AIHandler struct {
	generator service.SQLGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAIHandler 创建处理器实例
func NewAIHandler(generator service.SQLGenerator, timeout time.Duration, logger *zap.Logger) *AIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &AIHandler{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Chat2SQLRequest 请求结构
type Chat2SQLRequest struct {
	Query string `json:"query"`
}

// Chat2SQLResponse 响应结构
type Chat2SQLResponse struct {
	SQL            string `json:"sql"`
	Backend        string `json:"backend"`
	Source         string `json:"source"`
	Rule           string `json:"rule,omitempty"`
	QueryID        string `json:"query_id"`
	ProcessingTime int64  `json:"processing_time_ms"`
	Timestamp      string `json:"timestamp"`
}

// NormalizeResponse 表名规范化响应
type NormalizeResponse struct {
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
}

// CompatibilityResponse 版本兼容性响应
type CompatibilityResponse struct {
	Version    string `json:"version"`
	Current    string `json:"current"`
	Compatible bool   `json:"compatible"`
}

// Chat2SQL 将自然语言转换为SQL
// @Summary Chat2SQL
// @Accept json
// @Produce json
// @Param request body Chat2SQLRequest true "查询请求"
// @Success 200 {object} Chat2SQLResponse
// @Failure 400 {object} ErrorResponse "空查询或请求格式错误"
// @Router /api/v1/chat2sql [post]
func (h *AIHandler) Chat2SQL(c *gin.Context) {
	startTime := time.Now()
	requestID := middleware.GetRequestID(c)

	var req Chat2SQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("请求参数验证失败",
			zap.String("request_id", requestID),
			zap.Error(err))
		respondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}

	if err := service.ValidateInput(req.Query); err != nil {
		respondWithError(c, http.StatusBadRequest, CodeEmptyQuery, service.EmptyInputMessage)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	gen, err := h.generator.GenerateSQL(ctx, req.Query)
	if err != nil {
		h.logger.Error("SQL生成失败",
			zap.String("request_id", requestID),
			zap.Error(err))
		// AIService对远程超时会退回规则生成器，只有截止时间在生成前已过时才会到这里
		if errors.Is(err, context.DeadlineExceeded) {
			respondWithError(c, http.StatusGatewayTimeout, CodeTimeout, "查询处理超时，请稍后重试")
			return
		}
		respondWithError(c, http.StatusInternalServerError, CodeInternal, "SQL生成失败")
		return
	}

	queryID := uuid.NewString()
	h.logger.Info("Chat2SQL请求成功处理",
		zap.String("request_id", requestID),
		zap.String("query_id", queryID),
		zap.String("backend", gen.Backend),
		zap.String("source", gen.Source),
		zap.Duration("total_duration", time.Since(startTime)))

	c.JSON(http.StatusOK, &Chat2SQLResponse{
		SQL:            gen.SQL,
		Backend:        gen.Backend,
		Source:         gen.Source,
		Rule:           gen.Rule,
		QueryID:        queryID,
		ProcessingTime: time.Since(startTime).Milliseconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

// NormalizeTable 规范化表名
// @Router /api/v1/tables/normalize [get]
func (h *AIHandler) NormalizeTable(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		respondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "query parameter 'name' is required")
		return
	}
	c.JSON(http.StatusOK, NormalizeResponse{
		Name:       name,
		Normalized: naming.NormalizeTableName(name),
	})
}

// VersionCompatible 检查版本是否与当前主版本兼容
// @Router /api/v1/version/compatible [get]
func (h *AIHandler) VersionCompatible(c *gin.Context) {
	v, ok := c.GetQuery("version")
	if !ok {
		respondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "query parameter 'version' is required")
		return
	}
	c.JSON(http.StatusOK, CompatibilityResponse{
		Version:    v,
		Current:    version.Get(),
		Compatible: version.IsCompatible(v),
	})
}

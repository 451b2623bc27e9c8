package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// 中间件产生的错误代码
const (
	CodeInternal    = "INTERNAL_SERVER_ERROR"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorResponse 标准错误响应，中间件与处理器共用
type ErrorResponse struct {
	Error     string `json:"error" example:"Please enter a query."`
	Code      string `json:"code" example:"EMPTY_QUERY"`
	Timestamp string `json:"timestamp" example:"2024-01-08T12:00:00Z"`
	RequestID string `json:"request_id,omitempty"`
}

// AbortWithError 以标准错误体终止请求
func AbortWithError(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: GetRequestID(c),
	})
}

package handler

import (
	"github.com/gin-gonic/gin"

	"sqlchat-go/internal/middleware"
)

// 错误代码
const (
	CodeEmptyQuery     = "EMPTY_QUERY"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeTimeout        = "REQUEST_TIMEOUT"
	CodeInternal       = middleware.CodeInternal
)

// ErrorResponse 标准错误响应
type ErrorResponse = middleware.ErrorResponse

func respondWithError(c *gin.Context, statusCode int, code, message string) {
	middleware.AbortWithError(c, statusCode, code, message)
}

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader 请求ID头
const RequestIDHeader = "X-Request-ID"

// requestIDKey gin上下文中的请求ID键
const requestIDKey = "request_id"

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	Logger    *zap.Logger
	RateLimit *RateLimitConfig
	CORS      *CORSConfig
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	RequestsPerSecond float64       // 每个客户端每秒请求数，<=0 不限流
	Burst             int           // 突发请求数
	IdleTimeout       time.Duration // 空闲多久后回收客户端限流器
}

// CORSConfig CORS配置
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// DefaultMiddlewareConfig 默认中间件配置
func DefaultMiddlewareConfig(logger *zap.Logger) *MiddlewareConfig {
	return &MiddlewareConfig{
		Logger: logger,
		RateLimit: &RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			IdleTimeout:       5 * time.Minute,
		},
		CORS: &CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		},
	}
}

// SetupMiddleware 按请求处理顺序注册中间件
func SetupMiddleware(r *gin.Engine, config *MiddlewareConfig) {
	r.Use(RecoveryMiddleware(config.Logger))
	r.Use(RequestIDMiddleware())
	r.Use(StructuredLogger(config.Logger))
	r.Use(CORSMiddleware(config.CORS))
	r.Use(RateLimitMiddleware(NewRateLimiter(config.RateLimit)))
}

// RecoveryMiddleware 捕获panic并记录日志
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Request panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", GetRequestID(c)),
		)

		AbortWithError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	})
}

// StructuredLogger 结构化请求日志
func StructuredLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
			zap.Int("body_size", c.Writer.Size()),
		)
	}
}

// CORSMiddleware CORS跨域中间件
func CORSMiddleware(config *CORSConfig) gin.HandlerFunc {
	allowOrigin := strings.Join(config.AllowOrigins, ", ")
	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", allowHeaders)

		// 处理预检请求
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端限流
type RateLimiter struct {
	rate        rate.Limit
	burst       int
	idleTimeout time.Duration

	mu          sync.Mutex
	clients     map[string]*clientLimiter
	lastCleanup time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rate:        limit,
		burst:       burst,
		idleTimeout: config.IdleTimeout,
		clients:     make(map[string]*clientLimiter),
		lastCleanup: time.Now(),
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.cleanupLocked(now)

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}

// cleanupLocked 回收空闲的客户端限流器
func (rl *RateLimiter) cleanupLocked(now time.Time) {
	if rl.idleTimeout <= 0 || now.Sub(rl.lastCleanup) < rl.idleTimeout {
		return
	}
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) >= rl.idleTimeout {
			delete(rl.clients, key)
		}
	}
	rl.lastCleanup = now
}

// RateLimitMiddleware 按客户端IP限流
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow("ip:" + c.ClientIP()) {
			AbortWithError(c, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded, retry later")
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 为每个请求分配ID，已有X-Request-ID时沿用
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 读取当前请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// SQL生成服务：远程LLM可用时优先使用，否则使用本地规则生成器
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"sqlchat-go/internal/ai"
	"sqlchat-go/internal/generator"
	"sqlchat-go/internal/metrics"
)

// 生成后端
const (
	BackendRemote = "remote"
	BackendRules  = "rules"
)

// RemoteGenerator 远程生成能力，未配置时为nil
type RemoteGenerator interface {
	Generate(ctx context.Context, query string) (string, error)
	Name() string
}

// Generation 一次生成的结果
type Generation struct {
	SQL      string        `json:"sql"`
	Backend  string        `json:"backend"`
	Source   string        `json:"source"`
	Rule     string        `json:"rule,omitempty"`
	Duration time.Duration `json:"duration"`
}

// AIService SQL生成服务
type AIService struct {
	remote  RemoteGenerator
	metrics *metrics.PrometheusMetrics
	logger  *zap.Logger
}

// NewAIService 创建生成服务；remote为nil时只使用规则生成器
func NewAIService(remote RemoteGenerator, m *metrics.PrometheusMetrics, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIService{
		remote:  remote,
		metrics: m,
		logger:  logger,
	}
}

// NewAIServiceFromConfig 根据LLM配置决定是否启用远程生成
// 未配置凭证或客户端创建失败时退回规则生成器
func NewAIServiceFromConfig(llmConfig ai.LLMConfig, m *metrics.PrometheusMetrics, logger *zap.Logger) *AIService {
	if logger == nil {
		logger = zap.NewNop()
	}

	remote, err := ai.NewRemoteGeneratorFromConfig(llmConfig, logger)
	switch {
	case err == nil:
		logger.Info("remote SQL generation enabled", zap.String("backend", remote.Name()))
		return NewAIService(remote, m, logger)
	case errors.Is(err, ai.ErrNoCredentials):
		logger.Debug("no LLM credentials configured, using rule-based generator")
	default:
		logger.Warn("failed to create LLM client, using rule-based generator",
			zap.String("provider", string(llmConfig.Provider)),
			zap.Error(err))
	}
	return NewAIService(nil, m, logger)
}

// RemoteEnabled 是否启用远程生成
func (s *AIService) RemoteEnabled() bool {
	return s.remote != nil
}

// Backend 当前首选后端名称
func (s *AIService) Backend() string {
	if s.remote != nil {
		return s.remote.Name()
	}
	return BackendRules
}

// GenerateSQL 生成SQL
// 远程调用失败（包括超时）时记录并退回规则生成器，不向调用方返回错误
// 只有调用前ctx已结束才返回ctx.Err()
func (s *AIService) GenerateSQL(ctx context.Context, query string) (*Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	if s.remote != nil && strings.TrimSpace(query) != "" {
		sql, err := s.remote.Generate(ctx, query)
		if err == nil && sql != "" {
			gen := &Generation{
				SQL:      sql,
				Backend:  BackendRemote,
				Source:   BackendRemote,
				Duration: time.Since(start),
			}
			s.record(gen)
			return gen, nil
		}

		if err == nil {
			s.logger.Warn("remote generator returned empty SQL, falling back to rules",
				zap.String("backend", s.remote.Name()))
		} else {
			s.logger.Warn("remote generation failed, falling back to rules",
				zap.String("backend", s.remote.Name()),
				zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordRemoteFailure(s.remote.Name())
		}
	}

	m := generator.Explain(query)
	gen := &Generation{
		SQL:      m.SQL,
		Backend:  BackendRules,
		Source:   m.Source,
		Rule:     m.Rule,
		Duration: time.Since(start),
	}
	s.record(gen)
	return gen, nil
}

func (s *AIService) record(gen *Generation) {
	if s.metrics != nil {
		s.metrics.RecordGeneration(gen.Backend, gen.Source, gen.Duration)
	}
	s.logger.Debug("SQL generated",
		zap.String("backend", gen.Backend),
		zap.String("source", gen.Source),
		zap.String("rule", gen.Rule),
		zap.Duration("duration", gen.Duration))
}

// Close 关闭服务
func (s *AIService) Close() error {
	s.logger.Debug("AI service closed")
	return nil
}

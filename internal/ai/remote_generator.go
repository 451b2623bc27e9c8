package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RemoteGenerator 通过远程LLM生成SQL
type RemoteGenerator struct {
	model   llms.Model
	prompt  prompts.PromptTemplate
	config  LLMConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRemoteGenerator 使用已创建的模型构造生成器
func NewRemoteGenerator(model llms.Model, config LLMConfig, logger *zap.Logger) *RemoteGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = DefaultMaxTokens
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &RemoteGenerator{
		model:   model,
		prompt:  NewSQLPrompt(),
		config:  config,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// NewRemoteGeneratorFromConfig 按配置创建模型与生成器
// 未配置凭证时返回 ErrNoCredentials
func NewRemoteGeneratorFromConfig(config LLMConfig, logger *zap.Logger) (*RemoteGenerator, error) {
	model, err := NewModel(config)
	if err != nil {
		return nil, err
	}
	return NewRemoteGenerator(model, config, logger), nil
}

// Name 提供商/模型标识
func (g *RemoteGenerator) Name() string {
	return fmt.Sprintf("%s/%s", g.config.Provider, g.config.Model)
}

// Generate 生成SQL，返回去除Markdown代码块与首尾空白后的模型输出
func (g *RemoteGenerator) Generate(ctx context.Context, query string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	prompt, err := FormatSQLPrompt(g.prompt, query)
	if err != nil {
		return "", err
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithMaxTokens(g.config.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", g.Name(), err)
	}

	sql := stripMarkdownSQL(out)
	g.logger.Debug("remote generation finished",
		zap.String("provider", string(g.config.Provider)),
		zap.String("model", g.config.Model),
		zap.Int("sql_length", len(sql)))
	return sql, nil
}

// stripMarkdownSQL 去掉模型常见的```sql代码块包裹
func stripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```sql")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

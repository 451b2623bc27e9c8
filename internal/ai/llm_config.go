// LLM提供商配置管理
// 支持Cohere、OpenAI、Anthropic、Ollama
// 仅在配置了凭证时才启用远程生成

package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LLMProvider 定义LLM提供商类型
type LLMProvider string

const (
	ProviderCohere    LLMProvider = "cohere"
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
	ProviderOllama    LLMProvider = "ollama"
)

// 默认模型与生成参数
const (
	DefaultProvider  = ProviderCohere
	DefaultModel     = "command-xlarge-nightly"
	DefaultMaxTokens = 100
)

// ErrNoCredentials 未配置远程服务凭证
var ErrNoCredentials = errors.New("no LLM credentials configured")

// LLMConfig 远程生成服务配置
type LLMConfig struct {
	Provider  LLMProvider   `json:"provider" koanf:"provider"`
	APIKey    string        `json:"api_key,omitempty" koanf:"api_key"`
	Model     string        `json:"model" koanf:"model"`
	BaseURL   string        `json:"base_url,omitempty" koanf:"base_url"`
	MaxTokens int           `json:"max_tokens" koanf:"max_tokens"`
	Timeout   time.Duration `json:"timeout" koanf:"timeout"`
	RateLimit float64       `json:"rate_limit" koanf:"rate_limit"` // 每秒最大请求数，<=0 不限流
}

// DefaultLLMConfig 默认配置，未设置API密钥
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:  DefaultProvider,
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
		Timeout:   30 * time.Second,
		RateLimit: 5,
	}
}

// HasCredentials 是否可以发起远程调用
// Ollama为本地服务，配置了服务地址即视为可用
func (c LLMConfig) HasCredentials() bool {
	if c.Provider == ProviderOllama {
		return strings.TrimSpace(c.BaseURL) != ""
	}
	return strings.TrimSpace(c.APIKey) != ""
}

// Validate 验证配置
func (c LLMConfig) Validate() error {
	switch c.Provider {
	case ProviderCohere, ProviderOpenAI, ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model is required for provider %s", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// ProviderKeyEnv 提供商专属的API密钥环境变量
func ProviderKeyEnv(provider LLMProvider) string {
	switch provider {
	case ProviderCohere:
		return "COHERE_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

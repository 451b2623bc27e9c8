// LLM客户端工厂
// 基于LangChainGo的统一接口创建各提供商模型

package ai

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/cohere"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel 根据配置创建LLM实例
func NewModel(config LLMConfig) (llms.Model, error) {
	if !config.HasCredentials() {
		return nil, ErrNoCredentials
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	httpClient := newHTTPClient(config.Timeout)

	switch config.Provider {
	case ProviderCohere:
		return createCohereClient(config)
	case ProviderOpenAI:
		return createOpenAIClient(config, httpClient)
	case ProviderAnthropic:
		return createAnthropicClient(config, httpClient)
	case ProviderOllama:
		return createOllamaClient(config, httpClient)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", config.Provider)
	}
}

func createCohereClient(config LLMConfig) (llms.Model, error) {
	opts := []cohere.Option{
		cohere.WithToken(config.APIKey),
		cohere.WithModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, cohere.WithBaseURL(config.BaseURL))
	}
	return cohere.New(opts...)
}

func createOpenAIClient(config LLMConfig, httpClient *http.Client) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
		openai.WithHTTPClient(httpClient),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	return openai.New(opts...)
}

func createAnthropicClient(config LLMConfig, httpClient *http.Client) (llms.Model, error) {
	return anthropic.New(
		anthropic.WithToken(config.APIKey),
		anthropic.WithModel(config.Model),
		anthropic.WithHTTPClient(httpClient),
	)
}

func createOllamaClient(config LLMConfig, httpClient *http.Client) (llms.Model, error) {
	return ollama.New(
		ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL),
		ollama.WithHTTPClient(httpClient),
	)
}

// newHTTPClient 复用连接的HTTP客户端
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
		Timeout: timeout,
	}
}

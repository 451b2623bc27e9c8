package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlchat-go/internal/ai"
)

// clearProviderEnv 屏蔽宿主机上的真实密钥
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"COHERE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		t.Setenv(name, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ai.ProviderCohere, cfg.LLM.Provider)
	assert.Equal(t, "command-xlarge-nightly", cfg.LLM.Model)
	assert.Equal(t, 100, cfg.LLM.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.False(t, cfg.LLM.HasCredentials())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	clearProviderEnv(t)
	path := writeConfigFile(t, `
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: file-key
  timeout: 5s
server:
  addr: "127.0.0.1:9090"
log:
  level: debug
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, ai.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 100, cfg.LLM.MaxTokens) // 未设置的保留默认值
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearProviderEnv(t)
	path := writeConfigFile(t, "llm:\n  max_tokens: 50\n")
	t.Setenv("SQLCHAT_LLM__MAX_TOKENS", "200")
	t.Setenv("SQLCHAT_SERVER__ADDR", ":7070")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.LLM.MaxTokens)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_ProviderKeyFallback(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("COHERE_API_KEY", "cohere-secret")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "cohere-secret", cfg.LLM.APIKey)
	assert.True(t, cfg.LLM.HasCredentials())

	// 显式配置优先
	t.Setenv("SQLCHAT_LLM__API_KEY", "explicit")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("SQLCHAT_LOG__LEVEL", "info")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "warn", "")
	flags.String("addr", ":8080", "")
	flags.Int("max-tokens", 100, "")
	require.NoError(t, flags.Parse([]string{"--log-level=error", "--max-tokens=64"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 64, cfg.LLM.MaxTokens)
	assert.Equal(t, ":8080", cfg.Server.Addr) // 未设置的参数不覆盖
}

func TestLoad_Errors(t *testing.T) {
	clearProviderEnv(t)

	t.Run("文件不存在", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.Error(t, err)
	})

	t.Run("YAML格式错误", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "llm: [unclosed\n"), nil)
		assert.Error(t, err)
	})

	t.Run("不支持的提供商", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "llm:\n  provider: bard\n"), nil)
		assert.ErrorContains(t, err, "unsupported LLM provider")
	})

	t.Run("无效日志级别", func(t *testing.T) {
		t.Setenv("SQLCHAT_LOG__LEVEL", "loud")
		_, err := Load("", nil)
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"默认配置有效", func(*Config) {}, false},
		{"空监听地址", func(c *Config) { c.Server.Addr = " " }, true},
		{"负关闭超时", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, true},
		{"非正max_tokens", func(c *Config) { c.LLM.MaxTokens = 0 }, true},
		{"空模型", func(c *Config) { c.LLM.Model = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "llm.api_key", envKey("SQLCHAT_LLM__API_KEY"))
	assert.Equal(t, "log.level", envKey("SQLCHAT_LOG__LEVEL"))
}

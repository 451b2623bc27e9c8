// 应用配置加载
// 优先级（从高到低）：命令行参数 > 环境变量 > 配置文件 > 默认值

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"sqlchat-go/internal/ai"
)

// EnvPrefix 环境变量前缀，层级之间用双下划线分隔，如 SQLCHAT_LLM__API_KEY
const EnvPrefix = "SQLCHAT_"

// 配置文件查找顺序
var configFileNames = []string{"sqlchat.yaml", "sqlchat.yml"}

// 命令行参数到配置键的映射
var flagKeys = map[string]string{
	"provider":   "llm.provider",
	"model":      "llm.model",
	"api-key":    "llm.api_key",
	"base-url":   "llm.base_url",
	"max-tokens": "llm.max_tokens",
	"timeout":    "llm.timeout",
	"rate-limit": "llm.rate_limit",
	"addr":       "server.addr",
	"log-level":  "log.level",
	"dev":        "log.development",
}

// Config 应用配置
type Config struct {
	LLM    ai.LLMConfig `koanf:"llm"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`

	// 实际使用的配置文件，未使用时为空
	File string `koanf:"-"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		LLM: ai.DefaultLLMConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

func defaultValues() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"llm.provider":            string(d.LLM.Provider),
		"llm.model":               d.LLM.Model,
		"llm.api_key":             "",
		"llm.base_url":            "",
		"llm.max_tokens":          d.LLM.MaxTokens,
		"llm.timeout":             d.LLM.Timeout,
		"llm.rate_limit":          d.LLM.RateLimit,
		"server.addr":             d.Server.Addr,
		"server.read_timeout":     d.Server.ReadTimeout,
		"server.write_timeout":    d.Server.WriteTimeout,
		"server.shutdown_timeout": d.Server.ShutdownTimeout,
		"log.level":               d.Log.Level,
		"log.development":         d.Log.Development,
	}
}

// Load 加载配置
// cfgFile为空时在当前目录查找sqlchat.yaml；flags可以为nil
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. 默认值
	if err := k.Load(confmap.Provider(defaultValues(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. 配置文件
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. 环境变量：SQLCHAT_LLM__MAX_TOKENS -> llm.max_tokens
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. 命令行参数，只加载显式设置的
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	// 未显式配置密钥时使用提供商的标准环境变量
	if cfg.LLM.APIKey == "" {
		if name := ai.ProviderKeyEnv(cfg.LLM.Provider); name != "" {
			cfg.LLM.APIKey = os.Getenv(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config invalid: %w", err)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative, got: %v", c.Server.ShutdownTimeout)
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return nil
}

// LogSummary 记录配置信息（不包含密钥）
func (c *Config) LogSummary(logger *zap.Logger) {
	logger.Info("configuration loaded",
		zap.String("file", c.File),
		zap.String("llm_provider", string(c.LLM.Provider)),
		zap.String("llm_model", c.LLM.Model),
		zap.Bool("llm_credentials", c.LLM.HasCredentials()),
		zap.Int("llm_max_tokens", c.LLM.MaxTokens),
		zap.Duration("llm_timeout", c.LLM.Timeout),
		zap.String("server_addr", c.Server.Addr),
		zap.String("log_level", c.Log.Level),
	)
}

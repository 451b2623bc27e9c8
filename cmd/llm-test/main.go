// LLM连接验证工具
// 使用与sqlchat相同的配置，向远程服务发送一条查询并报告结果

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"sqlchat-go/internal/ai"
	"sqlchat-go/internal/config"
)

const defaultQuery = "List all employees who earn more than 5000."

func main() {
	flags := pflag.NewFlagSet("llm-test", pflag.ExitOnError)
	cfgFile := flags.String("config", "", "config file (default: ./sqlchat.yaml)")
	configOnly := flags.Bool("config-only", false, "只检查配置，不发起远程调用")
	query := flags.String("query", defaultQuery, "发送的自然语言查询")
	flags.String("provider", "", "LLM provider (cohere|openai|anthropic|ollama)")
	flags.String("model", "", "LLM model name")
	flags.String("base-url", "", "LLM endpoint override")
	flags.Duration("timeout", 0, "LLM request timeout")
	_ = flags.Parse(os.Args[1:])

	os.Exit(run(*cfgFile, flags, *configOnly, *query))
}

func run(cfgFile string, flags *pflag.FlagSet, configOnly bool, query string) int {
	fmt.Println("🔧 sqlchat LLM连接验证工具")
	fmt.Println("================================")

	if _, err := config.LoadEnvFile(".env"); err != nil {
		fmt.Printf("⚠️  .env加载警告: %v\n", err)
	}

	cfg, err := config.Load(cfgFile, flags)
	if err != nil {
		fmt.Printf("❌ 配置加载失败: %v\n", err)
		return 1
	}

	fmt.Println("✅ 配置加载成功")
	fmt.Printf("   - 提供商: %s\n", cfg.LLM.Provider)
	fmt.Printf("   - 模型: %s\n", cfg.LLM.Model)
	fmt.Printf("   - 最大tokens: %d\n", cfg.LLM.MaxTokens)
	fmt.Printf("   - 请求超时: %v\n", cfg.LLM.Timeout)
	fmt.Printf("   - 凭证: %t\n", cfg.LLM.HasCredentials())

	if configOnly {
		fmt.Println("\n✅ 配置检查完成")
		return 0
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("❌ 日志初始化失败: %v\n", err)
		return 1
	}
	defer logger.Sync()

	remote, err := ai.NewRemoteGeneratorFromConfig(cfg.LLM, logger)
	if errors.Is(err, ai.ErrNoCredentials) {
		fmt.Printf("❌ 未配置凭证，请设置 %s 或 SQLCHAT_LLM__API_KEY\n", keyHint(cfg.LLM.Provider))
		return 1
	}
	if err != nil {
		fmt.Printf("❌ 客户端创建失败: %v\n", err)
		return 1
	}

	fmt.Printf("\n🚀 调用 %s ...\n", remote.Name())
	fmt.Printf("   NL: %s\n", query)

	start := time.Now()
	sql, err := remote.Generate(context.Background(), query)
	if err != nil {
		fmt.Printf("❌ 调用失败 (%v): %v\n", time.Since(start).Round(time.Millisecond), err)
		return 1
	}

	fmt.Printf("   SQL: %s\n", sql)
	fmt.Printf("✅ 调用成功，耗时 %v\n", time.Since(start).Round(time.Millisecond))
	return 0
}

func keyHint(provider ai.LLMProvider) string {
	if name := ai.ProviderKeyEnv(provider); name != "" {
		return name
	}
	return "llm.base_url"
}

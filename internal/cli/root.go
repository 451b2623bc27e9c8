// Package cli 命令行入口
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sqlchat-go/internal/config"
	"sqlchat-go/internal/service"
	"sqlchat-go/internal/version"
)

// demoQueries 无参数启动时展示的示例
var demoQueries = []string{
	"List all employees who earn more than 5000.",
	"Get the names of customers who have made purchases in the last 30 days.",
	"Find the total revenue for this month.",
	"Count users",
	"Show all orders",
}

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		envFile string
	)

	rootCmd := &cobra.Command{
		Use:   "sqlchat [query words...]",
		Short: "Convert natural-language questions into SQL",
		Long: `sqlchat turns plain-English questions into SQL statements.

With arguments, the words are joined into one query and a single SQL line is
printed. Without arguments, a few demo conversions are shown followed by an
interactive prompt. A remote language model is used when a provider API key is
configured; otherwise a local rule-based generator answers.`,
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			if _, err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(withApp(cmd.Context(), app))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if app := appFrom(cmd.Context()); app != nil {
				app.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFrom(cmd.Context())
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				return generateLine(cmd.Context(), app.AIService, out, strings.Join(args, " "))
			}

			if err := printDemo(cmd.Context(), app.AIService, out); err != nil {
				return err
			}
			return runREPL(cmd.Context(), app.AIService, cmd.InOrStdin(), out)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./sqlchat.yaml)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file with provider API keys")
	flags.String("provider", "", "LLM provider (cohere|openai|anthropic|ollama)")
	flags.String("model", "", "LLM model name")
	flags.String("api-key", "", "LLM API key")
	flags.String("base-url", "", "LLM endpoint override")
	flags.Int("max-tokens", 0, "maximum tokens requested from the LLM")
	flags.Duration("timeout", 0, "LLM request timeout")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.Bool("dev", false, "development logging")

	_ = rootCmd.RegisterFlagCompletionFunc("provider", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"cohere", "openai", "anthropic", "ollama"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDemoCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute 运行根命令，args为nil时使用os.Args
func Execute(args ...string) error {
	cmd := NewRootCmd()
	if args != nil {
		cmd.SetArgs(args)
	}
	return cmd.ExecuteContext(context.Background())
}

// generateLine 生成并输出一行SQL
func generateLine(ctx context.Context, gen service.SQLGenerator, out io.Writer, query string) error {
	g, err := gen.GenerateSQL(ctx, query)
	if err != nil {
		return fmt.Errorf("generate sql: %w", err)
	}
	_, err = fmt.Fprintln(out, g.SQL)
	return err
}

// printDemo 输出固定示例的转换结果
func printDemo(ctx context.Context, gen service.SQLGenerator, out io.Writer) error {
	fmt.Fprintln(out, "Demo: natural language -> SQL")
	fmt.Fprintln(out, strings.Repeat("-", 36))
	for _, q := range demoQueries {
		g, err := gen.GenerateSQL(ctx, q)
		if err != nil {
			return fmt.Errorf("generate sql: %w", err)
		}
		fmt.Fprintf(out, "NL: %s\nSQL: %s\n\n", q, g.SQL)
	}
	return nil
}

// exitCode 命令失败时的退出码
func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}

// Main 供cmd入口调用，返回进程退出码
func Main(args ...string) int {
	err := Execute(args...)
	if code := exitCode(err); code != 0 {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return code
	}
	return 0
}

package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRemoteGenerator_Generate(t *testing.T) {
	model := &fakeModel{reply: "\n  SELECT * FROM users;  \n"}
	gen := NewRemoteGenerator(model, DefaultLLMConfig(), zaptest.NewLogger(t))

	sql, err := gen.Generate(context.Background(), "List all users")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users;", sql)

	// 提示词包含用户查询与示例，最多请求100个token
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Natural language query: List all users")
	assert.Contains(t, model.prompts[0], "Find the total revenue for this month.")
	assert.Equal(t, 100, model.options.MaxTokens)
}

func TestRemoteGenerator_Error(t *testing.T) {
	model := &fakeModel{err: errors.New("service unavailable")}
	gen := NewRemoteGenerator(model, DefaultLLMConfig(), zaptest.NewLogger(t))

	_, err := gen.Generate(context.Background(), "List all users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service unavailable")
	assert.Contains(t, err.Error(), "cohere/command-xlarge-nightly")
}

func TestRemoteGenerator_DefaultsApplied(t *testing.T) {
	cfg := DefaultLLMConfig()
	cfg.MaxTokens = 0
	cfg.RateLimit = 0

	model := &fakeModel{reply: "SELECT 1;"}
	gen := NewRemoteGenerator(model, cfg, nil)

	_, err := gen.Generate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, model.options.MaxTokens)
}

func TestRemoteGenerator_ContextCancelled(t *testing.T) {
	cfg := DefaultLLMConfig()
	cfg.RateLimit = 0.001 // 令牌桶只有一个令牌

	gen := NewRemoteGenerator(&fakeModel{reply: "SELECT 1;"}, cfg, zaptest.NewLogger(t))
	_, err := gen.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = gen.Generate(ctx, "second")
	assert.Error(t, err)
}

func TestNewRemoteGeneratorFromConfig_NoCredentials(t *testing.T) {
	_, err := NewRemoteGeneratorFromConfig(DefaultLLMConfig(), zaptest.NewLogger(t))
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestStripMarkdownSQL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"纯文本", "  SELECT 1;\n", "SELECT 1;"},
		{"sql代码块", "```sql\nSELECT 1;\n```", "SELECT 1;"},
		{"无语言代码块", "```\nSELECT 2;\n```", "SELECT 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownSQL(tt.input))
		})
	}
}

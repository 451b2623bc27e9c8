package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sqlchat-go/internal/ai"
	"sqlchat-go/internal/metrics"
)

// stubRemote 可控的远程生成器
type stubRemote struct {
	sql   string
	err   error
	calls []string
}

func (s *stubRemote) Generate(_ context.Context, query string) (string, error) {
	s.calls = append(s.calls, query)
	return s.sql, s.err
}

func (s *stubRemote) Name() string { return "stub/test-model" }

func newTestMetrics() *metrics.PrometheusMetrics {
	return metrics.NewPrometheusMetrics(metrics.DefaultMetricsConfig("test"), nil)
}

func TestAIService_RulesOnly(t *testing.T) {
	svc := NewAIService(nil, newTestMetrics(), zaptest.NewLogger(t))

	gen, err := svc.GenerateSQL(context.Background(), "Find the total revenue for this month.")
	require.NoError(t, err)

	assert.Equal(t, "SELECT SUM(revenue) AS total_revenue FROM sales WHERE MONTH(sale_date) = MONTH(CURRENT_DATE);", gen.SQL)
	assert.Equal(t, BackendRules, gen.Backend)
	assert.Equal(t, "rule", gen.Source)
	assert.Equal(t, "monthly_total", gen.Rule)
	assert.False(t, svc.RemoteEnabled())
	assert.Equal(t, BackendRules, svc.Backend())
}

func TestAIService_RemoteSuccess(t *testing.T) {
	remote := &stubRemote{sql: "SELECT 42;"}
	svc := NewAIService(remote, newTestMetrics(), zaptest.NewLogger(t))

	gen, err := svc.GenerateSQL(context.Background(), "what is the answer")
	require.NoError(t, err)

	assert.Equal(t, "SELECT 42;", gen.SQL)
	assert.Equal(t, BackendRemote, gen.Backend)
	assert.Equal(t, []string{"what is the answer"}, remote.calls)
	assert.Equal(t, "stub/test-model", svc.Backend())
}

func TestAIService_RemoteFailureFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		remote *stubRemote
	}{
		{"远程报错", &stubRemote{err: errors.New("quota exceeded")}},
		{"远程返回空", &stubRemote{sql: ""}},
		{"远程超时", &stubRemote{err: context.DeadlineExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMetrics()
			svc := NewAIService(tt.remote, m, zaptest.NewLogger(t))

			gen, err := svc.GenerateSQL(context.Background(), "Count users")
			require.NoError(t, err)

			assert.Equal(t, "SELECT COUNT(*) FROM users;", gen.SQL)
			assert.Equal(t, BackendRules, gen.Backend)
			assert.Len(t, tt.remote.calls, 1)

			count, err := testutil.GatherAndCount(m.Registry(), "sqlchat_generator_remote_failures_total")
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestAIService_EmptyQuerySkipsRemote(t *testing.T) {
	remote := &stubRemote{sql: "SELECT 1;"}
	svc := NewAIService(remote, nil, zaptest.NewLogger(t))

	gen, err := svc.GenerateSQL(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "", gen.SQL)
	assert.Empty(t, remote.calls)
}

func TestAIService_CancelledContext(t *testing.T) {
	svc := NewAIService(nil, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateSQL(ctx, "Count users")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAIServiceFromConfig(t *testing.T) {
	t.Run("无凭证使用规则", func(t *testing.T) {
		svc := NewAIServiceFromConfig(ai.DefaultLLMConfig(), nil, zaptest.NewLogger(t))
		assert.False(t, svc.RemoteEnabled())
	})

	t.Run("配置无效时退回规则", func(t *testing.T) {
		cfg := ai.DefaultLLMConfig()
		cfg.APIKey = "key"
		cfg.MaxTokens = -1
		svc := NewAIServiceFromConfig(cfg, nil, zaptest.NewLogger(t))
		assert.False(t, svc.RemoteEnabled())
	})

	t.Run("有凭证启用远程", func(t *testing.T) {
		cfg := ai.LLMConfig{
			Provider:  ai.ProviderOpenAI,
			APIKey:    "test-key",
			Model:     "gpt-4o-mini",
			MaxTokens: 100,
		}
		svc := NewAIServiceFromConfig(cfg, nil, zaptest.NewLogger(t))
		assert.True(t, svc.RemoteEnabled())
		assert.Equal(t, "openai/gpt-4o-mini", svc.Backend())
	})
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type failingGenerator struct{}

func (failingGenerator) GenerateSQL(context.Context, string) (*Generation, error) {
	return nil, errors.New("backend down")
}

func TestConversation_Greeting(t *testing.T) {
	conv := NewConversation(NewAIService(nil, nil, nil), zaptest.NewLogger(t))

	turns := conv.Transcript()
	require.Len(t, turns, 1)
	assert.Equal(t, "Bot: Hi! How can I assist you with SQL queries today?", turns[0].String())
}

func TestConversation_Submit(t *testing.T) {
	conv := NewConversation(NewAIService(nil, nil, nil), zaptest.NewLogger(t))

	gen, err := conv.Submit(context.Background(), "List all employees who earn more than 5000.")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM employees WHERE salary > 5000;", gen.SQL)

	turns := conv.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, "You: List all employees who earn more than 5000.", turns[1].String())
	assert.Equal(t, "Bot (Generated SQL): SELECT * FROM employees WHERE salary > 5000;", turns[2].String())
}

func TestConversation_EmptyInputRejected(t *testing.T) {
	conv := NewConversation(NewAIService(nil, nil, nil), zaptest.NewLogger(t))

	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := conv.Submit(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	// 没有追加任何记录
	assert.Len(t, conv.Transcript(), 1)
}

func TestConversation_GeneratorError(t *testing.T) {
	conv := NewConversation(failingGenerator{}, zaptest.NewLogger(t))

	_, err := conv.Submit(context.Background(), "Count users")
	require.Error(t, err)

	turns := conv.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, "Bot (Generated SQL): -- Error generating SQL: backend down", turns[2].String())
}

func TestConversation_Render(t *testing.T) {
	conv := NewConversation(NewAIService(nil, nil, nil), nil)
	_, err := conv.Submit(context.Background(), "Count users")
	require.NoError(t, err)

	want := strings.Join([]string{
		"Bot: " + Greeting,
		"You: Count users",
		"Bot (Generated SQL): SELECT COUNT(*) FROM users;",
	}, "\n\n")
	assert.Equal(t, want, conv.Render())
}

func TestConversation_ConcurrentSubmit(t *testing.T) {
	conv := NewConversation(NewAIService(nil, nil, nil), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = conv.Submit(context.Background(), "Count users")
			_ = conv.Render()
		}()
	}
	wg.Wait()

	turns := conv.Transcript()
	require.Len(t, turns, 17)
	// 每条用户输入后紧跟对应的回复
	for i := 1; i < len(turns); i += 2 {
		assert.Equal(t, SpeakerUser, turns[i].Speaker)
		assert.Equal(t, SpeakerBotSQL, turns[i+1].Speaker)
	}
}

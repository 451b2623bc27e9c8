package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 对话中展示给用户的固定文案
const (
	Greeting          = "Hi! How can I assist you with SQL queries today?"
	InputErrorTitle   = "Input Error"
	EmptyInputMessage = "Please enter a query."
)

// ErrEmptyInput 输入为空或只有空白
var ErrEmptyInput = errors.New("empty query")

// Speaker 发言方
type Speaker string

const (
	SpeakerUser   Speaker = "You"
	SpeakerBot    Speaker = "Bot"
	SpeakerBotSQL Speaker = "Bot (Generated SQL)"
)

// Turn 对话记录中的一条
type Turn struct {
	Speaker Speaker   `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

func (t Turn) String() string {
	return fmt.Sprintf("%s: %s", t.Speaker, t.Text)
}

// SQLGenerator 对话使用的生成接口
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, query string) (*Generation, error)
}

// Conversation 对话控制器
// 记录用户输入与生成结果，Transcript可在生成进行中并发读取
type Conversation struct {
	generator SQLGenerator
	logger    *zap.Logger

	submitMu sync.Mutex // 串行化提交
	mu       sync.RWMutex
	turns    []Turn
}

// NewConversation 创建对话，记录以问候语开头
func NewConversation(gen SQLGenerator, logger *zap.Logger) *Conversation {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conversation{
		generator: gen,
		logger:    logger,
	}
	c.append(SpeakerBot, Greeting)
	return c
}

// ValidateInput 拒绝空白输入
func ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	return nil
}

// Submit 提交一条用户输入并追加生成结果
func (c *Conversation) Submit(ctx context.Context, input string) (*Generation, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()

	c.append(SpeakerUser, input)

	gen, err := c.generator.GenerateSQL(ctx, input)
	if err != nil {
		c.logger.Warn("generation failed", zap.Error(err))
		c.append(SpeakerBotSQL, fmt.Sprintf("-- Error generating SQL: %v", err))
		return nil, fmt.Errorf("generate sql: %w", err)
	}

	c.append(SpeakerBotSQL, gen.SQL)
	return gen, nil
}

// Transcript 返回对话记录副本
func (c *Conversation) Transcript() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Render 以空行分隔的文本形式返回对话记录
func (c *Conversation) Render() string {
	turns := c.Transcript()
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.String())
	}
	return strings.Join(lines, "\n\n")
}

func (c *Conversation) append(speaker Speaker, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, Turn{Speaker: speaker, Text: text, At: time.Now()})
}

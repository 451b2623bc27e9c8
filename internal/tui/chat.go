// 终端聊天窗口
// 一个输入框加一个对话记录区，空输入弹出必须确认的错误对话框
package tui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sqlchat-go/internal/service"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	title         = "SQL Chat"
	helpText      = "enter: send • pgup/pgdn: scroll • esc: quit"
	busyText      = "generating..."
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 3)
	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// generatedMsg 一次提交完成
type generatedMsg struct {
	err error
}

// Model 聊天窗口状态
type Model struct {
	ctx  context.Context
	conv *service.Conversation

	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int

	busy   bool
	dialog string // 非空时显示错误对话框
}

// New 创建聊天窗口
func New(ctx context.Context, conv *service.Conversation) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the query you need..."
	ti.Prompt = "> "
	ti.CharLimit = 1000
	ti.Focus()

	vp := viewport.New(defaultWidth, defaultHeight-4)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	m := Model{
		ctx:      ctx,
		conv:     conv,
		input:    ti,
		viewport: vp,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.refresh()
	return m
}

// Init 实现tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update 实现tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case generatedMsg:
		m.busy = false
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dialog != "" {
			// 对话框关闭前忽略其它按键
			switch msg.String() {
			case "enter", "esc", " ":
				m.dialog = ""
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit 提交输入框内容，生成在后台命令中进行
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	text := m.input.Value()
	if err := service.ValidateInput(text); err != nil {
		m.dialog = service.EmptyInputMessage
		return m, nil
	}

	m.input.Reset()
	m.busy = true

	ctx, conv := m.ctx, m.conv
	return m, func() tea.Msg {
		_, err := conv.Submit(ctx, text)
		return generatedMsg{err: err}
	}
}

// refresh 重新渲染对话记录并滚动到底部
func (m *Model) refresh() {
	content := lipgloss.NewStyle().Width(m.viewport.Width).Render(m.conv.Render())
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// View 实现tea.Model
func (m Model) View() string {
	if m.dialog != "" {
		box := dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			dialogTitleStyle.Render(service.InputErrorTitle),
			"",
			m.dialog,
			"",
			helpStyle.Render("[ OK ]"),
		))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	status := helpText
	if m.busy {
		status = busyText
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(status))
	return b.String()
}

// Run 运行聊天窗口直到用户退出
func Run(ctx context.Context, conv *service.Conversation, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, conv),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

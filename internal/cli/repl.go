package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"sqlchat-go/internal/service"
)

const (
	replPrompt  = "> "
	replIntro   = "Enter natural language queries and press Enter. Empty line to exit."
	replGoodbye = "Goodbye"
)

// errInterrupted 用户按下Ctrl+C
var errInterrupted = errors.New("interrupted")

// lineReader 逐行读取输入
type lineReader interface {
	ReadLine() (string, error)
	Close() error
}

// terminalReader 交互终端使用readline，支持历史与行编辑
type terminalReader struct {
	rl *readline.Instance
}

func newTerminalReader(out io.Writer) (*terminalReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		InterruptPrompt: "^C",
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize REPL: %w", err)
	}
	return &terminalReader{rl: rl}, nil
}

func (r *terminalReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errInterrupted
	}
	return line, err
}

func (r *terminalReader) Close() error {
	return r.rl.Close()
}

// streamReader 非终端输入（管道、测试）按行读取，自行输出提示符
type streamReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newStreamReader(in io.Reader, out io.Writer) *streamReader {
	return &streamReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *streamReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, replPrompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *streamReader) Close() error { return nil }

func newLineReader(in io.Reader, out io.Writer) (lineReader, error) {
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		return newTerminalReader(out)
	}
	return newStreamReader(in, out), nil
}

// runREPL 读取一行生成一行，空行、输入结束或中断时退出
func runREPL(ctx context.Context, gen service.SQLGenerator, in io.Reader, out io.Writer) error {
	reader, err := newLineReader(in, out)
	if err != nil {
		return err
	}
	defer reader.Close()

	fmt.Fprintln(out, replIntro)
	err = replLoop(ctx, gen, reader, out)
	if errors.Is(err, io.EOF) || errors.Is(err, errInterrupted) {
		fmt.Fprintln(out)
		err = nil
	}
	fmt.Fprintln(out, replGoodbye)
	return err
}

func replLoop(ctx context.Context, gen service.SQLGenerator, reader lineReader, out io.Writer) error {
	for {
		line, err := reader.ReadLine()
		if err != nil {
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			return nil
		}
		if err := generateLine(ctx, gen, out, text); err != nil {
			return err
		}
	}
}

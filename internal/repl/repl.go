// Package repl runs the interactive read-eval-print loop of gocalc.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/chzyer/readline"

	"github.com/mattn/gocalc"
)

// LineReader is a source of input lines. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Options configures the terminal line reader.
type Options struct {
	Prompt      string
	HistoryFile string
	Stdin       io.ReadCloser
	Stdout      io.Writer
	Stderr      io.Writer
}

// NewTerminal returns a readline instance with history and completion of
// the exit keyword.
func NewTerminal(opts Options) (*readline.Instance, error) {
	completer := readline.NewPrefixCompleter(
		readline.PcItem(gocalc.ExitKeyword),
	)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            opts.Prompt,
		HistoryFile:       opts.HistoryFile,
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         gocalc.ExitKeyword,
		HistorySearchFold: true,
		Stdin:             opts.Stdin,
		Stdout:            opts.Stdout,
		Stderr:            opts.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize REPL: %w", err)
	}
	return rl, nil
}

// Run reads lines from src and hands each to calc until the exit keyword,
// end of input or cancellation of ctx. An interrupt discards the current
// line and prompts again.
func Run(ctx context.Context, src LineReader, calc *gocalc.Calculator, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lines := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Info("repl cancelled", "lines", lines)
			return nil
		}

		line, err := src.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		lines++
		more, err := calc.Line(line)
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if !more {
			break
		}
	}
	logger.Info("repl finished", "lines", lines)
	return nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mattn/gocalc"
	"github.com/mattn/gocalc/internal/config"
	"github.com/mattn/gocalc/internal/repl"
)

func newRootCmd() *cobra.Command {
	var cfgFile string
	var expr string

	cmd := &cobra.Command{
		Use:   "gocalc [file]",
		Short: "Right-associative calculator",
		Long: `gocalc evaluates whitespace separated chains of numbers and + - * /.
Operators have no precedence and group to the right: "2 * 3 + 4" is 2 * (3 + 4).

Without arguments gocalc starts an interactive prompt when stdin is a
terminal and otherwise evaluates every line read from stdin. Type 'exit'
or press Ctrl-D to quit.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			if cfg.ConfigFileUsed != "" {
				logger.Debug("using config file", "path", cfg.ConfigFileUsed)
			}

			if cmd.Flags().Changed("expr") {
				calc := gocalc.NewCalculator(cmd.OutOrStdout(), logger)
				_, err := calc.Line(expr)
				return err
			}

			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				return runBatch(cmd.OutOrStdout(), f, logger)
			}

			if f, ok := cmd.InOrStdin().(*os.File); ok && isTerminal(f) {
				return runREPL(cmd, f, cfg, logger)
			}
			return runBatch(cmd.OutOrStdout(), cmd.InOrStdin(), logger)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: ./gocalc.yaml)")
	cmd.Flags().StringVarP(&expr, "expr", "e", "", "evaluate a single expression and exit")
	cmd.Flags().String("prompt", config.DefaultPrompt, "interactive prompt")
	cmd.Flags().String("history-file", config.DefaultHistoryFile, "interactive history file (empty disables history)")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")

	_ = cmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runBatch(out io.Writer, in io.Reader, logger *slog.Logger) error {
	calc := gocalc.NewCalculator(out, logger)
	return calc.Run(in)
}

func runREPL(cmd *cobra.Command, stdin *os.File, cfg *config.Config, logger *slog.Logger) error {
	rl, err := repl.NewTerminal(repl.Options{
		Prompt:      cfg.Prompt,
		HistoryFile: cfg.HistoryFile,
		Stdin:       stdin,
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()
	if cfg.HistoryFile != "" {
		logger.Debug("using history file", "path", cfg.HistoryFile)
	}

	calc := gocalc.NewCalculator(rl.Stdout(), logger)
	return repl.Run(cmd.Context(), rl, calc, logger)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gocalc: %v\n", err)
		os.Exit(1)
	}
}

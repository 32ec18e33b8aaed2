package gocalc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ExitKeyword ends an interactive or batch session when it is the whole line.
const ExitKeyword = "exit"

const (
	msgDivisionByZero = "Error: division by zero."
	msgInvalid        = "Invalid expression"
)

// Calculator evaluates one line at a time and writes exactly one output
// line per evaluated input line.
type Calculator struct {
	out    io.Writer
	logger *slog.Logger
}

func NewCalculator(out io.Writer, logger *slog.Logger) *Calculator {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Calculator{
		out:    out,
		logger: logger,
	}
}

// Eval parses and evaluates a single line.
func (c *Calculator) Eval(line string) (float64, error) {
	tokens := Tokenize(line)
	node, err := NewParser(tokens).Parse()
	if err != nil {
		c.logger.Debug("parse failed", "tokens", tokens, "error", err)
		return 0, err
	}
	c.logger.Debug("parsed expression", "tree", node.String())
	ret, err := Eval(node)
	if err != nil {
		c.logger.Debug("eval failed", "tree", node.String(), "error", err)
		return 0, err
	}
	return ret, nil
}

// Format renders the outcome of Eval as an output line, without newline.
func Format(v float64, err error) string {
	switch {
	case err == nil:
		return "Result: " + FormatFloat(v)
	case errors.Is(err, ErrDivisionByZero):
		return msgDivisionByZero
	default:
		return msgInvalid
	}
}

// Line handles one raw input line. It reports false when the line is the
// exit keyword, in which case nothing is written.
func (c *Calculator) Line(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == ExitKeyword {
		return false, nil
	}
	v, err := c.Eval(line)
	if _, werr := fmt.Fprintln(c.out, Format(v, err)); werr != nil {
		return false, werr
	}
	return true, nil
}

// Run processes every line of r until EOF or the exit keyword.
func (c *Calculator) Run(r io.Reader) error {
	br := bufio.NewReader(r)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			n++
			more, werr := c.Line(line)
			if werr != nil {
				return werr
			}
			if !more {
				break
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read line %d: %w", n+1, err)
		}
	}
	c.logger.Debug("batch finished", "lines", n)
	return nil
}

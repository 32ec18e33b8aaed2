package gocalc

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mattn/gocalc/internal/testutil"
)

func TestCalculatorLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
		more  bool
	}{
		{input: "3 + 4", want: "Result: 7.0\n", more: true},
		{input: "10 / 2 / 5", want: "Result: 25.0\n", more: true},
		{input: "8 / 0", want: "Error: division by zero.\n", more: true},
		{input: "7", want: "Result: 7.0\n", more: true},
		{input: "2 * * 3", want: "Invalid expression\n", more: true},
		{input: "", want: "Invalid expression\n", more: true},
		{input: "exit", want: "", more: false},
		{input: "\t exit \n", want: "", more: false},
		{input: "exit now", want: "Invalid expression\n", more: true},
		{input: "EXIT", want: "Invalid expression\n", more: true},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		calc := NewCalculator(&buf, testutil.NewTestLogger(t))
		more, err := calc.Line(test.input)
		if err != nil {
			t.Errorf("%q: %v", test.input, err)
			continue
		}
		if more != test.more {
			t.Errorf("want more=%v for %q but got %v", test.more, test.input, more)
		}
		if diff := cmp.Diff(test.want, buf.String()); diff != "" {
			t.Errorf("%q (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestCalculatorIdempotent(t *testing.T) {
	calc := NewCalculator(&bytes.Buffer{}, nil)
	for _, input := range []string{"2 - 3 - 4", "5 + 0 / 0", "2 ? 3", "0.1 + 0.2"} {
		v1, err1 := calc.Eval(input)
		v2, err2 := calc.Eval(input)
		if Format(v1, err1) != Format(v2, err2) {
			t.Errorf("%q: first %q, second %q", input, Format(v1, err1), Format(v2, err2))
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    float64
		err  error
		want string
	}{
		{v: 3, want: "Result: 3.0"},
		{err: ErrDivisionByZero, want: "Error: division by zero."},
		{err: &EvalError{Op: Divide, Lhs: 1, Err: ErrDivisionByZero}, want: "Error: division by zero."},
		{err: &ParseError{Kind: InvalidNumber, Token: "x"}, want: "Invalid expression"},
		{err: errors.New("eval: nil expression"), want: "Invalid expression"},
	}
	for _, test := range tests {
		if got := Format(test.v, test.err); got != test.want {
			t.Errorf("want %q for %v but got %q", test.want, test.err, got)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestCalculatorRunWriteError(t *testing.T) {
	calc := NewCalculator(failingWriter{}, nil)
	err := calc.Run(strings.NewReader("1 + 1\n"))
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("want write error but got %v", err)
	}
}

func TestCalculatorRunLongLine(t *testing.T) {
	// well past bufio.Scanner's 64 KiB token limit
	long := "1" + strings.Repeat(" + 1", 20000)
	if len(long) <= 64*1024 {
		t.Fatalf("line too short: %d bytes", len(long))
	}
	var buf bytes.Buffer
	calc := NewCalculator(&buf, nil)
	if err := calc.Run(strings.NewReader("2 + 2\n" + long + "\n3 + 3\n")); err != nil {
		t.Fatal(err)
	}
	want := "Result: 4.0\nResult: 20001.0\nResult: 6.0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Error(diff)
	}
}

func TestCalculatorRunCRLF(t *testing.T) {
	var buf bytes.Buffer
	calc := NewCalculator(&buf, nil)
	if err := calc.Run(strings.NewReader("1 + 1\r\nexit\r\n2 + 2\r\n")); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("Result: 2.0\n", buf.String()); diff != "" {
		t.Error(diff)
	}
}

func TestCalculatorRunWithoutTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	calc := NewCalculator(&buf, nil)
	if err := calc.Run(strings.NewReader("1 + 1\n2 * 2")); err != nil {
		t.Fatal(err)
	}
	want := "Result: 2.0\nResult: 4.0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Error(diff)
	}
}

package gocalc

import (
	"errors"
	"fmt"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
)

type Operator int

const (
	Add Operator = iota
	Subtract
	Multiply
	Divide
)

type opFn func(lhs, rhs float64) (float64, error)

type opInfo struct {
	symbol string
	fn     opFn
}

var ops map[Operator]opInfo

var symbols map[string]Operator

func makeOp(symbol string, fn opFn) opInfo {
	return opInfo{symbol: symbol, fn: fn}
}

func init() {
	ops = make(map[Operator]opInfo)
	ops[Add] = makeOp("+", doAdd)
	ops[Subtract] = makeOp("-", doSubtract)
	ops[Multiply] = makeOp("*", doMultiply)
	ops[Divide] = makeOp("/", doDivide)

	symbols = make(map[string]Operator)
	for op, info := range ops {
		symbols[info.symbol] = op
	}
}

// LookupOperator returns the operator spelled by s.
func LookupOperator(s string) (Operator, bool) {
	op, ok := symbols[s]
	return op, ok
}

func (op Operator) String() string {
	if info, ok := ops[op]; ok {
		return info.symbol
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// EvalError reports a failure while reducing a tree. It matches the
// sentinel it wraps, e.g. ErrDivisionByZero.
type EvalError struct {
	Op  Operator
	Lhs float64
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%v %v: %v", FormatFloat(e.Lhs), e.Op, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func doAdd(lhs, rhs float64) (float64, error) {
	return lhs + rhs, nil
}

func doSubtract(lhs, rhs float64) (float64, error) {
	return lhs - rhs, nil
}

func doMultiply(lhs, rhs float64) (float64, error) {
	return lhs * rhs, nil
}

func doDivide(lhs, rhs float64) (float64, error) {
	if rhs == 0.0 {
		return 0, ErrDivisionByZero
	}
	return lhs / rhs, nil
}

// Eval reduces the tree to a single value. The left operand is evaluated
// before the right one and the first failure aborts the whole evaluation.
func Eval(node *Node) (float64, error) {
	if node == nil {
		return 0, errors.New("eval: nil expression")
	}
	switch node.t {
	case NodeNumber:
		return node.v, nil
	case NodeOperation:
		return call(node)
	}
	return 0, fmt.Errorf("eval: unknown node type %d", node.t)
}

func call(node *Node) (float64, error) {
	info, ok := ops[node.op]
	if !ok {
		return 0, fmt.Errorf("eval: unknown operator %v", node.op)
	}
	lhs, err := Eval(node.left)
	if err != nil {
		return 0, err
	}
	rhs, err := Eval(node.right)
	if err != nil {
		return 0, err
	}
	ret, err := info.fn(lhs, rhs)
	if err != nil {
		return 0, &EvalError{
			Op:  node.op,
			Lhs: lhs,
			Err: err,
		}
	}
	return ret, nil
}

package gocalc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidExpression = errors.New("invalid expression")
)

type NodeType int

const (
	NodeNumber NodeType = iota
	NodeOperation
)

// Node is an expression tree. A NodeNumber carries v; a NodeOperation
// carries op and owns both left and right.
type Node struct {
	t     NodeType
	v     float64
	op    Operator
	left  *Node
	right *Node
}

func NewNumber(v float64) *Node {
	return &Node{
		t: NodeNumber,
		v: v,
	}
}

func NewOperation(left *Node, op Operator, right *Node) *Node {
	return &Node{
		t:     NodeOperation,
		op:    op,
		left:  left,
		right: right,
	}
}

type ParseErrorKind int

const (
	InvalidNumber ParseErrorKind = iota
	InvalidOperator
	EmptyOperand
)

func (k ParseErrorKind) String() string {
	switch k {
	case InvalidNumber:
		return "invalid number"
	case InvalidOperator:
		return "invalid operator"
	case EmptyOperand:
		return "missing operand"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError describes why a token sequence was rejected. Every ParseError
// matches ErrInvalidExpression.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
	Pos   int
}

func (e *ParseError) Error() string {
	if e.Kind == EmptyOperand {
		return fmt.Sprintf("%v: %v at token %d", ErrInvalidExpression, e.Kind, e.Pos)
	}
	return fmt.Sprintf("%v: %v %q at token %d", ErrInvalidExpression, e.Kind, e.Token, e.Pos)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidExpression
}

// Tokenize splits a line on runs of whitespace.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

type Parser struct {
	tokens []string
	pos    int
}

func NewParser(tokens []string) *Parser {
	return &Parser{
		tokens: tokens,
	}
}

func (p *Parser) more() bool {
	return p.pos < len(p.tokens)
}

func (p *Parser) next() string {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *Parser) NewError(kind ParseErrorKind, tok string, pos int) error {
	return &ParseError{
		Kind:  kind,
		Token: tok,
		Pos:   pos,
	}
}

func (p *Parser) ParseNumber() (*Node, error) {
	if !p.more() {
		return nil, p.NewError(EmptyOperand, "", p.pos)
	}
	pos := p.pos
	tok := p.next()
	f, ok := parseNumber(tok)
	if !ok {
		return nil, p.NewError(InvalidNumber, tok, pos)
	}
	return NewNumber(f), nil
}

func (p *Parser) ParseOperator() (Operator, error) {
	pos := p.pos
	tok := p.next()
	op, ok := LookupOperator(tok)
	if !ok {
		return 0, p.NewError(InvalidOperator, tok, pos)
	}
	return op, nil
}

// ParseExpr parses a number followed by an optional operator and the
// expression made of every remaining token, so operators group to the right.
func (p *Parser) ParseExpr() (*Node, error) {
	lhs, err := p.ParseNumber()
	if err != nil {
		return nil, err
	}
	if !p.more() {
		return lhs, nil
	}
	op, err := p.ParseOperator()
	if err != nil {
		return nil, err
	}
	rhs, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return NewOperation(lhs, op, rhs), nil
}

func (p *Parser) Parse() (*Node, error) {
	return p.ParseExpr()
}

func ParseString(line string) (*Node, error) {
	return NewParser(Tokenize(line)).Parse()
}

// parseNumber accepts decimal float literals plus inf, infinity and nan.
// Literals beyond the float64 range saturate instead of failing.
func parseNumber(s string) (float64, bool) {
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 {
		return 0, false
	}
	if strings.ContainsRune(digits, '_') {
		return 0, false
	}
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	var buf bytes.Buffer
	switch n.t {
	case NodeNumber:
		fmt.Fprint(&buf, FormatFloat(n.v))
	case NodeOperation:
		fmt.Fprintf(&buf, "(%v %v %v)", n.left, n.op, n.right)
	default:
		fmt.Fprintf(&buf, "<%d>", n.t)
	}
	return buf.String()
}

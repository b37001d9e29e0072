package arith

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/selim/pkg/domain"
)

// Op is a binary operator of the grammar.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
)

// Node is a parsed expression tree node.
type Node interface {
	eval() float64
}

type number float64

func (n number) eval() float64 { return float64(n) }

type negate struct{ operand Node }

func (n negate) eval() float64 { return -n.operand.eval() }

type binary struct {
	op          Op
	left, right Node
}

func (b binary) eval() float64 {
	l, r := b.left.eval(), b.right.eval()
	switch b.op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	default:
		return l / r
	}
}

// Expr is a successfully parsed expression.
type Expr struct {
	Source   string
	root     Node
	operands int
}

// Operands returns the number of numeric literals in the expression.
func (e *Expr) Operands() int {
	return e.operands
}

// Value evaluates the expression. Division by zero, overflow and NaN yield ErrMalformedExpression.
func (e *Expr) Value() (float64, error) {
	v := e.root.eval()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q has no finite value", domain.ErrMalformedExpression, e.Source)
	}
	return v, nil
}

// Parse parses a normalized expression.
func Parse(expr string) (*Expr, error) {
	if len(expr) < MinExpressionLength {
		return nil, fmt.Errorf("%w: %q", domain.ErrEmptyExpression, expr)
	}
	p := &parser{src: expr}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return &Expr{Source: expr, root: root, operands: p.operands}, nil
}

// Evaluate parses and evaluates an already normalized expression.
func Evaluate(expr string) (float64, error) {
	e, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return e.Value()
}

type parser struct {
	src      string
	pos      int
	operands int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", domain.ErrMalformedExpression, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		c := p.peek()
		if c != '+' && c != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binary{op: Op(c), left: left, right: right}
	}
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		c := p.peek()
		if c != '*' && c != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binary{op: Op(c), left: left, right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negate{operand: operand}, nil
	}
	return p.parseNumber()
}

func (p *parser) parseNumber() (Node, error) {
	start := p.pos
	digits := 0
	for p.pos < len(p.src) && isDigit(rune(p.src[p.pos])) {
		p.pos++
		digits++
	}
	if p.peek() == '.' {
		p.pos++
		for p.pos < len(p.src) && isDigit(rune(p.src[p.pos])) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		if p.pos >= len(p.src) {
			return nil, p.errorf("missing operand")
		}
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, p.errorf("bad number %q", p.src[start:p.pos])
	}
	p.operands++
	return number(v), nil
}

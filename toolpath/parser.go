// Package toolpath reads tool path programs: one call per line, in the form
// name(arg, ..., key=value, ...). Arguments are numbers, strings, True, False,
// None or arithmetic expressions over them. A # starts a comment that runs to
// the end of the line.
package toolpath

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/leftmike/ncpost/errors"
)

type Parser struct {
	Scanner io.ByteScanner

	// Constants are names an expression can refer to in addition to True,
	// False and None.
	Constants map[string]Value

	line      int // Count of lines
	inCommand bool
}

// Arg is one argument of a command; positional arguments have no Name.
type Arg struct {
	Name  string
	Value Value
}

// Command is one call of a tool path program.
type Command struct {
	Line int
	Name string
	Args []Arg
}

func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a.Name != "" {
			sb.WriteString(a.Name)
			sb.WriteByte('=')
		}
		sb.WriteString(a.Value.Source())
	}
	sb.WriteByte(')')
	return sb.String()
}

type expression interface {
	evaluate(p *Parser) Value
}

type op int

const (
	negateOp op = iota
	noOp
	subtractOp
	addOp
	divideOp
	multiplyOp
)

var (
	opPrecedence = [...]int{
		subtractOp: 7,
		addOp:      7,
		divideOp:   8,
		multiplyOp: 8,
		negateOp:   9,
		noOp:       11,
	}

	calls = map[string]struct {
		fn      callFunc
		numArgs int
	}{
		"abs":  {fn: mathFunc(math.Abs), numArgs: 1},
		"sqrt": {fn: mathFunc(math.Sqrt), numArgs: 1},
		"sin":  {fn: mathFunc(degrees(math.Sin)), numArgs: 1},
		"cos":  {fn: mathFunc(degrees(math.Cos)), numArgs: 1},
		"min":  {fn: min2, numArgs: 2},
		"max":  {fn: max2, numArgs: 2},
	}
)

func (op op) precedence() int {
	return opPrecedence[op]
}

type literal Value

type constant string

type unary struct {
	op   op
	expr expression
}

type binary struct {
	op    op
	left  expression
	right expression
}

type callFunc func(args []float64) float64

type call struct {
	name string
	fn   callFunc
	args []expression
}

func (l literal) evaluate(p *Parser) Value {
	return Value(l)
}

func (c constant) evaluate(p *Parser) Value {
	switch c {
	case "True":
		return Bool(true)
	case "False":
		return Bool(false)
	case "None":
		return None
	}
	v, ok := p.Constants[string(c)]
	if !ok {
		p.error(fmt.Sprintf("undefined name: %s", string(c)))
	}
	return v
}

func (p *Parser) number(v Value, what string) float64 {
	if v.Kind != NumberKind {
		p.error(fmt.Sprintf("%s: expected a number, got %s", what, v.Kind))
	}
	return v.Num
}

func (u *unary) evaluate(p *Parser) Value {
	switch u.op {
	case negateOp:
		return Number(-p.number(u.expr.evaluate(p), "-"))
	case noOp:
		return u.expr.evaluate(p)
	default:
		panic(fmt.Sprintf("unexpected unary op: %d", u.op))
	}
}

func (b *binary) evaluate(p *Parser) Value {
	l := b.left.evaluate(p)
	r := b.right.evaluate(p)

	if b.op == addOp && l.Kind == StringKind && r.Kind == StringKind {
		return String(l.Str + r.Str)
	}

	switch b.op {
	case subtractOp:
		return Number(p.number(l, "-") - p.number(r, "-"))
	case addOp:
		return Number(p.number(l, "+") + p.number(r, "+"))
	case divideOp:
		d := p.number(r, "/")
		if d == 0 {
			p.error("division by zero")
		}
		return Number(p.number(l, "/") / d)
	case multiplyOp:
		return Number(p.number(l, "*") * p.number(r, "*"))
	default:
		panic(fmt.Sprintf("unexpected binary op: %d", b.op))
	}
}

func (c *call) evaluate(p *Parser) Value {
	args := make([]float64, len(c.args))
	for i, a := range c.args {
		args[i] = p.number(a.evaluate(p), c.name)
	}
	return Number(c.fn(args))
}

func mathFunc(fn func(float64) float64) callFunc {
	return func(args []float64) float64 {
		return fn(args[0])
	}
}

func degrees(fn func(float64) float64) func(float64) float64 {
	return func(deg float64) float64 {
		return fn(deg * math.Pi / 180)
	}
}

func min2(args []float64) float64 {
	return math.Min(args[0], args[1])
}

func max2(args []float64) float64 {
	return math.Max(args[0], args[1])
}

// Parse returns the next command, or io.EOF when the input is exhausted.
func (p *Parser) Parse() (cmd *Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}
			err = r.(error)
			if err == io.EOF && p.inCommand {
				err = errors.Newf("line %d: unexpected end of input", p.line)
			}
			cmd = nil
			p.inCommand = false
		}
	}()

	if p.line == 0 {
		p.line = 1
	}
	p.skipWhitespace()

	p.inCommand = true
	cmd = &Command{Line: p.line}
	b := p.readByte()
	if !nameByte(b) {
		p.error(fmt.Sprintf("expected an operation name, got %q", b))
	}
	cmd.Name = p.parseName(b)

	p.skipWhitespace()
	if b = p.readByte(); b != '(' {
		p.error(fmt.Sprintf("expected ( following %s, got %q", cmd.Name, b))
	}
	cmd.Args = p.parseArgs(cmd.Name)
	p.endOfLine()
	p.inCommand = false
	return cmd, nil
}

func (p *Parser) parseArgs(name string) []Arg {
	var args []Arg
	keywords := map[string]bool{}

	p.skipWhitespace()
	b := p.readByte()
	if b == ')' {
		return nil
	}
	p.unreadByte()

	for {
		p.skipWhitespace()
		var a Arg
		var e expression
		b = p.readByte()
		if nameByte(b) {
			ident := p.parseName(b)
			p.skipWhitespace()
			b = p.readByte()
			if b == '=' {
				if keywords[ident] {
					p.error(fmt.Sprintf("%s: repeated argument %s", name, ident))
				}
				keywords[ident] = true
				a.Name = ident
				e = adjustPrecedence(p.parseSubExpr())
			} else {
				p.unreadByte()
				e = adjustPrecedence(p.parseOperand(p.identifier(ident)))
			}
		} else {
			p.unreadByte()
			e = adjustPrecedence(p.parseSubExpr())
		}
		if a.Name == "" && len(keywords) > 0 {
			p.error(fmt.Sprintf("%s: positional argument follows keyword argument", name))
		}
		a.Value = e.evaluate(p)
		args = append(args, a)

		p.skipWhitespace()
		b = p.readByte()
		if b == ')' {
			break
		} else if b != ',' {
			p.error(fmt.Sprintf("expected a comma (,) between arguments, got %q", b))
		}
	}
	return args
}

func (p *Parser) error(msg string) {
	panic(errors.Newf("line %d: %s", p.line, msg))
}

func (p *Parser) readByte() byte {
	b, err := p.Scanner.ReadByte()
	if err != nil {
		if err == io.EOF {
			panic(err)
		}
		p.error(err.Error())
	}
	return b
}

func (p *Parser) unreadByte() {
	err := p.Scanner.UnreadByte()
	if err != nil {
		p.error(err.Error())
	}
}

func (p *Parser) peekByte() (byte, bool) {
	b, err := p.Scanner.ReadByte()
	if err == io.EOF {
		return 0, false
	} else if err != nil {
		p.error(err.Error())
	}
	p.unreadByte()
	return b, true
}

func (p *Parser) skipComment() {
	for {
		b, ok := p.peekByte()
		if !ok || b == '\n' {
			return
		}
		p.readByte()
	}
}

// skipWhitespace skips spaces, newlines and comments within a command.
func (p *Parser) skipWhitespace() {
	for {
		b := p.readByte()
		if b == '\n' {
			p.line += 1
		} else if b == '#' {
			p.skipComment()
		} else if b != ' ' && b != '\t' && b != '\r' {
			break
		}
	}
	p.unreadByte()
}

// endOfLine consumes the rest of the line following a command; only a
// comment may follow.
func (p *Parser) endOfLine() {
	for {
		b, ok := p.peekByte()
		if !ok {
			return
		}
		p.readByte()
		switch b {
		case ' ', '\t', '\r':
		case '\n':
			p.line += 1
			return
		case '#':
			p.skipComment()
		default:
			p.error(fmt.Sprintf("unexpected %q following command", b))
		}
	}
}

func nameByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '_'
}

func (p *Parser) parseName(b byte) string {
	name := []byte{b}
	for {
		b, ok := p.peekByte()
		if !ok || !(nameByte(b) || (b >= '0' && b <= '9')) {
			break
		}
		name = append(name, p.readByte())
	}
	return string(name)
}

func (p *Parser) identifier(name string) expression {
	fi, ok := calls[name]
	if !ok {
		return constant(name)
	}

	p.skipWhitespace()
	b := p.readByte()
	if b != '(' {
		p.error(fmt.Sprintf("expected ( following function name; got %q", b))
	}
	c := call{name: name, fn: fi.fn}

	p.skipWhitespace()
	b = p.readByte()
	if b != ')' {
		p.unreadByte()
		for {
			c.args = append(c.args, adjustPrecedence(p.parseSubExpr()))
			p.skipWhitespace()
			b = p.readByte()
			if b == ')' {
				break
			} else if b != ',' {
				p.error("expected a comma (,) between arguments")
			}
		}
	}
	if len(c.args) != fi.numArgs {
		p.error(fmt.Sprintf("wrong number of arguments to function %s: got %d, want %d", name,
			len(c.args), fi.numArgs))
	}
	return &c
}

func (p *Parser) parseNumber() expression {
	var num []byte
	var digits int
	for {
		b := p.readByte()
		if b >= '0' && b <= '9' {
			digits += 1
		} else if b != '.' {
			p.unreadByte()
			break
		}
		num = append(num, b)
	}
	if digits == 0 {
		p.error("expected a number")
	}

	if b, ok := p.peekByte(); ok && (b == 'e' || b == 'E') {
		num = append(num, p.readByte())
		b = p.readByte()
		if b == '-' || b == '+' {
			num = append(num, b)
			b = p.readByte()
		}
		if b < '0' || b > '9' {
			p.error("expected an exponent")
		}
		for b >= '0' && b <= '9' {
			num = append(num, b)
			b = p.readByte()
		}
		p.unreadByte()
	}

	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil {
		p.error(fmt.Sprintf("bad number: %s", string(num)))
	}
	return literal(Number(f))
}

func (p *Parser) parseString(quote byte) expression {
	var s []byte
	for {
		b := p.readByte()
		if b == quote {
			break
		} else if b == '\n' {
			p.error("unterminated string")
		} else if b == '\\' {
			b = p.readByte()
			switch b {
			case 'n':
				b = '\n'
			case 't':
				b = '\t'
			}
		}
		s = append(s, b)
	}
	return literal(String(string(s)))
}

/*
<expr> = <num> | <string> | <name>
    | '-' <expr>
    | '(' <expr> ')'
    | <expr> <op> <expr>
    | <func> '(' [<expr> [',' ...]] ')'
<op> = '+' '-' '*' '/'
*/

func (p *Parser) parseSubExpr() expression {
	p.skipWhitespace()
	b := p.readByte()

	var e expression
	switch {
	case b == '-':
		// - <expr>
		e = &unary{op: negateOp, expr: p.parseSubExpr()}
	case b == '+':
		e = p.parseSubExpr()
	case b == '(':
		// ( <expr> )
		e = &unary{op: noOp, expr: p.parseSubExpr()}
		p.skipWhitespace()
		b = p.readByte()
		if b != ')' {
			p.error(fmt.Sprintf("expected closing parenthesis, got %q", b))
		}
	case b == '\'' || b == '"':
		e = p.parseString(b)
	case nameByte(b):
		e = p.identifier(p.parseName(b))
	default:
		p.unreadByte()
		e = p.parseNumber()
	}

	return p.parseOperand(e)
}

// parseOperand continues an expression whose left operand has been parsed.
func (p *Parser) parseOperand(e expression) expression {
	var op op
	p.skipWhitespace()
	b := p.readByte()
	switch b {
	case '+':
		op = addOp
	case '-':
		op = subtractOp
	case '*':
		op = multiplyOp
	case '/':
		op = divideOp
	default:
		p.unreadByte()
		return e
	}

	return &binary{op: op, left: e, right: p.parseSubExpr()}
}

func adjustPrecedence(e expression) expression {
	switch e := e.(type) {
	case *unary:
		e.expr = adjustPrecedence(e.expr)
		if e.op == noOp {
			return e
		}

		// - (2 * 3)  --> (- 2) * 3
		if b, ok := e.expr.(*binary); ok && b.op.precedence() < e.op.precedence() {
			e.expr = b.left
			b.left = e
			return adjustPrecedence(b)
		}
	case *binary:
		e.left = adjustPrecedence(e.left)
		e.right = adjustPrecedence(e.right)

		// 1 * (2 + 3) --> (1 * 2) + 3
		if b, ok := e.right.(*binary); ok && b.op.precedence() <= e.op.precedence() {
			e.right = b.left
			b.left = e
			return adjustPrecedence(b)
		}

		// (1 + 2) * 3 --> 1 + (2 * 3)
		if b, ok := e.left.(*binary); ok && b.op.precedence() < e.op.precedence() {
			e.left = b.right
			b.right = e
			return adjustPrecedence(b)
		}
	case *call:
		for i, a := range e.args {
			e.args[i] = adjustPrecedence(a)
		}
	}

	return e
}

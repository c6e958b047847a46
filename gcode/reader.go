// Package gcode reads machine programs back in and replays their motion.
// It understands the subset of G-code the dialects write: words with literal
// values, inline and line end comments, block numbers, and parameter
// references or assignments, which it passes over rather than evaluates.
package gcode

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/leftmike/ncpost/errors"
)

// Word is a letter and its value. When the value is a parameter or a
// bracketed expression, Expr holds its text and Num is zero.
type Word struct {
	Letter byte
	Num    float64
	Expr   string
}

func (w Word) String() string {
	if w.Expr != "" {
		return fmt.Sprintf("%c%s", w.Letter, w.Expr)
	}
	return fmt.Sprintf("%c%s", w.Letter, strconv.FormatFloat(w.Num, 'f', -1, 64))
}

// Block is one line of a program.
type Block struct {
	Line      int
	Number    int
	HasNumber bool
	Words     []Word
	Comments  []string
	Assign    string // parameter assignment, such as #1 =2.5
}

// Literal reports whether every word of b has a literal value.
func (b *Block) Literal() bool {
	if b.Assign != "" {
		return false
	}
	for _, w := range b.Words {
		if w.Expr != "" {
			return false
		}
	}
	return true
}

func (b *Block) String() string {
	var parts []string
	if b.HasNumber {
		parts = append(parts, fmt.Sprintf("N%d", b.Number))
	}
	for _, w := range b.Words {
		parts = append(parts, w.String())
	}
	if b.Assign != "" {
		parts = append(parts, b.Assign)
	}
	for _, c := range b.Comments {
		parts = append(parts, "("+c+")")
	}
	return strings.Join(parts, " ")
}

type Reader struct {
	Scanner io.ByteScanner

	line int
}

// Read returns the next block that has words, comments or an assignment; it
// returns io.EOF after the last one.
func (r *Reader) Read() (blk *Block, err error) {
	defer func() {
		if x := recover(); x != nil {
			if _, ok := x.(runtime.Error); ok {
				panic(x)
			}
			blk = nil
			err = x.(error)
		}
	}()

	for {
		b, ok := r.readLine()
		if !ok {
			return nil, io.EOF
		}
		if b != nil {
			return b, nil
		}
	}
}

func (r *Reader) error(msg string, args ...interface{}) {
	panic(errors.Newf("line %d: %s", r.line, fmt.Sprintf(msg, args...)))
}

// peekByte returns 0 at the end of the input.
func (r *Reader) peekByte() byte {
	b, err := r.Scanner.ReadByte()
	if err == io.EOF {
		return 0
	} else if err != nil {
		r.error("%s", err)
	}
	r.Scanner.UnreadByte()
	return b
}

func (r *Reader) readByte() byte {
	b, err := r.Scanner.ReadByte()
	if err == io.EOF {
		return 0
	} else if err != nil {
		r.error("%s", err)
	}
	return b
}

func (r *Reader) skipSpace() {
	for {
		switch r.peekByte() {
		case ' ', '\t', '\r':
			r.readByte()
		default:
			return
		}
	}
}

func (r *Reader) readUntil(stop func(b byte) bool) string {
	var sb strings.Builder
	for {
		b := r.peekByte()
		if b == 0 || b == '\n' || stop(b) {
			return sb.String()
		}
		sb.WriteByte(r.readByte())
	}
}

// readLine returns false at the end of the input and a nil block for a line
// with nothing on it.
func (r *Reader) readLine() (*Block, bool) {
	if r.peekByte() == 0 {
		return nil, false
	}
	r.line += 1
	blk := &Block{Line: r.line}
	empty := true

	for {
		r.skipSpace()
		b := r.readByte()
		switch {
		case b == 0 || b == '\n':
			if empty {
				return nil, true
			}
			return blk, true
		case b == '%' && empty:
			r.readUntil(func(byte) bool { return false })
		case b == '(':
			text := r.readUntil(func(b byte) bool { return b == ')' })
			if r.readByte() != ')' {
				r.error("unterminated comment")
			}
			blk.Comments = append(blk.Comments, text)
			empty = false
		case b == ';':
			blk.Comments = append(blk.Comments,
				strings.TrimSpace(r.readUntil(func(byte) bool { return false })))
			empty = false
		case b == '#':
			text := r.readUntil(func(b byte) bool { return b == '(' || b == ';' })
			blk.Assign = "#" + strings.TrimSpace(text)
			empty = false
		case isLetter(b):
			letter := upper(b)
			r.skipSpace()
			w := r.value(letter)
			if letter == 'N' && w.Expr == "" {
				if !empty || blk.HasNumber {
					r.error("block number must start the line: %s", w)
				}
				blk.Number = int(w.Num)
				blk.HasNumber = true
				continue
			}
			blk.Words = append(blk.Words, w)
			empty = false
		default:
			r.error("unexpected character: %q", b)
		}
	}
}

func (r *Reader) value(letter byte) Word {
	switch r.peekByte() {
	case '#':
		r.readByte()
		if r.peekByte() == '<' {
			name := r.readUntil(func(b byte) bool { return b == '>' })
			if r.readByte() != '>' {
				r.error("unterminated parameter name")
			}
			return Word{Letter: letter, Expr: "#" + name + ">"}
		}
		return Word{Letter: letter, Expr: "#" + r.digits()}
	case '[':
		return Word{Letter: letter, Expr: r.expression()}
	}

	var sb strings.Builder
	if b := r.peekByte(); b == '-' || b == '+' {
		sb.WriteByte(r.readByte())
	}
	sb.WriteString(r.digits())
	if r.peekByte() == '.' {
		sb.WriteByte(r.readByte())
		sb.WriteString(r.digits())
	}
	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		r.error("expected a number after %c", letter)
	}
	return Word{Letter: letter, Num: n}
}

func (r *Reader) digits() string {
	var sb strings.Builder
	for {
		b := r.peekByte()
		if b < '0' || b > '9' {
			return sb.String()
		}
		sb.WriteByte(r.readByte())
	}
}

// expression reads a bracketed expression, nested brackets included.
func (r *Reader) expression() string {
	var sb strings.Builder
	depth := 0
	for {
		b := r.readByte()
		switch b {
		case 0, '\n':
			r.error("unterminated expression")
		case '[':
			depth += 1
		case ']':
			depth -= 1
		}
		sb.WriteByte(b)
		if depth == 0 {
			return sb.String()
		}
	}
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// Package sink holds the outputs a dialect writes machine programs to.
package sink

import (
	"bufio"
	"io"
	"strings"
)

// Program accumulates the emitted machine program in memory.
type Program struct {
	sb strings.Builder
}

func (p *Program) Write(b []byte) (int, error) {
	return p.sb.Write(b)
}

func (p *Program) WriteString(s string) (int, error) {
	return p.sb.WriteString(s)
}

// AddCommand appends one complete line.
func (p *Program) AddCommand(line string) {
	p.sb.WriteString(line)
	p.sb.WriteByte('\n')
}

// Lines returns the program split into lines, without the final empty line.
func (p *Program) Lines() []string {
	s := strings.TrimSuffix(p.sb.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (p *Program) String() string {
	return p.sb.String()
}

func (p *Program) Len() int {
	return p.sb.Len()
}

func (p *Program) Reset() {
	p.sb.Reset()
}

// Writer buffers output to a stream. The first write error sticks: later
// writes fail with it and nothing more reaches the stream.
type Writer struct {
	w     *bufio.Writer
	lines int
	err   error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(b)
	if err != nil {
		w.err = err
	}
	for _, c := range b[:n] {
		if c == '\n' {
			w.lines += 1
		}
	}
	return n, err
}

func (w *Writer) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Lines returns the number of complete lines written so far.
func (w *Writer) Lines() int {
	return w.lines
}

func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.w.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Package dialect turns tool-path operations into the numeric-control text of
// a machine controller.
//
// A Dialect is built from layers. The base level leaves every operation
// unimplemented; ISO supplies the generic G-code vocabulary; LinuxCNC and
// Mach3 override parts of it; machine profiles add a last sparse layer. Every
// call goes through the assembled table, so the most specific override wins
// even when one operation calls another.
//
// A Dialect is not safe for concurrent use.
package dialect

import (
	"fmt"
	"io"
	"strings"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/format"
	"github.com/leftmike/ncpost/logger"
)

// Options configure a dialect instance.
type Options struct {
	Name                 string
	NoBlockNumbers       bool
	BlockStart           int
	BlockStep            int
	Units                UnitsMode
	MetricPlaces         int
	ImperialPlaces       int
	MachineCoordinates   bool // prefix every rapid with G53
	SkipIncompleteCycles bool // skip cycles missing standoff or z instead of failing
	UseCRC               bool
	CRCNominalPath       bool
	Banner               string
}

func (o *Options) defaults() {
	if o.BlockStart == 0 {
		o.BlockStart = 10
	}
	if o.BlockStep == 0 {
		o.BlockStep = 10
	}
	if o.MetricPlaces == 0 {
		o.MetricPlaces = 3
	}
	if o.ImperialPlaces == 0 {
		o.ImperialPlaces = 4
	}
}

type Dialect struct {
	ops   Table
	codes Codes
	opts  Options
	out   io.Writer
	state MachineState

	fmt  format.Format // coordinates; places follow the units mode
	ffmt format.Format // feeds, dwells and macro values
	f    *format.Address
	s    *format.AddressPlusMinus
}

// New builds a dialect writing to w from layers applied in order.
func New(w io.Writer, opts Options, layers ...Layer) *Dialect {
	d := &Dialect{out: w}
	for _, l := range layers {
		l(&d.ops, &d.codes, &opts)
	}
	opts.defaults()

	d.opts = opts
	d.state = newMachineState(opts)
	d.fmt = format.Places(3)
	d.ffmt = format.Places(2)
	d.f = format.NewAddress("F", d.ffmt, true)
	d.s = format.NewAddressPlusMinus("S", format.Format{Places: 2, LeadingZeros: 1, NoMinus: true},
		false)
	return d
}

// NewController builds the built-in dialect name, with extra layers on top.
func NewController(name string, w io.Writer, opts Options, extra ...Layer) (*Dialect, error) {
	layers, ok := Layers(name)
	if !ok {
		return nil, errors.Newf("unknown dialect: %s", name)
	}
	if opts.Name == "" {
		opts.Name = name
	}
	return New(w, opts, append(layers, extra...)...), nil
}

func (d *Dialect) Name() string {
	return d.opts.Name
}

func (d *Dialect) Options() Options {
	return d.opts
}

func (d *Dialect) Codes() Codes {
	return d.codes
}

// State returns a copy of the machine state.
func (d *Dialect) State() MachineState {
	return d.state
}

// Supports reports whether the dialect implements op.
func (d *Dialect) Supports(op string) bool {
	return d.ops.Supports(op)
}

// FormatCoord formats a coordinate with the precision of the current units.
func (d *Dialect) FormatCoord(v float64) string {
	return d.coordFormat().String(v)
}

// UseCRC reports whether tool paths should rely on cutter radius compensation.
func (d *Dialect) UseCRC() bool {
	return d.opts.UseCRC
}

// CRCNominalPath reports whether compensated paths are given as the nominal
// part outline rather than the tool centre line.
func (d *Dialect) CRCNominalPath() bool {
	return d.opts.CRCNominalPath
}

func (d *Dialect) coordFormat() format.Format {
	if d.state.Units == Imperial {
		return d.fmt.WithPlaces(d.opts.ImperialPlaces)
	}
	return d.fmt.WithPlaces(d.opts.MetricPlaces)
}

func (d *Dialect) coord(v float64) string {
	return d.coordFormat().String(v)
}

func (d *Dialect) unimplemented(op string) error {
	logger.Logger.Debugw("unimplemented operation", "op", op, "dialect", d.opts.Name)
	return errors.Unimplemented(op)
}

// block is one line of output under construction.
type block struct {
	sb strings.Builder
}

// WriteString appends s, dropping a leading separator at the start of a line.
func (b *block) WriteString(s string) (int, error) {
	if b.sb.Len() == 0 {
		s = strings.TrimPrefix(s, format.Separator)
	}
	return b.sb.WriteString(s)
}

func (b *block) word(ws ...string) {
	for _, w := range ws {
		if w != "" {
			b.WriteString(format.Separator + w)
		}
	}
}

// axis writes letter and value separated by a space, as in "X 1.5".
func (b *block) axis(letter, value string) {
	b.word(letter, value)
}

// note appends a trailing comment after a tab.
func (b *block) note(text string) {
	b.sb.WriteString("\t(" + text + ")")
}

// block starts a numbered line.
func (d *Dialect) block() *block {
	b := &block{}
	if d.state.BlockDelete {
		b.sb.WriteByte('/')
	}
	if !d.opts.NoBlockNumbers {
		b.sb.WriteString(fmt.Sprintf("%s%d", d.codes.Block, d.state.Block))
		d.state.Block += d.opts.BlockStep
	}
	return b
}

func (d *Dialect) emit(b *block) error {
	return d.line(b.sb.String())
}

// line writes s as an unnumbered line.
func (d *Dialect) line(s string) error {
	_, err := io.WriteString(d.out, s+"\n")
	if err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// blockLine writes a numbered line made of words.
func (d *Dialect) blockLine(words ...string) error {
	b := d.block()
	b.word(words...)
	return d.emit(b)
}

// noteLine writes a numbered line made of words and a trailing comment.
func (d *Dialect) noteLine(text string, words ...string) error {
	b := d.block()
	b.word(words...)
	b.note(text)
	return d.emit(b)
}

// escape replaces round brackets, which would end a comment early, with braces.
func escape(text string) string {
	return strings.NewReplacer("(", "{", ")", "}").Replace(text)
}

func comment(text string) string {
	return "(" + escape(text) + ")"
}

package gcode

import (
	"bufio"
	"context"
	"io"
	"math"
	"strings"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
)

const (
	mmPerInch = 25.4
)

// Position is in mm, in machine coordinates.
type Position struct {
	X, Y, Z float64
}

var (
	zeroPosition = Position{0.0, 0.0, 0.0}
)

// Machine receives what a program does, in machine coordinates and mm.
type Machine interface {
	SetFeed(feed float64) error
	SetSpindle(speed float64, clockwise bool) error
	SpindleOff() error
	SelectTool(tool int) error
	RapidTo(pos Position) error
	LinearTo(pos Position) error
	Comment(text string) error

	// Skip is called for a block, or the rest of one, the engine does not
	// replay, such as a probe move or a block using parameters.
	Skip(blk *Block, reason string) error
}

type moveMode byte

const (
	noMove                  moveMode = iota // G80
	rapidMove                               // G0
	linearMove                              // G1
	clockwiseArcMove                        // G2
	counterClockwiseArcMove                 // G3
	cycleMove                               // G73, G81 to G89
)

type Plane byte

const (
	XYPlane Plane = iota // G17
	ZXPlane              // G18
	YZPlane              // G19
)

// Engine replays programs on a Machine.
type Engine struct {
	// ArcStep is the length of the straight moves arcs are broken into.
	ArcStep float64

	machine          Machine
	units            float64 // 1.0 for mm and 25.4 for in
	homePos          Position
	secondPos        Position
	curPos           Position
	curCoordSys      int
	coordSysPos      [9]Position
	workPos          Position
	savedWorkPos     Position
	moveMode         moveMode
	absoluteMode     bool
	absoluteArcMode  bool
	arcPlane         Plane
	spindleOn        bool
	spindleSpeed     float64
	spindleClockwise bool
	nurbs            bool

	cycle          int // G code of the active canned cycle, in tenths
	cycleBottom    float64
	cycleRetract   float64
	cycleInitial   float64
	retractInitial bool // G98
}

func NewEngine(m Machine) *Engine {
	return &Engine{
		ArcStep:          0.1,
		machine:          m,
		units:            1.0,
		moveMode:         linearMove,
		absoluteMode:     true,
		arcPlane:         XYPlane,
		spindleClockwise: true,
		retractInitial:   true,
	}
}

// Position returns the current position in machine coordinates.
func (eng *Engine) Position() Position {
	return eng.curPos
}

// errEnd stops a program at M2 or M30.
var errEnd = errors.New("end of program")

// Evaluate replays the program read from r. It stops at the end of the input
// or at M2 or M30.
func (eng *Engine) Evaluate(ctx context.Context, r io.Reader) error {
	s, ok := r.(io.ByteScanner)
	if !ok {
		s = bufio.NewReader(r)
	}
	rdr := Reader{Scanner: s}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		blk, err := rdr.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		err = eng.evaluateBlock(blk)
		if err == errEnd {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "line %d", blk.Line)
		}
	}
}

func (eng *Engine) evaluateBlock(blk *Block) error {
	for _, c := range blk.Comments {
		if err := eng.machine.Comment(c); err != nil {
			return err
		}
	}

	if eng.nurbs {
		for _, w := range blk.Words {
			if w.Letter == 'G' && tenths(w.Num) == 53 {
				eng.nurbs = false
				return nil
			}
		}
		return eng.skip(blk, "NURBS definition")
	}
	if !blk.Literal() {
		return eng.skip(blk, "parameters")
	}

	codes := blk.Words
	useMachine := false
	var err error
	for len(codes) > 0 {
		code := codes[0]

		switch code.Letter {
		case 'G':
			codes, err = eng.gCode(blk, tenths(code.Num), codes[1:], &useMachine)
		case 'M':
			codes, err = eng.mCode(tenths(code.Num), codes[1:])
		case 'F':
			err = eng.setFeed(code.Num)
			codes = codes[1:]
		case 'S':
			if code.Num < 0.0 {
				return errors.Newf("spindle speed must not be negative: %s", code)
			}
			codes = codes[1:]
			eng.spindleSpeed = code.Num
			if eng.spindleOn {
				err = eng.machine.SetSpindle(eng.spindleSpeed, eng.spindleClockwise)
			}
		case 'T':
			codes = codes[1:]
			if code.Num < 0.0 || code.Num != math.Trunc(code.Num) {
				return errors.Newf("expected a non-negative integer: %s", code)
			}
			err = eng.machine.SelectTool(int(code.Num))
		case 'O':
			// program and subroutine numbers
			codes = nil
		case 'X', 'Y', 'Z', 'A', 'B', 'C', 'I', 'J', 'K', 'R', 'P', 'Q':
			codes, err = eng.motion(codes, useMachine)
		default:
			return errors.Newf("unexpected word: %s", code)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func tenths(n float64) int {
	return int(math.Round(n * 10))
}

func (eng *Engine) skip(blk *Block, reason string) error {
	logger.Logger.Debugw("skipping block", "line", blk.Line, "reason", reason)
	return eng.machine.Skip(blk, reason)
}

func (eng *Engine) setFeed(feed float64) error {
	if feed < 0.0 {
		return errors.Newf("feed rate must not be negative: %g", feed)
	}
	return eng.machine.SetFeed(feed * eng.units)
}

func (eng *Engine) gCode(blk *Block, g int, codes []Word, useMachine *bool) ([]Word, error) {
	var err error
	switch g {
	case 0:
		eng.moveMode = rapidMove
		return eng.motion(codes, *useMachine)
	case 10:
		eng.moveMode = linearMove
		return eng.motion(codes, *useMachine)
	case 20:
		eng.moveMode = clockwiseArcMove
		return eng.motion(codes, *useMachine)
	case 30:
		eng.moveMode = counterClockwiseArcMove
		return eng.motion(codes, *useMachine)
	case 40: // dwell
		_, codes, err = parseArgs(codes, "P")
	case 52: // NURBS
		eng.nurbs = true
		codes = nil
	case 53: // end of a NURBS definition that was never begun
	case 100:
		codes, err = eng.modifyPositions(codes)
	case 150, 160: // polar coordinates
	case 170:
		eng.arcPlane = XYPlane
	case 180:
		eng.arcPlane = ZXPlane
	case 190:
		eng.arcPlane = YZPlane
	case 200:
		eng.units = mmPerInch
	case 210:
		eng.units = 1.0
	case 280:
		codes, err = eng.moveToPredefined(codes, eng.homePos)
	case 281:
		eng.homePos = eng.curPos
	case 300:
		codes, err = eng.moveToPredefined(codes, eng.secondPos)
	case 301:
		eng.secondPos = eng.curPos
	case 382, 383, 384, 385:
		return nil, eng.skip(blk, "probe move")
	case 400, 490: // cutter radius and tool length compensation off
	case 410, 420, 411, 421, 430, 431:
		_, codes, err = parseArgs(codes, "DHLXYZ")
	case 530:
		*useMachine = true
	case 540, 550, 560, 570, 580, 590:
		eng.curCoordSys = (g - 540) / 10
	case 591, 592, 593:
		eng.curCoordSys = g - 591 + 6
	case 610, 611:
	case 640:
		_, codes, err = parseArgs(codes, "PQ")
	case 730, 810, 820, 830, 840, 850, 860, 870, 880, 890:
		if eng.moveMode != cycleMove {
			eng.cycleInitial = eng.curPos.Z
		}
		eng.moveMode = cycleMove
		eng.cycle = g
		return eng.motion(codes, *useMachine)
	case 800:
		eng.moveMode = noMove
	case 900:
		eng.absoluteMode = true
	case 901:
		eng.absoluteArcMode = true
	case 910:
		eng.absoluteMode = false
	case 911:
		eng.absoluteArcMode = false
	case 920:
		codes, err = eng.setWorkPosition(codes)
	case 921:
		eng.workPos = zeroPosition
		eng.savedWorkPos = zeroPosition
	case 922:
		eng.savedWorkPos = eng.workPos
		eng.workPos = zeroPosition
	case 923:
		eng.workPos = eng.savedWorkPos
	case 980:
		eng.retractInitial = true
	case 990:
		eng.retractInitial = false
	default:
		return nil, eng.skip(blk, "unsupported code: "+Word{Letter: 'G', Num: float64(g) / 10}.String())
	}
	return codes, err
}

func (eng *Engine) mCode(m int, codes []Word) ([]Word, error) {
	var err error
	switch m {
	case 20, 300:
		if err = eng.endProgram(); err != nil {
			return nil, err
		}
		return nil, errEnd
	case 30, 40:
		eng.spindleOn = true
		eng.spindleClockwise = m == 30
		err = eng.machine.SetSpindle(eng.spindleSpeed, eng.spindleClockwise)
	case 50:
		eng.spindleOn = false
		err = eng.machine.SpindleOff()
	case 980:
		_, codes, err = parseArgs(codes, "PL")
	}
	// Other M codes, such as coolant, gears and accessories, do not move the
	// machine.
	return codes, err
}

func (eng *Engine) endProgram() error {
	eng.moveMode = linearMove
	eng.curCoordSys = 0
	eng.arcPlane = XYPlane
	eng.absoluteMode = true
	if eng.spindleOn {
		eng.spindleOn = false
		return eng.machine.SpindleOff()
	}
	return nil
}

type arg struct {
	letter byte
	num    float64
}

// parseArgs takes the leading words of codes whose letters are in allowed.
func parseArgs(codes []Word, allowed string) ([]arg, []Word, error) {
	var args []arg
	for len(codes) > 0 {
		code := codes[0]
		if strings.IndexByte(allowed, code.Letter) < 0 {
			break
		}
		for _, a := range args {
			if a.letter == code.Letter {
				return nil, nil, errors.Newf("duplicate arg specified: %s", code)
			}
		}
		args = append(args, arg{code.Letter, code.Num})
		codes = codes[1:]
	}
	return args, codes, nil
}

func requireArg(args []arg, letter byte) (float64, error) {
	for _, a := range args {
		if a.letter == letter {
			return a.num, nil
		}
	}
	return 0, errors.Newf("missing require arg: %c", letter)
}

func hasArg(args []arg, letter byte) bool {
	for _, a := range args {
		if a.letter == letter {
			return true
		}
	}
	return false
}

// toMachine maps v on axis 0, 1 or 2 from program units and coordinates to
// machine coordinates.
func (eng *Engine) toMachine(axis int, v float64, absolute, useMachine bool) float64 {
	v *= eng.units
	cur := [3]float64{eng.curPos.X, eng.curPos.Y, eng.curPos.Z}[axis]
	if !absolute {
		return cur + v
	} else if useMachine {
		return v
	}
	offset := [3]float64{
		eng.coordSysPos[eng.curCoordSys].X + eng.workPos.X,
		eng.coordSysPos[eng.curCoordSys].Y + eng.workPos.Y,
		eng.coordSysPos[eng.curCoordSys].Z + eng.workPos.Z,
	}[axis]
	return v + offset
}

// target returns the position args move to.
func (eng *Engine) target(args []arg, absolute, useMachine bool) Position {
	pos := eng.curPos
	for _, a := range args {
		switch a.letter {
		case 'X':
			pos.X = eng.toMachine(0, a.num, absolute, useMachine)
		case 'Y':
			pos.Y = eng.toMachine(1, a.num, absolute, useMachine)
		case 'Z':
			pos.Z = eng.toMachine(2, a.num, absolute, useMachine)
		}
	}
	return pos
}

func (eng *Engine) rapidTo(pos Position) error {
	if pos == eng.curPos {
		return nil
	}
	if err := eng.machine.RapidTo(pos); err != nil {
		return err
	}
	eng.curPos = pos
	return nil
}

func (eng *Engine) linearTo(pos Position) error {
	if pos == eng.curPos {
		return nil
	}
	if err := eng.machine.LinearTo(pos); err != nil {
		return err
	}
	eng.curPos = pos
	return nil
}

// motion takes the arguments of the current motion mode from codes and
// moves.
func (eng *Engine) motion(codes []Word, useMachine bool) ([]Word, error) {
	switch eng.moveMode {
	case rapidMove, linearMove:
		return eng.moveTo(codes, useMachine)
	case clockwiseArcMove, counterClockwiseArcMove:
		return eng.arcTo(codes, useMachine)
	case cycleMove:
		return eng.cycleTo(codes)
	}
	return nil, errors.Newf("no motion mode for %s", codes[0])
}

func (eng *Engine) moveTo(codes []Word, useMachine bool) ([]Word, error) {
	args, codes, err := parseArgs(codes, "FXYZABC")
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		if a.letter == 'F' {
			if err := eng.setFeed(a.num); err != nil {
				return nil, err
			}
		}
	}

	pos := eng.target(args, eng.absoluteMode, useMachine)
	if eng.moveMode == rapidMove {
		err = eng.rapidTo(pos)
	} else {
		err = eng.linearTo(pos)
	}
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (eng *Engine) arcTo(codes []Word, useMachine bool) ([]Word, error) {
	if useMachine {
		return nil, errors.New("G53 not allowed with arcs")
	}

	args, codes, err := parseArgs(codes, "FIJKPRXYZABC")
	if err != nil {
		return nil, err
	}

	endPos := eng.target(args, eng.absoluteMode, false)
	centerPos := eng.curPos
	var radius float64
	turns := 1
	for _, a := range args {
		switch a.letter {
		case 'F':
			if err := eng.setFeed(a.num); err != nil {
				return nil, err
			}
		case 'I':
			if eng.arcPlane == YZPlane && a.num != 0.0 {
				return nil, errors.New("unexpected I for arc in YZ plane")
			}
			centerPos.X = eng.toMachine(0, a.num, eng.absoluteArcMode, false)
		case 'J':
			if eng.arcPlane == ZXPlane && a.num != 0.0 {
				return nil, errors.New("unexpected J for arc in ZX plane")
			}
			centerPos.Y = eng.toMachine(1, a.num, eng.absoluteArcMode, false)
		case 'K':
			if eng.arcPlane == XYPlane && a.num != 0.0 {
				return nil, errors.New("unexpected K for arc in XY plane")
			}
			centerPos.Z = eng.toMachine(2, a.num, eng.absoluteArcMode, false)
		case 'P':
			if a.num < 1.0 || a.num != math.Trunc(a.num) {
				return nil, errors.Newf("expected a positive number of turns: P%g", a.num)
			}
			turns = int(a.num)
		case 'R':
			radius = a.num * eng.units
		}
	}

	clockwise := eng.moveMode == clockwiseArcMove
	p := eng.arcPlane
	start := p.toPlane(eng.curPos)
	end := p.toPlane(endPos)
	center := p.toPlane(centerPos)
	hasCenter := hasArg(args, 'I') || hasArg(args, 'J') || hasArg(args, 'K')

	switch {
	case hasArg(args, 'R') && hasCenter:
		return nil, errors.New("both center point and radius specified for arc")
	case hasArg(args, 'R'):
		center, err = arcCenter(start, end, radius, clockwise)
		if err != nil {
			return nil, err
		}
	case !hasCenter:
		return nil, errors.New("expected center point or radius for arc")
	}

	err = arcPoints(start, end, center, turns, clockwise, eng.ArcStep,
		func(pos Position) error {
			return eng.linearTo(p.fromPlane(pos))
		})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// cycleTo runs one hole of the active canned cycle: over the hole, down to
// the retract plane, to the bottom, and back out.
func (eng *Engine) cycleTo(codes []Word) ([]Word, error) {
	if !eng.absoluteMode {
		return nil, errors.New("canned cycles in incremental mode are not supported")
	}

	args, codes, err := parseArgs(codes, "FKLPQRXYZ")
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		switch a.letter {
		case 'F':
			err = eng.setFeed(a.num)
		case 'R':
			eng.cycleRetract = eng.toMachine(2, a.num, true, false)
		case 'Z':
			eng.cycleBottom = eng.toMachine(2, a.num, true, false)
		}
		if err != nil {
			return nil, err
		}
	}

	over := eng.target(args, true, false)
	over.Z = eng.curPos.Z
	if err := eng.rapidTo(over); err != nil {
		return nil, err
	}
	over.Z = eng.cycleRetract
	if err := eng.rapidTo(over); err != nil {
		return nil, err
	}
	over.Z = eng.cycleBottom
	if err := eng.linearTo(over); err != nil {
		return nil, err
	}

	over.Z = eng.cycleRetract
	if eng.retractInitial && eng.cycleInitial > over.Z {
		over.Z = eng.cycleInitial
	}
	switch eng.cycle {
	case 840, 850, 890: // feed out
		err = eng.linearTo(over)
	default:
		err = eng.rapidTo(over)
	}
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (eng *Engine) moveToPredefined(codes []Word, pos Position) ([]Word, error) {
	args, codes, err := parseArgs(codes, "XYZABC")
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		// through the given axes first, then on to pos for those axes only
		way := eng.target(args, eng.absoluteMode, false)
		final := eng.curPos
		for _, a := range args {
			switch a.letter {
			case 'X':
				final.X = pos.X
			case 'Y':
				final.Y = pos.Y
			case 'Z':
				final.Z = pos.Z
			}
		}
		if err := eng.rapidTo(way); err != nil {
			return nil, err
		}
		pos = final
	}
	if err := eng.rapidTo(pos); err != nil {
		return nil, err
	}
	return codes, nil
}

func (eng *Engine) modifyPositions(codes []Word) ([]Word, error) {
	args, codes, err := parseArgs(codes, "LPRXYZABCIJQ")
	if err != nil {
		return nil, err
	}
	l, err := requireArg(args, 'L')
	if err != nil {
		return nil, err
	}

	switch l {
	case 2: // coordinate system offset, in machine coordinates
		err = eng.setCoordinateSystemPosition(args, true)
	case 20: // coordinate system offset, from the current position
		err = eng.setCoordinateSystemPosition(args, false)
	case 1, 10, 11: // tool table
	default:
		err = errors.Newf("unexpected L value to G10: L%g", l)
	}
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (eng *Engine) setCoordinateSystemPosition(args []arg, machine bool) error {
	p, err := requireArg(args, 'P')
	if err != nil {
		return err
	}
	coordSys := eng.curCoordSys
	if p != 0.0 {
		if p < 1.0 || p > 9.0 || p != math.Trunc(p) {
			return errors.Newf("expected a coordinate system: P%g", p)
		}
		coordSys = int(p) - 1
	}

	cs := &eng.coordSysPos[coordSys]
	for _, a := range args {
		v := a.num * eng.units
		switch a.letter {
		case 'X':
			if machine {
				cs.X = v
			} else {
				cs.X = eng.curPos.X - eng.workPos.X - v
			}
		case 'Y':
			if machine {
				cs.Y = v
			} else {
				cs.Y = eng.curPos.Y - eng.workPos.Y - v
			}
		case 'Z':
			if machine {
				cs.Z = v
			} else {
				cs.Z = eng.curPos.Z - eng.workPos.Z - v
			}
		}
	}
	return nil
}

func (eng *Engine) setWorkPosition(codes []Word) ([]Word, error) {
	args, codes, err := parseArgs(codes, "XYZABC")
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("expected at least one X, Y, or Z arg")
	}

	base := eng.coordSysPos[eng.curCoordSys]
	for _, a := range args {
		v := a.num * eng.units
		switch a.letter {
		case 'X':
			eng.workPos.X = eng.curPos.X - base.X - v
		case 'Y':
			eng.workPos.Y = eng.curPos.Y - base.Y - v
		case 'Z':
			eng.workPos.Z = eng.curPos.Z - base.Z - v
		}
	}
	eng.savedWorkPos = eng.workPos
	return codes, nil
}

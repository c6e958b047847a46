package dialect

import (
	"fmt"
	"math"
)

type Position struct {
	X, Y, Z float64
}

func (pos Position) String() string {
	return fmt.Sprintf("{x: %g, y: %g, z: %g}", pos.X, pos.Y, pos.Z)
}

func hypot(pos1, pos2 Position) float64 {
	return math.Hypot(pos1.X-pos2.X, pos1.Y-pos2.Y)
}

type Plane byte

const (
	XYPlane Plane = iota // G17
	ZXPlane              // G18
	YZPlane              // G19
)

type UnitsMode byte

const (
	Metric   UnitsMode = iota // G21
	Imperial                  // G20
)

func (u UnitsMode) String() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

type Coolant int

const (
	CoolantOff   Coolant = iota // M09
	CoolantMist                 // M07
	CoolantFlood                // M08
)

// MachineState is what a dialect remembers between operations.
type MachineState struct {
	Tool          int
	HasTool       bool
	Pos           Position
	A, B, C       float64
	Delta         Position // per-axis change of the last feed move
	Feed          float64  // horizontal feed rate
	FeedV         float64  // vertical feed rate when FeedHV is set
	FeedHV        bool
	HasFeed       bool
	SpindleSpeed  float64
	SpindleCW     bool
	Coolant       Coolant
	Workplane     int
	Units         UnitsMode
	MachineMetric bool
	Absolute      bool
	Plane         Plane
	Polar         bool
	TLC           bool // tool length compensation
	TempOrigin    bool
	BlockDelete   bool
	Block         int // next block number
	Loop          int // next control-flow label for generated loops
}

func newMachineState(o Options) MachineState {
	return MachineState{
		Pos:       Position{0.0, 0.0, 500.0},
		Workplane: 1, // G54
		Units:     o.Units,
		Absolute:  true,
		Plane:     XYPlane,
		SpindleCW: true,
		Block:     o.BlockStart,
		Loop:      100,
	}
}

// feedFor returns the feed rate for a move along delta.
func (ms *MachineState) feedFor(delta Position) float64 {
	if !ms.FeedHV {
		return ms.Feed
	}
	h := hypot(delta, Position{})
	if math.Abs(delta.Z) > math.Abs(h*2) {
		return ms.FeedV
	}
	return ms.Feed
}

func (ms *MachineState) nextLoop() int {
	n := ms.Loop
	ms.Loop += 1
	return n
}

package dialect

// Num returns a pointer to v, for the optional parameters of an operation.
func Num(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// Axes holds the optional axis words of a move; nil leaves an axis unchanged.
type Axes struct {
	X, Y, Z, A, B, C *float64
}

func (a Axes) empty() bool {
	return a.X == nil && a.Y == nil && a.Z == nil && a.A == nil && a.B == nil && a.C == nil
}

// Arc is an arc move: an end point plus either a centre offset or a radius.
type Arc struct {
	X, Y, Z *float64
	I, J, K *float64
	R       *float64
}

// WorkOffset sets the origin and XY rotation of coordinate system Workplane.
type WorkOffset struct {
	Workplane int
	Axes
	Rotation *float64
}

type ToolDefn struct {
	ID       int
	Name     string
	Radius   *float64
	Length   *float64
	Gradient *float64
}

// Drill is a drilling cycle. Z is the top of the hole; the bottom is Z-Depth
// and the retract plane is Z+Standoff.
type Drill struct {
	X, Y, Z         *float64
	Depth           *float64
	Standoff        *float64
	Dwell           *float64
	PeckDepth       *float64
	RetractMode     *int
	ClearanceHeight *float64
}

// Boring is a boring cycle; Dwell, SpindleMode and RetractMode choose the code.
type Boring struct {
	X, Y, Z         *float64
	Depth           *float64
	Standoff        *float64
	Dwell           *float64
	RetractMode     *int
	SpindleMode     *int
	ClearanceHeight *float64
}

// Tap is a rigid tapping cycle.
type Tap struct {
	X, Y, Z         *float64
	ZRetract        *float64
	Depth           *float64
	Standoff        *float64
	DwellBottom     *float64
	Pitch           *float64
	StopPos         *float64
	SpinIn          *float64
	SpinOut         *float64
	TapMode         *int
	Direction       *int
	ClearanceHeight *float64
}

// ProbeConfirm enables the M66 input check around probe moves.
type ProbeConfirm struct {
	UseM66   bool
	InputPin *int
}

// ProbePoint names the expressions holding a probed coordinate.
type ProbePoint struct {
	X, Y, Z *string
}

func (p ProbePoint) empty() bool {
	return p.X == nil && p.Y == nil && p.Z == nil
}

type SinglePointProbe struct {
	PointAlongEdgeX, PointAlongEdgeY     *float64
	Depth                                *float64
	RetractedPointX, RetractedPointY     *float64
	DestinationPointX, DestinationPointY *float64
	IntersectionVariableX                string
	IntersectionVariableY                string
	ProbeOffsetX, ProbeOffsetY           string
	ProbeConfirm
}

type DownwardProbe struct {
	Depth                 *float64
	IntersectionVariableZ string
	TouchOffAsZ           *float64
	RapidDownToHeight     *float64
	Feedrate              *float64
	ProbeConfirm
}

type GridProbe struct {
	XIncrement float64
	XCount     int
	YIncrement float64
	YCount     int
	ZSafety    float64
	ZProbe     float64
	Feedrate   float64
	Filename   string
}

type ToolMeasure struct {
	Distance              *float64
	SwitchOffsetVariable  string
	FixtureOffsetVariable string
	Feedrate              *float64
	ProbeConfirm
}

// Midpoint holds coordinate expressions; an axis is written when both of its
// ends are given.
type Midpoint struct {
	X1, Y1, Z1 *string
	X2, Y2, Z2 *string
}

type PathMode int

const (
	ExactPath PathMode = iota // G61
	ExactStop                 // G61.1
	BestSpeed                 // G64
)

type NURBS struct {
	ID     int
	Degree int
	X, Y   float64
	Weight float64
}

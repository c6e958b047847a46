package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/sink"
)

func newController(t *testing.T, name string, opts dialect.Options,
	extra ...dialect.Layer) (*dialect.Dialect, *sink.Program) {

	t.Helper()

	var p sink.Program
	d, err := dialect.NewController(name, &p, opts, extra...)
	require.NoError(t, err)
	return d, &p
}

func TestUnknownController(t *testing.T) {
	var p sink.Program
	_, err := dialect.NewController("fanuc", &p, dialect.Options{})
	assert.Error(t, err)
}

func TestControllers(t *testing.T) {
	assert.Equal(t, []string{"base", "iso", "linuxcnc", "mach3"}, dialect.Controllers())
	assert.Equal(t, []string{"iso", "linuxcnc", "mach3"}, dialect.PostProcessors())

	desc, ok := dialect.Describe("linuxcnc")
	assert.True(t, ok)
	assert.NotEmpty(t, desc)
	_, ok = dialect.Describe("fanuc")
	assert.False(t, ok)

	ops := dialect.Ops()
	assert.Len(t, ops, 73)
	assert.IsNonDecreasing(t, ops)
	assert.Contains(t, ops, "start_CRC")
	assert.Contains(t, ops, "report_probe_results")
}

func TestBaseUnimplemented(t *testing.T) {
	d, p := newController(t, "base", dialect.Options{})

	cases := []struct {
		op string
		fn func() error
	}{
		{"rapid", func() error { return d.Rapid(dialect.Axes{X: dialect.Num(1)}, false) }},
		{"comment", func() error { return d.Comment("hello") }},
		{"program_begin", func() error { return d.ProgramBegin(1, "part") }},
		{"drill", func() error { return d.Drill(dialect.Drill{}) }},
		{"fan_on", d.FanOn},
		{"variable", func() error {
			_, err := d.Variable("1")
			return err
		}},
	}

	for _, c := range cases {
		err := c.fn()
		if !errors.Is(err, errors.ErrUnimplemented) {
			t.Errorf("%s: got %v want unimplemented", c.op, err)
			continue
		}
		op, ok := errors.OpName(err)
		assert.True(t, ok)
		assert.Equal(t, c.op, op)
		assert.False(t, d.Supports(c.op), c.op)
	}
	assert.Empty(t, p.Lines())
}

func TestISOUnsupported(t *testing.T) {
	d, _ := newController(t, "iso", dialect.Options{})

	for _, op := range []string{"message", "log_message", "probe_grid", "nurbs_add_pole",
		"extruder_on", "datum_shift"} {

		assert.False(t, d.Supports(op), op)
	}
	err := d.Message("hello")
	assert.True(t, errors.Is(err, errors.ErrUnimplemented))
	assert.False(t, d.UseCRC())
	assert.False(t, d.CRCNominalPath())
}

func TestISOProgram(t *testing.T) {
	d, p := newController(t, "iso", dialect.Options{})

	require.NoError(t, d.ProgramBegin(1, "Part (one)"))
	require.NoError(t, d.Metric())
	require.NoError(t, d.Absolute())
	require.NoError(t, d.SetPlane(dialect.XYPlane))
	require.NoError(t, d.Workplane(1))
	require.NoError(t, d.ToolChange(3, "roughing (6mm)"))
	require.NoError(t, d.Spindle(12000, true))
	require.NoError(t, d.Coolant(dialect.CoolantFlood))
	require.NoError(t, d.Feedrate(300))
	require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(0), Y: dialect.Num(0)}, false))
	require.NoError(t, d.Feed(dialect.Axes{Z: dialect.Num(-1.5)}))
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(10)}))
	require.NoError(t, d.Spindle(0, true))
	require.NoError(t, d.Coolant(dialect.CoolantOff))
	require.NoError(t, d.ProgramEnd())

	assert.Equal(t, []string{
		"(Part {one})",
		"N10 G49\t(Ensure tool length compensation is OFF)",
		"N20 G92.1\t(revert to previous coordinate system)",
		"N30 G21\t(Metric Values)",
		"N40 G90\t(Absolute Coordinates)",
		"N50 G17\t(Select XY Plane)",
		"N60 G54\t(Select Relative Coordinate System)",
		"N70 (roughing {6mm})",
		"N80 T3 M06",
		"N90 S12000 M03",
		"N100 M08",
		"N110 G00 X0 Y0",
		"N120 G01 Z-1.5 F300",
		"N130 G01 X10",
		"N140 M05",
		"N150 M09",
		"N160 M02",
	}, p.Lines())
}

func TestBlockNumbers(t *testing.T) {
	cases := []struct {
		opts  dialect.Options
		lines []string
	}{
		{
			opts:  dialect.Options{},
			lines: []string{"N10 G00 X1", "N20 G00 Y2"},
		},
		{
			opts:  dialect.Options{BlockStart: 100, BlockStep: 5},
			lines: []string{"N100 G00 X1", "N105 G00 Y2"},
		},
		{
			opts:  dialect.Options{NoBlockNumbers: true},
			lines: []string{"G00 X1", "G00 Y2"},
		},
		{
			opts:  dialect.Options{MachineCoordinates: true},
			lines: []string{"N10 G53 G00 X1", "N20 G53 G00 Y2"},
		},
	}

	for _, c := range cases {
		d, p := newController(t, "iso", c.opts)
		require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(1)}, false))
		require.NoError(t, d.Rapid(dialect.Axes{Y: dialect.Num(2)}, false))
		assert.Equal(t, c.lines, p.Lines(), "%+v", c.opts)
	}
}

func TestBlockDelete(t *testing.T) {
	d, p := newController(t, "iso", dialect.Options{})

	require.NoError(t, d.BlockDelete(true))
	require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(1)}, true))
	require.NoError(t, d.BlockDelete(false))
	require.NoError(t, d.Insert("M00"))

	assert.Equal(t, []string{"/N10 G53 G00 X1", "N20 M00"}, p.Lines())
}

func TestCommentEscaping(t *testing.T) {
	for _, name := range []string{"iso", "linuxcnc", "mach3"} {
		d, p := newController(t, name, dialect.Options{})
		require.NoError(t, d.Comment("depth (rough)"), name)
		assert.Equal(t, []string{"N10 (depth {rough})"}, p.Lines(), name)
	}
}

func TestUnitsPrecision(t *testing.T) {
	d, p := newController(t, "iso", dialect.Options{})

	require.NoError(t, d.Metric())
	assert.Equal(t, "1.235", d.FormatCoord(1.23456))
	require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(1.23456)}, false))

	require.NoError(t, d.Imperial())
	assert.Equal(t, "1.2346", d.FormatCoord(1.23456))
	assert.Equal(t, dialect.Imperial, d.State().Units)
	require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(1.23456)}, false))

	assert.Equal(t, []string{
		"N10 G21\t(Metric Values)",
		"N20 G00 X1.235",
		"N30 G20\t(Imperial Values)",
		"N40 G00 X1.2346",
	}, p.Lines())

	d, _ = newController(t, "iso", dialect.Options{Units: dialect.Imperial, ImperialPlaces: 2})
	assert.Equal(t, "1.23", d.FormatCoord(1.23456))
}

func TestFeed(t *testing.T) {
	d, p := newController(t, "iso", dialect.Options{})

	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(1)}))
	require.NoError(t, d.Feedrate(100))
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(2)}))
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(2.0001)}))
	require.NoError(t, d.Feed(dialect.Axes{}))
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(3), Y: dialect.Num(1)}))

	assert.Equal(t, dialect.Position{X: 1, Y: 1, Z: 0}, d.State().Delta)

	require.NoError(t, d.FeedrateHV(100, 20))
	require.NoError(t, d.Feed(dialect.Axes{Z: dialect.Num(-5)}))
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(10)}))
	require.NoError(t, d.EndCannedCycle())
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(20)}))

	assert.Equal(t, []string{
		"N10 G01 X1",
		"N20 G01 X2 F100",
		"N30 G01 X3 Y1",
		"N40 G01 Z-5 F20",
		"N50 G01 X10 F100",
		"N60 G80",
		"N70 G01 X20 F100",
	}, p.Lines())
}

func TestArcs(t *testing.T) {
	d, p := newController(t, "iso", dialect.Options{})

	require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(0), Y: dialect.Num(0)}, false))
	require.NoError(t, d.Feedrate(50))
	require.NoError(t, d.ArcCW(dialect.Arc{X: dialect.Num(10), Y: dialect.Num(0),
		I: dialect.Num(5), J: dialect.Num(0)}))
	require.NoError(t, d.ArcCCW(dialect.Arc{X: dialect.Num(0), Y: dialect.Num(0),
		R: dialect.Num(5)}))
	assert.Equal(t, []string{
		"N10 G00 X0 Y0",
		"N20 G02 X10 Y0 I5 J0 F50",
		"N30 G03 X0 Y0 R5",
	}, p.Lines())

	err := d.ArcCW(dialect.Arc{X: dialect.Num(20), Y: dialect.Num(0), R: dialect.Num(1)})
	assert.True(t, errors.Is(err, errors.ErrContractViolation))
}

func TestQuadrants(t *testing.T) {
	cases := []struct {
		dx, dy float64
		q      int
	}{
		{1, 1, 0},
		{0, 0, 0},
		{-1, 1, 1},
		{-1, -1, 2},
		{1, -1, 3},
	}

	for _, c := range cases {
		assert.Equal(t, c.q, dialect.Quadrant(c.dx, c.dy), "(%v, %v)", c.dx, c.dy)
	}

	x, y := dialect.QuadrantStart(1, 2, 3, 1)
	assert.Equal(t, []float64{2, 4}, []float64{x, y})
	x, y = dialect.QuadrantEnd(1, 2, 3, 1)
	assert.Equal(t, []float64{1, 3}, []float64{x, y})
	x, y = dialect.QuadrantEnd(3, 2, 3, 1)
	assert.Equal(t, []float64{3, 3}, []float64{x, y})
}

func TestCRC(t *testing.T) {
	d, p := newController(t, "iso", dialect.Options{})

	err := d.StartCRC(true, 3)
	assert.True(t, errors.Is(err, errors.ErrPrecondition))
	assert.Empty(t, p.Lines())

	require.NoError(t, d.ToolChange(2, ""))
	require.NoError(t, d.StartCRC(true, 3))
	require.NoError(t, d.StartCRC(false, 3))
	require.NoError(t, d.EndCRC())
	assert.Equal(t, []string{
		"N10 T2 M06",
		"N20 G41 D2\t(start left cutter radius compensation)",
		"N30 G42 D2\t(start right cutter radius compensation)",
		"N40 G40\t(end cutter radius compensation)",
	}, p.Lines())
}

func TestISOMisc(t *testing.T) {
	cases := []struct {
		fn   func(d *dialect.Dialect) error
		line string
	}{
		{func(d *dialect.Dialect) error { return d.ProgramStop(true) }, "N10 M01"},
		{func(d *dialect.Dialect) error { return d.ProgramStop(false) }, "N10 M00"},
		{func(d *dialect.Dialect) error { return d.SubBegin(100, "pocket") }, "O100 (pocket)"},
		{func(d *dialect.Dialect) error { return d.SubBegin(100, "") }, "O100"},
		{func(d *dialect.Dialect) error { return d.SubCall(100) }, "N10 M98 P100"},
		{(*dialect.Dialect).SubEnd, "N10 M99"},
		{(*dialect.Dialect).Incremental, "N10 G91\t(Incremental Coordinates)"},
		{func(d *dialect.Dialect) error { return d.Polar(true) }, "N10 G16\t(Polar ON)"},
		{func(d *dialect.Dialect) error { return d.Polar(false) }, "N10 G15\t(Polar OFF)"},
		{func(d *dialect.Dialect) error { return d.SetPlane(dialect.YZPlane) },
			"N10 G19\t(Select YZ Plane)"},
		{func(d *dialect.Dialect) error {
			return d.SetTemporaryOrigin(dialect.Axes{X: dialect.Num(0), Z: dialect.Num(1.5)})
		}, "N10 G92 X 0 Z 1.5\t(set temporary origin)"},
		{func(d *dialect.Dialect) error { return d.PredefinedPosition("G28") },
			"N10 G28 (Move to the predefined position)"},
		{func(d *dialect.Dialect) error {
			return d.ToolDefn(dialect.ToolDefn{ID: 4, Radius: dialect.Num(3), Length: dialect.Num(50)})
		}, "N10 G10 L1 P4 R3.000 Z50.000"},
		{func(d *dialect.Dialect) error { return d.Workplane(8) },
			"N10 G59.2\t(Select Relative Coordinate System)"},
		{func(d *dialect.Dialect) error { return d.GearRange(2) }, "N10 M39"},
		{func(d *dialect.Dialect) error { return d.Coolant(dialect.CoolantMist) }, "N10 M07"},
		{func(d *dialect.Dialect) error { return d.Spindle(500, false) }, "N10 S500 M04"},
		{func(d *dialect.Dialect) error { return d.Dwell(1.5) }, "N10 G04 P1.5"},
		{func(d *dialect.Dialect) error { return d.VariableSet("1", "1.5") }, "N10 #1 =1.500"},
		{func(d *dialect.Dialect) error {
			return d.RapidToMidpoint(dialect.Midpoint{X1: dialect.Str("#1"), X2: dialect.Str("#2"),
				Y1: dialect.Str("#3")})
		}, "N10 G00 X [[[#1 - #2] / 2.0] + #2]"},
		{func(d *dialect.Dialect) error {
			return d.SetPathControlMode(dialect.ExactStop, 0, 0)
		}, "N10 G61.1"},
		{func(d *dialect.Dialect) error {
			return d.SetPathControlMode(dialect.BestSpeed, 0.01, 0)
		}, "N10 G64 P 0.01"},
	}

	for i, c := range cases {
		d, p := newController(t, "iso", dialect.Options{})
		require.NoError(t, c.fn(d), "case %d", i)
		assert.Equal(t, []string{c.line}, p.Lines(), "case %d", i)
	}
}

func TestISOContractViolations(t *testing.T) {
	cases := []func(d *dialect.Dialect) error{
		func(d *dialect.Dialect) error { return d.Workplane(0) },
		func(d *dialect.Dialect) error { return d.Workplane(10) },
		func(d *dialect.Dialect) error { return d.GearRange(0) },
		func(d *dialect.Dialect) error { return d.GearRange(5) },
		func(d *dialect.Dialect) error { return d.Coolant(dialect.Coolant(7)) },
		func(d *dialect.Dialect) error { return d.SetPlane(dialect.Plane(4)) },
		func(d *dialect.Dialect) error { return d.PredefinedPosition("G53") },
		func(d *dialect.Dialect) error { return d.SetPathControlMode(dialect.PathMode(9), 0, 0) },
	}

	for i, fn := range cases {
		d, p := newController(t, "iso", dialect.Options{})
		err := fn(d)
		assert.True(t, errors.Is(err, errors.ErrContractViolation), "case %d: %v", i, err)
		assert.Empty(t, p.Lines(), "case %d", i)
	}
}

func TestVariable(t *testing.T) {
	d, _ := newController(t, "iso", dialect.Options{})
	v, err := d.Variable("<_x>")
	require.NoError(t, err)
	assert.Equal(t, "#<_x>", v)
}

func TestLayerOverrides(t *testing.T) {
	machine := func(tbl *dialect.Table, c *dialect.Codes, o *dialect.Options) {
		require.NoError(t, tbl.Disable("tap"))
		require.NoError(t, c.Set("rapid", "G0"))
		require.NoError(t, tbl.SetMacro("fan_on", func(d *dialect.Dialect, v string) (string, error) {
			return "M106", nil
		}))
		require.NoError(t, tbl.SetMacro("extruder_temp",
			func(d *dialect.Dialect, v string) (string, error) {
				return "M104 S" + v, nil
			}))
		assert.Error(t, tbl.SetMacro("rapid", func(d *dialect.Dialect, v string) (string, error) {
			return "", nil
		}))
		assert.Error(t, tbl.Disable("no_such_op"))
		o.BlockStep = 1
	}
	d, p := newController(t, "linuxcnc", dialect.Options{}, machine)

	assert.False(t, d.Supports("tap"))
	assert.True(t, d.Supports("fan_on"))
	assert.True(t, d.Supports("drill"))

	require.NoError(t, d.FanOn())
	require.NoError(t, d.ExtruderTemp(215))
	require.NoError(t, d.Rapid(dialect.Axes{Z: dialect.Num(5)}, false))
	err := d.Tap(dialect.Tap{})
	assert.True(t, errors.Is(err, errors.ErrUnimplemented))

	assert.Equal(t, []string{"N10 M106", "N11 M104 S215", "N12 G0 Z5"}, p.Lines())
}

func TestCodes(t *testing.T) {
	var c dialect.Codes
	assert.NoError(t, c.Set("workplane_base", "110"))
	assert.Equal(t, 110, c.WorkplaneBase)
	assert.Error(t, c.Set("workplane_base", "G54"))
	assert.Error(t, c.Set("no_such_code", "G0"))
	assert.Contains(t, c.Names(), "tool_change")
}

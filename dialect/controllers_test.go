package dialect_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/ncpost/dialect"
)

func TestControllerProgramBegin(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ProgramBegin(1, "part"))

	lines := []string{
		"(part)",
		"N10 G49\t(Ensure tool length compensation is OFF)",
		"N20 G92.1\t(revert to previous coordinate system)",
	}
	for n := 1; n <= 9; n += 1 {
		lines = append(lines, fmt.Sprintf("N%d G10 L2 P%d R 0 (set the XY plane rotation)",
			20+n*10, n))
	}
	assert.Equal(t, lines, p.Lines())

	d, p = newController(t, "mach3", dialect.Options{})
	require.NoError(t, d.ProgramBegin(1, "part (v2)"))
	assert.Equal(t, []string{
		"(G-code created using the ncpost Mach3 post processor)",
		"(part {v2})",
	}, p.Lines())

	d, p = newController(t, "mach3", dialect.Options{Banner: "shop floor"})
	require.NoError(t, d.ProgramBegin(1, "part"))
	assert.Equal(t, []string{"(shop floor)", "(part)"}, p.Lines())
}

func TestWorkOffset(t *testing.T) {
	wo := dialect.WorkOffset{
		Workplane: 2,
		Axes:      dialect.Axes{X: num(1.5), Z: num(-2)},
		Rotation:  num(90),
	}

	cases := []struct {
		name  string
		lines []string
	}{
		{"iso", nil},
		{"linuxcnc", []string{
			"N10 G10 L20 P2 X 1.5 Z -2",
			"N20 G10 L2 P2 R 90 (set the XY plane rotation)",
		}},
		{"mach3", []string{
			"N10 G10 L2 P2 X 1.5 Z -2",
			"N20 G10 L2 P2 R 90 (set the XY plane rotation)",
		}},
	}

	for _, c := range cases {
		d, p := newController(t, c.name, dialect.Options{})
		require.NoError(t, d.WorkOffset(wo), c.name)
		assert.Equal(t, c.lines, p.Lines(), c.name)
	}
}

func TestMessages(t *testing.T) {
	cases := []struct {
		name string
		fn   func(d *dialect.Dialect, text string) error
		line string
	}{
		{"linuxcnc", (*dialect.Dialect).Message, "N10 (MSG,tool {6mm} ready)"},
		{"linuxcnc", (*dialect.Dialect).LogMessage, "N10 (LOG,tool {6mm} ready)"},
		{"linuxcnc", (*dialect.Dialect).DebugMessage, "N10 (DEBUG,tool {6mm} ready)"},
		{"mach3", (*dialect.Dialect).Message, "N10 (MSG,tool {6mm} ready)"},
		{"mach3", (*dialect.Dialect).LogMessage, "N10 (MSG,tool {6mm} ready)"},
		{"mach3", (*dialect.Dialect).DebugMessage, "N10 (MSG,tool {6mm} ready)"},
	}

	for _, c := range cases {
		d, p := newController(t, c.name, dialect.Options{})
		require.NoError(t, c.fn(d, "tool (6mm) ready"))
		assert.Equal(t, []string{c.line}, p.Lines(), c.name)
	}
}

func TestControllerToolChange(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ToolDefn(dialect.ToolDefn{ID: 1, Radius: num(3)}))
	require.NoError(t, d.ToolChange(1, "6mm end mill"))
	assert.Equal(t, []string{"N10 (MSG,6mm end mill)", "N20 T1 M06"}, p.Lines())
}

func TestLogging(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})

	points := []dialect.ProbePoint{
		{X: dialect.Str("#5061")},
		{},
		{Y: dialect.Str("#<_y>"), Z: dialect.Str("#5063")},
	}
	require.NoError(t, d.ReportProbeResults(points, "points.xml"))
	assert.Equal(t, []string{
		"N10 (Generate an XML document describing the probed coordinates found)",
		"N20 (LOGOPEN,points.xml)",
		"N30 (LOG,<POINTS>)",
		"N40 (LOG,<POINT>)",
		"N50 #<_value>=[#5061]",
		"N60 (LOG,<X>#<_value></X>)",
		"N70 (LOG,</POINT>)",
		"N80 (LOG,<POINT>)",
		"N90 #<_value>=[#<_y>]",
		"N100 (LOG,<Y>#<_value></Y>)",
		"N110 #<_value>=[#5063]",
		"N120 (LOG,<Z>#<_value></Z>)",
		"N130 (LOG,</POINT>)",
		"N140 (LOG,</POINTS>)",
		"N150 (LOGCLOSE)",
	}, p.Lines())

	d, p = newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ReportProbeResults(nil, ""))
	assert.Equal(t, []string{"N10 (LOG,<POINTS>)", "N20 (LOG,</POINTS>)"}, p.Lines())
}

func TestProbeSinglePoint(t *testing.T) {
	probe := dialect.SinglePointProbe{
		PointAlongEdgeX:       num(10),
		PointAlongEdgeY:       num(5),
		Depth:                 num(3),
		RetractedPointX:       num(15),
		RetractedPointY:       num(5),
		DestinationPointX:     num(5),
		DestinationPointY:     num(5),
		IntersectionVariableX: "<_x>",
		IntersectionVariableY: "<_y>",
		ProbeOffsetX:          "#<_r>",
		ProbeOffsetY:          "#<_r>",
	}

	d, p := newController(t, "linuxcnc", dialect.Options{})
	assert.Error(t, d.ProbeSinglePoint(probe))
	assert.Empty(t, p.Lines())

	require.NoError(t, d.Feedrate(100))
	require.NoError(t, d.ProbeSinglePoint(probe))
	assert.Equal(t, []string{
		"N10 G92 X 0 Y 0 Z 0\t(set temporary origin)",
		"N20 F100\t(Set the feed rate for probing)",
		"N30 G00 X10 Y5",
		"N40 G00 X15 Y5",
		"N50 G01 Z-3",
		"N60 G38.2 X 5 Y 5\t(Probe towards our destination point)",
		"N70 (Back off the workpiece and re-probe more slowly)",
		"N80 G38.5 X 15 Y 5\t(Move back away until the probe untrips)",
		"N90 G00 X [#5061 - [ 0.5 * [#<_r>]]] Y [#5062 - [ 0.5 * [#<_r>]]]",
		"N100 F50",
		"N110 G38.2 X 5 Y 5\t(Probe towards our destination point)",
		"N120 #<_x> = [ [#<_r>] + #5061]",
		"N130 #<_y> = [ [#<_r>] + #5062]",
		"N140 (Now move back to the original location)",
		"N150 G00 X15 Y5",
		"N160 G00 Z0",
		"N170 G00 X10 Y5",
		"N180 G00 X0 Y0",
		"N190 G92.1\t(revert to previous coordinate system)",
	}, p.Lines())

	d, _ = newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.Feedrate(100))
	probe.Depth = nil
	assert.Error(t, d.ProbeSinglePoint(probe))
}

func TestProbeDownwardPoint(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ProbeDownwardPoint(dialect.DownwardProbe{
		Depth:                 num(-10),
		IntersectionVariableZ: "<z>",
		TouchOffAsZ:           num(0),
		RapidDownToHeight:     num(5),
		Feedrate:              num(100),
	}))
	assert.Equal(t, []string{
		"N10 G92 X 0 Y 0 Z 0\t(set temporary origin)",
		"N20 F100",
		"N30 G38.2 Z -10\t(Probe towards our destination point)",
		"N40 (Back off the workpiece and re-probe more slowly)",
		"N50 G38.5 Z 0\t(Move back away until the probe untrips)",
		"N60 F50",
		"N70 G38.2 Z -10\t(Probe towards our destination point)",
		"N80 (Store the probed location somewhere we can get it again later)",
		"N90 #<z> = #5063",
		"N100 G01 Z[ #<z> + 5 ]",
		"N110 G92.1\t(revert to previous coordinate system)",
		"N120 G10 L20 P1 Z 5",
	}, p.Lines())
}

func TestConfirmProbeInput(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ProbeDownwardPoint(dialect.DownwardProbe{
		Depth:                 num(-10),
		IntersectionVariableZ: "<z>",
		Feedrate:              num(100),
		ProbeConfirm:          dialect.ProbeConfirm{UseM66: true, InputPin: dialect.Int(0)},
	}))

	lines := p.Lines()
	require.True(t, len(lines) > 13)
	assert.Equal(t, []string{
		"N30 (Confirm the probe state before we begin probing)",
		"#<counter_100> = 0",
		"O100 DO",
		"#<counter_100> = [#<counter_100> + 1]",
		"M66 P0 L 0\t(Test motion.digital-in-00)",
		"O101 IF [#5399 NE 0]",
		"N40 (MSG,The probe is already tripped.  Give it a wiggle and press cycle start to continue)",
		"N50 M00",
		"M66 P0 L 0\t(Test motion.digital-in-00)",
		"O101 ENDIF",
		"O100 WHILE [[#5399 NE 0] AND [#<counter_100> LT 10]]",
		"N60 G38.2 Z -10\t(Probe towards our destination point)",
	}, lines[2:14])
	assert.Contains(t, lines, "O103 IF [#5399 EQ 0]")
	assert.Contains(t, lines, "O102 WHILE [[#5399 EQ 0] AND [#<counter_102> LT 10]]")
	assert.Equal(t, 106, d.State().Loop)
}

func TestMeasureAndOffsetTool(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.MeasureAndOffsetTool(dialect.ToolMeasure{
		Distance:             num(50),
		SwitchOffsetVariable: "<switch>",
		Feedrate:             num(200),
	}))
	assert.True(t, d.State().TLC)
	assert.Equal(t, []string{
		"N10 G49\t(Turn OFF tool length compensation)",
		"N20 G92 X 0 Y 0 Z 0\t(set temporary origin)",
		"N30 G38.2 Z-50 F200\t(Probe down to find the tool length switch)",
		"N40 G43.1 Z[#5063 - #<switch>]\t(Turn ON tool length compensation)",
		"N50 G92.1\t(revert to previous coordinate system)",
	}, p.Lines())

	p.Reset()
	require.NoError(t, d.ProgramEnd())
	lines := p.Lines()
	assert.Equal(t, "N60 G49\t(Disable tool length compensation)", lines[0])
	assert.Equal(t, "N160 M02", lines[len(lines)-1])
	assert.False(t, d.State().TLC)
}

func TestProbeGrid(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ProbeGrid(dialect.GridProbe{
		XIncrement: 2.5,
		XCount:     4,
		YIncrement: 2.5,
		YCount:     3,
		ZSafety:    5,
		ZProbe:     -2,
		Feedrate:   100,
		Filename:   "grid.xml",
	}))

	lines := p.Lines()
	require.Len(t, lines, 53)
	assert.Equal(t, "N10 F100", lines[0])
	assert.Equal(t, "N20 G92 X 0 Y 0 Z 0\t(set temporary origin)", lines[1])
	assert.Equal(t, " #<x_increment>=2.5\t(X increment)", lines[3])
	assert.Equal(t, " #<x_count_max>=4\t(X count)", lines[4])
	assert.Equal(t, " (LOGOPEN,grid.xml)", lines[10])
	assert.Equal(t, "N30 G92.1\t(revert to previous coordinate system)", lines[52])

	assert.Error(t, d.ProbeGrid(dialect.GridProbe{XCount: 1, YCount: 1}))
}

func TestLogFileNames(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.OpenLogFile("f(1).xml"))
	require.NoError(t, d.CloseLogFile())
	assert.Equal(t, []string{"N10 (LOGOPEN,f{1}.xml)", "N20 (LOGCLOSE)"}, p.Lines())

	d, p = newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.ProbeGrid(dialect.GridProbe{
		XIncrement: 1,
		XCount:     2,
		YIncrement: 1,
		YCount:     2,
		ZSafety:    5,
		ZProbe:     -2,
		Feedrate:   100,
		Filename:   "grid(2).xml",
	}))
	assert.Equal(t, " (LOGOPEN,grid{2}.xml)", p.Lines()[10])
}

func TestNURBS(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.NurbsBeginDefinition(dialect.NURBS{ID: 1, Degree: 2, X: 1, Y: 2, Weight: 1}))
	require.NoError(t, d.NurbsAddPole(dialect.NURBS{ID: 1, X: 3, Y: 4.5, Weight: 0.5}))
	require.NoError(t, d.NurbsEndDefinition(1))
	assert.Equal(t, []string{"N10 G5.2 L3 X1 Y2 P1", "N20 X3 Y4.5 P0.5", "N30 G5.3"}, p.Lines())
}

func TestControllerVariableSet(t *testing.T) {
	d, p := newController(t, "linuxcnc", dialect.Options{})
	require.NoError(t, d.VariableSet("<_x>", "[#1 + 2]"))
	assert.Equal(t, []string{"N10 #<_x> = [#1 + 2]"}, p.Lines())
}

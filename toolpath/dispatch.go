package toolpath

import (
	"fmt"
	"math"
	"sort"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
)

// binder hands the arguments of a command to an operation, by position or by
// name. The first error sticks; done reports it along with any argument no
// parameter asked for.
type binder struct {
	cmd  *Command
	err  error
	used []bool
}

func newBinder(cmd *Command) *binder {
	return &binder{cmd: cmd, used: make([]bool, len(cmd.Args))}
}

func (b *binder) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = errors.Newf("line %d: %s: %s", b.cmd.Line, b.cmd.Name, fmt.Sprintf(format, args...))
	}
}

func (b *binder) lookup(pos int, name string) (Value, bool) {
	idx := -1
	if pos >= 0 && pos < len(b.cmd.Args) && b.cmd.Args[pos].Name == "" {
		idx = pos
	}
	for i, a := range b.cmd.Args {
		if a.Name == name {
			if idx >= 0 {
				b.fail("multiple values for argument %s", name)
				return None, false
			}
			idx = i
		}
	}
	if idx < 0 {
		return None, false
	}
	b.used[idx] = true
	v := b.cmd.Args[idx].Value
	return v, v.Kind != NoneKind
}

func (b *binder) missing(name string) {
	b.fail("missing argument %s", name)
}

func (b *binder) num(pos int, name string) *float64 {
	v, ok := b.lookup(pos, name)
	if !ok {
		return nil
	}
	if v.Kind != NumberKind {
		b.fail("argument %s: expected a number, got %s", name, v.Kind)
		return nil
	}
	return dialect.Num(v.Num)
}

func (b *binder) reqNum(pos int, name string) float64 {
	n := b.num(pos, name)
	if n == nil {
		b.missing(name)
		return 0
	}
	return *n
}

func (b *binder) integer(pos int, name string) *int {
	n := b.num(pos, name)
	if n == nil {
		return nil
	}
	if *n != math.Trunc(*n) {
		b.fail("argument %s: expected an integer, got %v", name, *n)
		return nil
	}
	return dialect.Int(int(*n))
}

func (b *binder) reqInt(pos int, name string) int {
	n := b.integer(pos, name)
	if n == nil {
		b.missing(name)
		return 0
	}
	return *n
}

func (b *binder) optText(pos int, name string) *string {
	v, ok := b.lookup(pos, name)
	if !ok {
		return nil
	}
	return dialect.Str(v.Text())
}

func (b *binder) text(pos int, name string) string {
	if s := b.optText(pos, name); s != nil {
		return *s
	}
	return ""
}

func (b *binder) reqText(pos int, name string) string {
	s := b.optText(pos, name)
	if s == nil {
		b.missing(name)
		return ""
	}
	return *s
}

func (b *binder) flag(pos int, name string, def bool) bool {
	v, ok := b.lookup(pos, name)
	if !ok {
		return def
	}
	switch v.Kind {
	case BoolKind:
		return v.Bool
	case NumberKind:
		return v.Num != 0
	}
	b.fail("argument %s: expected a boolean, got %s", name, v.Kind)
	return def
}

func (b *binder) axes(pos int) dialect.Axes {
	return dialect.Axes{
		X: b.num(pos, "x"),
		Y: b.num(pos+1, "y"),
		Z: b.num(pos+2, "z"),
		A: b.num(pos+3, "a"),
		B: b.num(pos+4, "b"),
		C: b.num(pos+5, "c"),
	}
}

func (b *binder) probeConfirm(pos int) dialect.ProbeConfirm {
	return dialect.ProbeConfirm{
		UseM66:   b.flag(pos, "use_m66_to_confirm_probe_state", false),
		InputPin: b.integer(pos+1, "m66_input_pin_number"),
	}
}

func (b *binder) done() error {
	if b.err != nil {
		return b.err
	}
	for i, used := range b.used {
		if used {
			continue
		}
		if a := b.cmd.Args[i]; a.Name != "" {
			b.fail("unexpected argument %s", a.Name)
		} else {
			b.fail("too many arguments")
		}
		break
	}
	return b.err
}

type dispatchFunc func(d *dialect.Dialect, b *binder) error

func noArgs(fn func(d *dialect.Dialect) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		if err := b.done(); err != nil {
			return err
		}
		return fn(d)
	}
}

func oneNum(name string, fn func(d *dialect.Dialect, v float64) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		v := b.reqNum(0, name)
		if err := b.done(); err != nil {
			return err
		}
		return fn(d, v)
	}
}

func oneInt(name string, fn func(d *dialect.Dialect, v int) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		v := b.reqInt(0, name)
		if err := b.done(); err != nil {
			return err
		}
		return fn(d, v)
	}
}

func oneText(name string, fn func(d *dialect.Dialect, s string) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		s := b.reqText(0, name)
		if err := b.done(); err != nil {
			return err
		}
		return fn(d, s)
	}
}

func oneFlag(name string, def bool, fn func(d *dialect.Dialect, on bool) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		on := b.flag(0, name, def)
		if err := b.done(); err != nil {
			return err
		}
		return fn(d, on)
	}
}

func withAxes(fn func(d *dialect.Dialect, a dialect.Axes) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		a := b.axes(0)
		if err := b.done(); err != nil {
			return err
		}
		return fn(d, a)
	}
}

func arc(fn func(d *dialect.Dialect, a dialect.Arc) error) dispatchFunc {
	return func(d *dialect.Dialect, b *binder) error {
		a := dialect.Arc{
			X: b.num(0, "x"),
			Y: b.num(1, "y"),
			Z: b.num(2, "z"),
			I: b.num(3, "i"),
			J: b.num(4, "j"),
			K: b.num(5, "k"),
			R: b.num(6, "r"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return fn(d, a)
	}
}

var dispatch = map[string]dispatchFunc{
	"program_begin": func(d *dialect.Dialect, b *binder) error {
		id := b.reqInt(0, "id")
		comment := b.text(1, "comment")
		if err := b.done(); err != nil {
			return err
		}
		return d.ProgramBegin(id, comment)
	},
	"program_stop": oneFlag("optional", false, (*dialect.Dialect).ProgramStop),
	"program_end":  noArgs((*dialect.Dialect).ProgramEnd),
	"sub_begin": func(d *dialect.Dialect, b *binder) error {
		id := b.reqInt(0, "id")
		name := b.text(1, "name")
		if err := b.done(); err != nil {
			return err
		}
		return d.SubBegin(id, name)
	},
	"sub_call":    oneInt("id", (*dialect.Dialect).SubCall),
	"sub_end":     noArgs((*dialect.Dialect).SubEnd),
	"imperial":    noArgs((*dialect.Dialect).Imperial),
	"metric":      noArgs((*dialect.Dialect).Metric),
	"absolute":    noArgs((*dialect.Dialect).Absolute),
	"incremental": noArgs((*dialect.Dialect).Incremental),
	"machine_units_metric": func(d *dialect.Dialect, b *binder) error {
		if _, ok := b.lookup(0, "is_metric"); !ok {
			b.missing("is_metric")
		}
		metric := b.flag(0, "is_metric", false)
		if err := b.done(); err != nil {
			return err
		}
		return d.MachineUnitsMetric(metric)
	},
	"polar": oneFlag("on", true, (*dialect.Dialect).Polar),
	"set_plane": oneInt("plane", func(d *dialect.Dialect, p int) error {
		return d.SetPlane(dialect.Plane(p))
	}),
	"set_temporary_origin":    withAxes((*dialect.Dialect).SetTemporaryOrigin),
	"remove_temporary_origin": noArgs((*dialect.Dialect).RemoveTemporaryOrigin),

	"tool_change": func(d *dialect.Dialect, b *binder) error {
		id := b.reqInt(0, "id")
		desc := b.text(1, "description")
		if err := b.done(); err != nil {
			return err
		}
		return d.ToolChange(id, desc)
	},
	"predefined_position": oneText("type", (*dialect.Dialect).PredefinedPosition),
	"tool_defn": func(d *dialect.Dialect, b *binder) error {
		td := dialect.ToolDefn{
			ID:       b.reqInt(0, "id"),
			Name:     b.text(1, "name"),
			Radius:   b.num(2, "radius"),
			Length:   b.num(3, "length"),
			Gradient: b.num(4, "gradient"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.ToolDefn(td)
	},
	"offset_radius": func(d *dialect.Dialect, b *binder) error {
		id := b.reqInt(0, "id")
		r := b.reqNum(1, "radius")
		if err := b.done(); err != nil {
			return err
		}
		return d.OffsetRadius(id, r)
	},
	"offset_length": func(d *dialect.Dialect, b *binder) error {
		id := b.reqInt(0, "id")
		l := b.reqNum(1, "length")
		if err := b.done(); err != nil {
			return err
		}
		return d.OffsetLength(id, l)
	},
	"measure_and_offset_tool": func(d *dialect.Dialect, b *binder) error {
		m := dialect.ToolMeasure{
			Distance:              b.num(0, "distance"),
			SwitchOffsetVariable:  b.text(1, "switch_offset_variable_name"),
			FixtureOffsetVariable: b.text(2, "fixture_offset_variable_name"),
			Feedrate:              b.num(3, "feed_rate"),
			ProbeConfirm:          b.probeConfirm(4),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.MeasureAndOffsetTool(m)
	},

	"datum_shift":     withAxes((*dialect.Dialect).DatumShift),
	"datum_set":       withAxes((*dialect.Dialect).DatumSet),
	"workplane":       oneInt("id", (*dialect.Dialect).Workplane),
	"clearance_plane": oneNum("z", (*dialect.Dialect).ClearancePlane),
	"work_offset": func(d *dialect.Dialect, b *binder) error {
		o := dialect.WorkOffset{
			Workplane: b.reqInt(0, "workplane"),
			Axes:      b.axes(1),
			Rotation:  b.num(7, "xy_plane_rotation"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.WorkOffset(o)
	},

	"feedrate": oneNum("f", (*dialect.Dialect).Feedrate),
	"feedrate_hv": func(d *dialect.Dialect, b *binder) error {
		h := b.reqNum(0, "fh")
		v := b.reqNum(1, "fv")
		if err := b.done(); err != nil {
			return err
		}
		return d.FeedrateHV(h, v)
	},
	"spindle": func(d *dialect.Dialect, b *binder) error {
		s := b.reqNum(0, "s")
		cw := b.flag(1, "clockwise", true)
		if err := b.done(); err != nil {
			return err
		}
		return d.Spindle(s, cw)
	},
	"coolant": func(d *dialect.Dialect, b *binder) error {
		mode := b.integer(0, "mode")
		if err := b.done(); err != nil {
			return err
		}
		if mode == nil {
			return d.Coolant(dialect.CoolantOff)
		}
		return d.Coolant(dialect.Coolant(*mode))
	},
	"gearrange": func(d *dialect.Dialect, b *binder) error {
		gear := b.integer(0, "gear")
		if err := b.done(); err != nil {
			return err
		}
		if gear == nil {
			return d.GearRange(0)
		}
		return d.GearRange(*gear)
	},

	"rapid": func(d *dialect.Dialect, b *binder) error {
		a := b.axes(0)
		machine := b.flag(6, "machine_coordinates", false)
		if err := b.done(); err != nil {
			return err
		}
		return d.Rapid(a, machine)
	},
	"feed":         withAxes((*dialect.Dialect).Feed),
	"arc_cw":       arc((*dialect.Dialect).ArcCW),
	"arc_ccw":      arc((*dialect.Dialect).ArcCCW),
	"dwell":        oneNum("t", (*dialect.Dialect).Dwell),
	"rapid_home":   withAxes((*dialect.Dialect).RapidHome),
	"rapid_unhome": noArgs((*dialect.Dialect).RapidUnhome),

	"start_CRC": func(d *dialect.Dialect, b *binder) error {
		left := b.flag(0, "left", true)
		r := b.num(1, "radius")
		if err := b.done(); err != nil {
			return err
		}
		if r == nil {
			return d.StartCRC(left, 0)
		}
		return d.StartCRC(left, *r)
	},
	"end_CRC": noArgs((*dialect.Dialect).EndCRC),

	"drill": func(d *dialect.Dialect, b *binder) error {
		c := dialect.Drill{
			X:               b.num(0, "x"),
			Y:               b.num(1, "y"),
			Z:               b.num(2, "z"),
			Depth:           b.num(3, "depth"),
			Standoff:        b.num(4, "standoff"),
			Dwell:           b.num(5, "dwell"),
			PeckDepth:       b.num(6, "peck_depth"),
			RetractMode:     b.integer(7, "retract_mode"),
			ClearanceHeight: b.num(8, "clearance_height"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.Drill(c)
	},
	"tap": func(d *dialect.Dialect, b *binder) error {
		c := dialect.Tap{
			X:               b.num(0, "x"),
			Y:               b.num(1, "y"),
			Z:               b.num(2, "z"),
			ZRetract:        b.num(3, "zretract"),
			Depth:           b.num(4, "depth"),
			Standoff:        b.num(5, "standoff"),
			DwellBottom:     b.num(6, "dwell_bottom"),
			Pitch:           b.num(7, "pitch"),
			StopPos:         b.num(8, "stoppos"),
			SpinIn:          b.num(9, "spin_in"),
			SpinOut:         b.num(10, "spin_out"),
			TapMode:         b.integer(11, "tap_mode"),
			Direction:       b.integer(12, "direction"),
			ClearanceHeight: b.num(13, "clearance_height"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.Tap(c)
	},
	"boring": func(d *dialect.Dialect, b *binder) error {
		c := dialect.Boring{
			X:               b.num(0, "x"),
			Y:               b.num(1, "y"),
			Z:               b.num(2, "z"),
			Depth:           b.num(3, "depth"),
			Standoff:        b.num(4, "standoff"),
			Dwell:           b.num(5, "dwell"),
			RetractMode:     b.integer(6, "retract_mode"),
			SpindleMode:     b.integer(7, "spindle_mode"),
			ClearanceHeight: b.num(8, "clearance_height"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.Boring(c)
	},
	"end_canned_cycle": noArgs((*dialect.Dialect).EndCannedCycle),

	"comment":      oneText("text", (*dialect.Dialect).Comment),
	"insert":       oneText("text", (*dialect.Dialect).Insert),
	"block_delete": oneFlag("on", false, (*dialect.Dialect).BlockDelete),
	"variable": oneText("id", func(d *dialect.Dialect, id string) error {
		v, err := d.Variable(id)
		if err != nil {
			return err
		}
		logger.Logger.Debugw("variable", "id", id, "value", v)
		return nil
	}),
	"variable_set": func(d *dialect.Dialect, b *binder) error {
		id := b.reqText(0, "id")
		value := b.reqText(1, "value")
		if err := b.done(); err != nil {
			return err
		}
		return d.VariableSet(id, value)
	},
	"message":        oneText("text", (*dialect.Dialect).Message),
	"log_message":    oneText("message", (*dialect.Dialect).LogMessage),
	"debug_message":  oneText("text", (*dialect.Dialect).DebugMessage),
	"open_log_file":  oneText("xml_file_name", (*dialect.Dialect).OpenLogFile),
	"close_log_file": noArgs((*dialect.Dialect).CloseLogFile),
	"log_coordinate": func(d *dialect.Dialect, b *binder) error {
		p := dialect.ProbePoint{
			X: b.optText(0, "x"),
			Y: b.optText(1, "y"),
			Z: b.optText(2, "z"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.LogCoordinate(p)
	},
	"report_probe_results": reportProbeResults,
	"probe_single_point": func(d *dialect.Dialect, b *binder) error {
		p := dialect.SinglePointProbe{
			PointAlongEdgeX:       b.num(0, "point_along_edge_x"),
			PointAlongEdgeY:       b.num(1, "point_along_edge_y"),
			Depth:                 b.num(2, "depth"),
			RetractedPointX:       b.num(3, "retracted_point_x"),
			RetractedPointY:       b.num(4, "retracted_point_y"),
			DestinationPointX:     b.num(5, "destination_point_x"),
			DestinationPointY:     b.num(6, "destination_point_y"),
			IntersectionVariableX: b.text(7, "intersection_variable_x"),
			IntersectionVariableY: b.text(8, "intersection_variable_y"),
			ProbeOffsetX:          b.text(9, "probe_offset_x_component"),
			ProbeOffsetY:          b.text(10, "probe_offset_y_component"),
			ProbeConfirm:          b.probeConfirm(11),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.ProbeSinglePoint(p)
	},
	"probe_downward_point": func(d *dialect.Dialect, b *binder) error {
		p := dialect.DownwardProbe{
			Depth:                 b.num(0, "depth"),
			IntersectionVariableZ: b.text(1, "intersection_variable_z"),
			TouchOffAsZ:           b.num(2, "touch_off_as_z"),
			RapidDownToHeight:     b.num(3, "rapid_down_to_height"),
			Feedrate:              b.num(4, "feedrate"),
			ProbeConfirm:          b.probeConfirm(5),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.ProbeDownwardPoint(p)
	},
	"probe_grid": func(d *dialect.Dialect, b *binder) error {
		p := dialect.GridProbe{
			XIncrement: b.reqNum(0, "x_increment"),
			XCount:     b.reqInt(1, "x_count"),
			YIncrement: b.reqNum(2, "y_increment"),
			YCount:     b.reqInt(3, "y_count"),
			ZSafety:    b.reqNum(4, "z_safety"),
			ZProbe:     b.reqNum(5, "z_probe"),
			Feedrate:   b.reqNum(6, "feed_rate"),
			Filename:   b.text(7, "filename"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.ProbeGrid(p)
	},
	"rapid_to_midpoint": func(d *dialect.Dialect, b *binder) error {
		m := dialect.Midpoint{
			X1: b.optText(0, "x1"),
			Y1: b.optText(1, "y1"),
			Z1: b.optText(2, "z1"),
			X2: b.optText(3, "x2"),
			Y2: b.optText(4, "y2"),
			Z2: b.optText(5, "z2"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.RapidToMidpoint(m)
	},
	"set_path_control_mode": func(d *dialect.Dialect, b *binder) error {
		mode := b.reqInt(0, "mode")
		blend := b.num(1, "motion_blending_tolerance")
		naive := b.num(2, "naive_cam_tolerance")
		if err := b.done(); err != nil {
			return err
		}
		var bt, nt float64
		if blend != nil {
			bt = *blend
		}
		if naive != nil {
			nt = *naive
		}
		return d.SetPathControlMode(dialect.PathMode(mode), bt, nt)
	},

	"nurbs_begin_definition": func(d *dialect.Dialect, b *binder) error {
		n := dialect.NURBS{
			ID:     b.reqInt(0, "id"),
			Degree: b.reqInt(1, "degree"),
			X:      b.reqNum(2, "x"),
			Y:      b.reqNum(3, "y"),
			Weight: b.reqNum(4, "weight"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.NurbsBeginDefinition(n)
	},
	"nurbs_add_pole": func(d *dialect.Dialect, b *binder) error {
		n := dialect.NURBS{
			ID:     b.reqInt(0, "id"),
			X:      b.reqNum(1, "x"),
			Y:      b.reqNum(2, "y"),
			Weight: b.reqNum(3, "weight"),
		}
		if err := b.done(); err != nil {
			return err
		}
		return d.NurbsAddPole(n)
	},
	"nurbs_end_definition": oneInt("id", (*dialect.Dialect).NurbsEndDefinition),

	"wipe":                  noArgs((*dialect.Dialect).Wipe),
	"extruder_on":           noArgs((*dialect.Dialect).ExtruderOn),
	"extruder_off":          noArgs((*dialect.Dialect).ExtruderOff),
	"set_extruder_flowrate": oneNum("flowrate", (*dialect.Dialect).SetExtruderFlowrate),
	"extruder_temp":         oneNum("temp", (*dialect.Dialect).ExtruderTemp),
	"fan_on":                noArgs((*dialect.Dialect).FanOn),
	"fan_off":               noArgs((*dialect.Dialect).FanOff),
	"build_bed_temp":        oneNum("temp", (*dialect.Dialect).BuildBedTemp),
	"chamber_temp":          oneNum("temp", (*dialect.Dialect).ChamberTemp),
}

// Older tool paths use these names.
var aliases = map[string]string{
	"clearanceplane": "clearance_plane",
}

// reportProbeResults takes up to six points positionally (x1, y1, z1, ...,
// x6, y6, z6) and any number by name.
func reportProbeResults(d *dialect.Dialect, b *binder) error {
	var points []dialect.ProbePoint
	for i := 1; ; i += 1 {
		px, py, pz := -1, -1, -1
		if i <= 6 {
			px, py, pz = (i-1)*3, (i-1)*3+1, (i-1)*3+2
		}
		p := dialect.ProbePoint{
			X: b.optText(px, fmt.Sprintf("x%d", i)),
			Y: b.optText(py, fmt.Sprintf("y%d", i)),
			Z: b.optText(pz, fmt.Sprintf("z%d", i)),
		}
		if p.X == nil && p.Y == nil && p.Z == nil {
			if i > 6 {
				break
			}
			continue
		}
		points = append(points, p)
	}
	xml := b.text(18, "xml_file_name")
	if err := b.done(); err != nil {
		return err
	}
	return d.ReportProbeResults(points, xml)
}

// Ops returns the names of the operations a tool path can call, sorted.
func Ops() []string {
	ops := make([]string, 0, len(dispatch))
	for op := range dispatch {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Execute runs one command against d.
func Execute(d *dialect.Dialect, cmd Command) error {
	name := cmd.Name
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	fn, ok := dispatch[name]
	if !ok {
		return errors.Newf("line %d: unknown operation: %s", cmd.Line, cmd.Name)
	}

	logger.Logger.Debugw("command", "line", cmd.Line, "op", name, "dialect", d.Name())
	b := newBinder(&cmd)
	if err := fn(d, b); err != nil {
		if b.err != nil {
			return err
		}
		return errors.Wrapf(err, "line %d", cmd.Line)
	}
	return nil
}

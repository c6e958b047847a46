package dialect

import (
	"fmt"
	"strconv"

	"github.com/leftmike/ncpost/errors"
)

// ISO is the generic G-code level shared by the controller dialects.
func ISO(t *Table, c *Codes, o *Options) {
	*c = isoCodes()

	t.ProgramBegin = isoProgramBegin
	t.ProgramStop = isoProgramStop
	t.ProgramEnd = isoProgramEnd
	t.SubBegin = isoSubBegin
	t.SubCall = func(d *Dialect, id int) error {
		return d.blockLine(d.codes.SubCall, fmt.Sprintf("P%d", id))
	}
	t.SubEnd = func(d *Dialect) error {
		return d.blockLine(d.codes.SubEnd)
	}

	t.Imperial = func(d *Dialect) error {
		d.state.Units = Imperial
		return d.noteLine("Imperial Values", d.codes.Imperial)
	}
	t.Metric = func(d *Dialect) error {
		d.state.Units = Metric
		return d.noteLine("Metric Values", d.codes.Metric)
	}
	t.MachineUnitsMetric = func(d *Dialect, metric bool) error {
		d.state.MachineMetric = metric
		return nil
	}
	t.Absolute = func(d *Dialect) error {
		d.state.Absolute = true
		return d.noteLine("Absolute Coordinates", d.codes.Absolute)
	}
	t.Incremental = func(d *Dialect) error {
		d.state.Absolute = false
		return d.noteLine("Incremental Coordinates", d.codes.Incremental)
	}
	t.Polar = isoPolar
	t.SetPlane = isoSetPlane
	t.SetTemporaryOrigin = isoSetTemporaryOrigin
	t.RemoveTemporaryOrigin = func(d *Dialect) error {
		d.state.TempOrigin = false
		return d.noteLine("revert to previous coordinate system", d.codes.RemoveTempOrigin)
	}

	t.ToolChange = isoToolChange
	t.PredefinedPosition = isoPredefinedPosition
	t.ToolDefn = isoToolDefn

	t.Workplane = isoWorkplane
	t.WorkOffset = func(d *Dialect, o WorkOffset) error {
		return nil
	}

	t.Feedrate = func(d *Dialect, f float64) error {
		d.state.Feed = f
		d.state.FeedHV = false
		d.state.HasFeed = true
		return nil
	}
	t.FeedrateHV = func(d *Dialect, h, v float64) error {
		d.state.Feed = h
		d.state.FeedV = v
		d.state.FeedHV = true
		d.state.HasFeed = true
		return nil
	}
	t.Spindle = isoSpindle
	t.Coolant = isoCoolant
	t.GearRange = isoGearRange

	t.Rapid = isoRapid
	t.Feed = isoFeed
	t.ArcCW = func(d *Dialect, a Arc) error {
		return isoArc(d, "arc_cw", d.codes.ArcCW, true, a)
	}
	t.ArcCCW = func(d *Dialect, a Arc) error {
		return isoArc(d, "arc_ccw", d.codes.ArcCCW, false, a)
	}
	t.Dwell = func(d *Dialect, secs float64) error {
		return d.blockLine(d.codes.Dwell, "P"+d.ffmt.String(secs))
	}

	t.StartCRC = isoStartCRC
	t.EndCRC = func(d *Dialect) error {
		return d.noteLine("end cutter radius compensation", d.codes.CRCOff)
	}

	t.Drill = isoDrill
	t.Boring = isoBoring
	t.Tap = isoTap
	t.EndCannedCycle = isoEndCannedCycle

	t.Comment = func(d *Dialect, text string) error {
		return d.blockLine(comment(text))
	}
	t.Insert = func(d *Dialect, text string) error {
		return d.blockLine(text)
	}
	t.BlockDelete = func(d *Dialect, on bool) error {
		d.state.BlockDelete = on
		return nil
	}
	t.Variable = func(d *Dialect, id string) (string, error) {
		return "#" + id, nil
	}
	t.VariableSet = isoVariableSet
	t.RapidToMidpoint = isoRapidToMidpoint
	t.SetPathControlMode = isoSetPathControlMode
}

func isoProgramBegin(d *Dialect, id int, text string) error {
	if err := d.line(comment(text)); err != nil {
		return err
	}
	d.state.TLC = false
	err := d.noteLine("Ensure tool length compensation is OFF", d.codes.TLCOff)
	if err != nil {
		return err
	}
	if err := d.RemoveTemporaryOrigin(); err != nil {
		return err
	}
	return d.resetWorkOffsets()
}

// resetWorkOffsets clears the XY rotation of coordinate systems 1 to 9.
func (d *Dialect) resetWorkOffsets() error {
	if d.ops.WorkOffset == nil {
		return nil
	}
	for n := 1; n <= 9; n += 1 {
		if err := d.WorkOffset(WorkOffset{Workplane: n, Rotation: Num(0.0)}); err != nil {
			return err
		}
	}
	return nil
}

func isoProgramStop(d *Dialect, optional bool) error {
	if optional {
		return d.blockLine(d.codes.StopOptional)
	}
	return d.blockLine(d.codes.Stop)
}

func isoProgramEnd(d *Dialect) error {
	if d.state.TLC {
		d.state.TLC = false
		if err := d.noteLine("Disable tool length compensation", d.codes.TLCOff); err != nil {
			return err
		}
	}
	if err := d.resetWorkOffsets(); err != nil {
		return err
	}
	return d.blockLine(d.codes.ProgramEnd)
}

func isoSubBegin(d *Dialect, id int, name string) error {
	s := fmt.Sprintf("%s%d", d.codes.Program, id)
	if name != "" {
		s += " " + comment(name)
	}
	return d.line(s)
}

func isoPolar(d *Dialect, on bool) error {
	d.state.Polar = on
	if on {
		return d.noteLine("Polar ON", d.codes.PolarOn)
	}
	return d.noteLine("Polar OFF", d.codes.PolarOff)
}

func isoSetPlane(d *Dialect, p Plane) error {
	switch p {
	case XYPlane:
		d.state.Plane = p
		return d.noteLine("Select XY Plane", d.codes.PlaneXY)
	case ZXPlane:
		d.state.Plane = p
		return d.noteLine("Select XZ Plane", d.codes.PlaneXZ)
	case YZPlane:
		d.state.Plane = p
		return d.noteLine("Select YZ Plane", d.codes.PlaneYZ)
	}
	return errors.ContractViolation("set_plane", "unknown plane: %d", p)
}

func isoSetTemporaryOrigin(d *Dialect, a Axes) error {
	b := d.block()
	b.word(d.codes.SetTempOrigin)
	d.spacedAxes(b, a)
	b.note("set temporary origin")
	d.state.TempOrigin = true
	return d.emit(b)
}

func isoToolChange(d *Dialect, id int, description string) error {
	if d.state.TLC {
		d.state.TLC = false
		if err := d.blockLine(d.codes.TLCOff); err != nil {
			return err
		}
	}
	if description != "" {
		var err error
		if d.ops.Message != nil {
			err = d.Message(description)
		} else {
			err = d.Comment(description)
		}
		if err != nil {
			return err
		}
	}

	d.state.Tool = id
	d.state.HasTool = true
	return d.blockLine(fmt.Sprintf("%s%d", d.codes.Tool, id), d.codes.ToolChange)
}

func isoPredefinedPosition(d *Dialect, code string) error {
	if code != "G28" && code != "G30" {
		return errors.ContractViolation("predefined_position", "expected G28 or G30, got %q",
			code)
	}
	return d.blockLine(code, "(Move to the predefined position)")
}

func isoToolDefn(d *Dialect, t ToolDefn) error {
	b := d.block()
	b.word(d.codes.ToolDefinition, fmt.Sprintf("P%d", t.ID))
	if t.Radius != nil {
		b.word(fmt.Sprintf("R%.3f", *t.Radius))
	}
	if t.Length != nil {
		b.word(fmt.Sprintf("Z%.3f", *t.Length))
	}
	return d.emit(b)
}

// isoWorkplane selects G54 to G59 for 1 to 6 and G59.1 to G59.3 for 7 to 9.
func isoWorkplane(d *Dialect, id int) error {
	var code string
	switch {
	case id >= 1 && id <= 6:
		code = fmt.Sprintf("G%d", d.codes.WorkplaneBase+id)
	case id >= 7 && id <= 9:
		code = fmt.Sprintf("G%d.%d", d.codes.WorkplaneBase+6, id-6)
	default:
		return errors.ContractViolation("workplane", "workplane must be 1 to 9, got %d", id)
	}
	d.state.Workplane = id
	return d.noteLine("Select Relative Coordinate System", code)
}

func isoSpindle(d *Dialect, s float64, clockwise bool) error {
	if s == 0.0 {
		d.state.SpindleSpeed = 0.0
		return d.blockLine(d.codes.SpindleStop)
	}
	if s < 0.0 {
		s = -s
	}
	d.state.SpindleSpeed = s
	d.state.SpindleCW = clockwise
	if !clockwise {
		s = -s
	}

	b := d.block()
	err := d.s.Set(s, " "+d.codes.SpindleCW, " "+d.codes.SpindleCCW).Write(b)
	if err != nil {
		return err
	}
	return d.emit(b)
}

func isoCoolant(d *Dialect, mode Coolant) error {
	var code string
	switch mode {
	case CoolantOff:
		code = d.codes.CoolantOff
	case CoolantMist:
		code = d.codes.CoolantMist
	case CoolantFlood:
		code = d.codes.CoolantFlood
	default:
		return errors.ContractViolation("coolant", "unknown coolant mode: %d", mode)
	}
	d.state.Coolant = mode
	return d.blockLine(code)
}

func isoGearRange(d *Dialect, gear int) error {
	switch {
	case gear <= 0:
		if d.codes.GearOff == "" {
			return errors.ContractViolation("gearrange", "no code to clear the gear range")
		}
		return d.blockLine(d.codes.GearOff)
	case gear <= 4:
		return d.blockLine(fmt.Sprintf("%s%d", d.codes.Gear, d.codes.GearBase+gear))
	}
	return errors.ContractViolation("gearrange", "gear must be 1 to 4, got %d", gear)
}

func isoRapid(d *Dialect, a Axes, machine bool) error {
	b := d.block()
	if d.opts.MachineCoordinates || machine {
		b.word(d.codes.MachineCoords)
	}
	b.word(d.codes.Rapid)
	d.axes(b, a)
	d.moveTo(a)
	return d.emit(b)
}

func isoFeed(d *Dialect, a Axes) error {
	if d.sameAxes(a) {
		return nil
	}

	b := d.block()
	b.word(d.codes.Feed)
	d.axes(b, a)

	before := d.state.Pos
	d.moveTo(a)
	d.state.Delta = Position{
		X: d.state.Pos.X - before.X,
		Y: d.state.Pos.Y - before.Y,
		Z: d.state.Pos.Z - before.Z,
	}
	if err := d.feedWord(b, d.state.feedFor(d.state.Delta)); err != nil {
		return err
	}
	return d.emit(b)
}

func isoArc(d *Dialect, op, code string, clockwise bool, a Arc) error {
	if err := d.checkRadiusArc(op, a, clockwise); err != nil {
		return err
	}

	b := d.block()
	b.word(code)
	d.axes(b, Axes{X: a.X, Y: a.Y, Z: a.Z})
	for _, w := range []struct {
		letter string
		v      *float64
	}{
		{"I", a.I},
		{"J", a.J},
		{"K", a.K},
		{"R", a.R},
	} {
		if w.v != nil {
			b.word(w.letter + d.coord(*w.v))
		}
	}

	// Arcs always use the horizontal rate.
	if err := d.feedWord(b, d.state.Feed); err != nil {
		return err
	}
	d.moveTo(Axes{X: a.X, Y: a.Y, Z: a.Z})
	return d.emit(b)
}

func isoStartCRC(d *Dialect, left bool, radius float64) error {
	if !d.state.HasTool {
		return errors.Precondition("start_CRC", "no tool selected")
	}
	tool := fmt.Sprintf("D%d", d.state.Tool)
	if left {
		return d.noteLine("start left cutter radius compensation", d.codes.CRCLeft, tool)
	}
	return d.noteLine("start right cutter radius compensation", d.codes.CRCRight, tool)
}

func isoVariableSet(d *Dialect, id, value string) error {
	if v, err := strconv.ParseFloat(value, 64); err == nil {
		return d.blockLine("#"+id, fmt.Sprintf("=%.3f", v))
	}
	return d.blockLine("#"+id, "="+value)
}

func isoRapidToMidpoint(d *Dialect, m Midpoint) error {
	b := d.block()
	b.word(d.codes.Rapid)
	for _, p := range []struct {
		letter string
		v1, v2 *string
	}{
		{"X", m.X1, m.X2},
		{"Y", m.Y1, m.Y2},
		{"Z", m.Z1, m.Z2},
	} {
		if p.v1 != nil && p.v2 != nil {
			b.axis(p.letter, fmt.Sprintf("[[[%s - %s] / 2.0] + %s]", *p.v1, *p.v2, *p.v2))
		}
	}
	return d.emit(b)
}

func isoSetPathControlMode(d *Dialect, mode PathMode, blend, naive float64) error {
	switch mode {
	case ExactPath:
		return d.blockLine(d.codes.ExactPath)
	case ExactStop:
		return d.blockLine(d.codes.ExactStop)
	case BestSpeed:
		b := d.block()
		b.word(d.codes.BestSpeed)
		if blend > 0.0 {
			b.axis("P", strconv.FormatFloat(blend, 'f', -1, 64))
		}
		if naive > 0.0 {
			b.axis("Q", strconv.FormatFloat(naive, 'f', -1, 64))
		}
		return d.emit(b)
	}
	return errors.ContractViolation("set_path_control_mode", "unknown path mode: %d", mode)
}

type axisWord struct {
	letter string
	v      *float64
}

func (a Axes) words() []axisWord {
	return []axisWord{{"X", a.X}, {"Y", a.Y}, {"Z", a.Z}, {"A", a.A}, {"B", a.B}, {"C", a.C}}
}

// axes writes the given axes as words such as X1.5.
func (d *Dialect) axes(b *block, a Axes) {
	for _, w := range a.words() {
		if w.v != nil {
			b.word(w.letter + d.coord(*w.v))
		}
	}
}

// spacedAxes writes the given axes as pairs such as X 1.5.
func (d *Dialect) spacedAxes(b *block, a Axes) {
	for _, w := range a.words() {
		if w.v != nil {
			b.axis(w.letter, d.coord(*w.v))
		}
	}
}

func (d *Dialect) moveTo(a Axes) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.state.Pos.X, a.X)
	set(&d.state.Pos.Y, a.Y)
	set(&d.state.Pos.Z, a.Z)
	set(&d.state.A, a.A)
	set(&d.state.B, a.B)
	set(&d.state.C, a.C)
}

// sameAxes reports whether every given axis formats the same as the current
// position; moves below the output resolution are not moves.
func (d *Dialect) sameAxes(a Axes) bool {
	cur := []float64{d.state.Pos.X, d.state.Pos.Y, d.state.Pos.Z, d.state.A, d.state.B, d.state.C}
	for i, w := range a.words() {
		if w.v != nil && d.coord(*w.v) != d.coord(cur[i]) {
			return false
		}
	}
	return true
}

// feedWord writes the modal F word once a feed rate has been set.
func (d *Dialect) feedWord(b *block, rate float64) error {
	if !d.state.HasFeed {
		return nil
	}
	return d.f.Set(rate).Write(b)
}

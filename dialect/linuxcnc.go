package dialect

import (
	"strconv"
)

// LinuxCNC overrides ISO for LinuxCNC (EMC2) controllers: G10 L20 work
// offsets, operator messages, XML logging, probing macros and NURBS.
func LinuxCNC(t *Table, c *Codes, o *Options) {
	c.WorkOffset = "G10 L20"

	t.WorkOffset = controllerWorkOffset
	t.ToolDefn = func(d *Dialect, td ToolDefn) error {
		return nil
	}
	t.Message = messageOp("MSG")
	t.LogMessage = messageOp("LOG")
	t.DebugMessage = messageOp("DEBUG")
	t.VariableSet = func(d *Dialect, id, value string) error {
		return d.blockLine("#"+id, "=", value)
	}

	t.OpenLogFile = func(d *Dialect, name string) error {
		return d.blockLine("(LOGOPEN," + escape(name) + ")")
	}
	t.CloseLogFile = func(d *Dialect) error {
		return d.blockLine("(LOGCLOSE)")
	}
	t.LogCoordinate = linuxcncLogCoordinate
	t.ReportProbeResults = linuxcncReportProbeResults

	t.ProbeSinglePoint = linuxcncProbeSinglePoint
	t.ProbeDownwardPoint = linuxcncProbeDownwardPoint
	t.ProbeGrid = linuxcncProbeGrid
	t.MeasureAndOffsetTool = linuxcncMeasureAndOffsetTool

	t.NurbsBeginDefinition = func(d *Dialect, n NURBS) error {
		return d.blockLine(d.codes.NurbsBegin, "L"+d.coord(float64(n.Degree+1)),
			"X"+d.coord(n.X), "Y"+d.coord(n.Y), "P"+d.coord(n.Weight))
	}
	t.NurbsAddPole = func(d *Dialect, n NURBS) error {
		return d.blockLine("X"+d.coord(n.X), "Y"+d.coord(n.Y), "P"+d.coord(n.Weight))
	}
	t.NurbsEndDefinition = func(d *Dialect, id int) error {
		return d.blockLine(d.codes.NurbsEnd)
	}
}

// controllerWorkOffset sets the origin of a coordinate system with the
// dialect's work offset code, then its XY rotation.
func controllerWorkOffset(d *Dialect, o WorkOffset) error {
	p := "P" + strconv.Itoa(o.Workplane)
	if !o.Axes.empty() {
		b := d.block()
		b.word(d.codes.WorkOffset, p)
		d.spacedAxes(b, o.Axes)
		if err := d.emit(b); err != nil {
			return err
		}
	}

	if o.Rotation != nil {
		return d.blockLine(d.codes.WorkRotation, p, "R", d.coord(*o.Rotation),
			"(set the XY plane rotation)")
	}
	return nil
}

func messageOp(kind string) func(d *Dialect, text string) error {
	return func(d *Dialect, text string) error {
		return d.blockLine("(" + kind + "," + escape(text) + ")")
	}
}

func linuxcncLogCoordinate(d *Dialect, p ProbePoint) error {
	if p.empty() {
		return nil
	}

	lines := []string{"(LOG,<POINT>)"}
	for _, a := range []struct {
		tag  string
		expr *string
	}{
		{"X", p.X},
		{"Y", p.Y},
		{"Z", p.Z},
	} {
		if a.expr != nil {
			lines = append(lines, namedParam("_value")+"=["+*a.expr+"]",
				"(LOG,<"+a.tag+">"+namedParam("_value")+"</"+a.tag+">)")
		}
	}
	lines = append(lines, "(LOG,</POINT>)")

	for _, l := range lines {
		if err := d.blockLine(l); err != nil {
			return err
		}
	}
	return nil
}

// linuxcncReportProbeResults logs points as an XML document; with a file name
// the document goes to its own log file.
func linuxcncReportProbeResults(d *Dialect, points []ProbePoint, xml string) error {
	if xml != "" {
		err := d.Comment("Generate an XML document describing the probed coordinates found")
		if err != nil {
			return err
		}
		if err := d.OpenLogFile(xml); err != nil {
			return err
		}
	}

	if err := d.blockLine("(LOG,<POINTS>)"); err != nil {
		return err
	}
	for _, p := range points {
		if err := d.LogCoordinate(p); err != nil {
			return err
		}
	}
	if err := d.blockLine("(LOG,</POINTS>)"); err != nil {
		return err
	}

	if xml != "" {
		return d.CloseLogFile()
	}
	return nil
}

package dialect

import (
	"fmt"
	"strconv"

	"github.com/leftmike/ncpost/errors"
)

// The probing macros work in a temporary coordinate system (G92) set at the
// current position and remove it when done, so results of successive probes
// can be compared.

// required returns a contract violation naming the first missing parameter.
func required(op string, params ...interface{}) error {
	for i := 0; i+1 < len(params); i += 2 {
		name := params[i].(string)
		switch v := params[i+1].(type) {
		case *float64:
			if v == nil {
				return errors.ContractViolation(op, "missing %s", name)
			}
		case string:
			if v == "" {
				return errors.ContractViolation(op, "missing %s", name)
			}
		}
	}
	return nil
}

func (d *Dialect) lines(ls ...string) error {
	for _, l := range ls {
		if err := d.line(l); err != nil {
			return err
		}
	}
	return nil
}

// forcedFeed writes a block setting the feed rate even if it has not changed.
func (d *Dialect) forcedFeed(rate float64, note string) error {
	b := d.block()
	d.f.Reset()
	if err := d.f.Set(rate).Write(b); err != nil {
		return err
	}
	if note != "" {
		b.note(note)
	}
	return d.emit(b)
}

// confirmProbeInput polls the probe input with M66 until it reads tripped, or
// untripped, stopping the program for the operator in between. It writes
// nothing unless M66 confirmation is enabled with an input pin.
func (d *Dialect) confirmProbeInput(tripped bool, pc ProbeConfirm) error {
	if !pc.UseM66 || pc.InputPin == nil {
		return nil
	}

	if err := d.Comment("Confirm the probe state before we begin probing"); err != nil {
		return err
	}

	do := d.state.nextLoop()
	iff := d.state.nextLoop()
	counter := namedParam(fmt.Sprintf("counter_%d", do))
	pin := strconv.Itoa(*pc.InputPin)
	test := fmt.Sprintf("M66 P%s L 0\t(Test motion.digital-in-0%s)", pin, pin)

	cmp, msg := "NE", "The probe is already tripped.  Give it a wiggle and press cycle start to continue"
	if tripped {
		cmp, msg = "EQ", "The probe is NOT currently tripped.  Give it a wiggle and press cycle start to continue"
	}
	result := param(m66ResultParam)

	err := d.lines(
		counter+" = 0",
		fmt.Sprintf("O%d DO", do),
		fmt.Sprintf("%s = [%s + 1]", counter, counter),
		test,
		fmt.Sprintf("O%d IF [%s %s 0]", iff, result, cmp))
	if err != nil {
		return err
	}
	if err := d.Message(msg); err != nil {
		return err
	}
	if err := d.ProgramStop(false); err != nil {
		return err
	}
	return d.lines(
		test,
		fmt.Sprintf("O%d ENDIF", iff),
		fmt.Sprintf("O%d WHILE [[%s %s 0] AND [%s LT %d]]", do, result, cmp, counter,
			probeConfirmRetries))
}

func (d *Dialect) zeroTemporaryOrigin() error {
	return d.SetTemporaryOrigin(Axes{X: Num(0.0), Y: Num(0.0), Z: Num(0.0)})
}

// linuxcncProbeSinglePoint probes an edge: from above the edge it backs off to
// the retracted point, plunges by depth, probes toward the destination, backs
// off and re-probes at half the feed rate. The edge, corrected by the probe
// offset, is stored in the intersection variables.
func linuxcncProbeSinglePoint(d *Dialect, p SinglePointProbe) error {
	const op = "probe_single_point"
	err := required(op,
		"point_along_edge_x", p.PointAlongEdgeX, "point_along_edge_y", p.PointAlongEdgeY,
		"depth", p.Depth,
		"retracted_point_x", p.RetractedPointX, "retracted_point_y", p.RetractedPointY,
		"destination_point_x", p.DestinationPointX, "destination_point_y", p.DestinationPointY,
		"intersection_variable_x", p.IntersectionVariableX,
		"intersection_variable_y", p.IntersectionVariableY,
		"probe_offset_x_component", p.ProbeOffsetX, "probe_offset_y_component", p.ProbeOffsetY)
	if err != nil {
		return err
	}
	if !d.state.HasFeed {
		return errors.Precondition(op, "no feed rate set")
	}

	rate := d.state.Feed
	probe := func() error {
		b := d.block()
		b.word(d.codes.ProbeTowards)
		b.axis("X", d.coord(*p.DestinationPointX))
		b.axis("Y", d.coord(*p.DestinationPointY))
		b.note("Probe towards our destination point")
		return d.emit(b)
	}

	steps := []func() error{
		d.zeroTemporaryOrigin,
		func() error { return d.forcedFeed(rate, "Set the feed rate for probing") },
		func() error {
			return d.Rapid(Axes{X: p.PointAlongEdgeX, Y: p.PointAlongEdgeY}, false)
		},
		func() error {
			return d.Rapid(Axes{X: p.RetractedPointX, Y: p.RetractedPointY}, false)
		},
		func() error { return d.Feed(Axes{Z: Num(-*p.Depth)}) },
		func() error { return d.confirmProbeInput(false, p.ProbeConfirm) },
		probe,
		func() error { return d.confirmProbeInput(true, p.ProbeConfirm) },
		func() error { return d.Comment("Back off the workpiece and re-probe more slowly") },
		func() error {
			b := d.block()
			b.word(d.codes.ProbeAwayQuiet)
			b.axis("X", d.coord(*p.RetractedPointX))
			b.axis("Y", d.coord(*p.RetractedPointY))
			b.note("Move back away until the probe untrips")
			return d.emit(b)
		},
		func() error {
			b := d.block()
			b.word(d.codes.Rapid)
			b.axis("X", fmt.Sprintf("[%s - [ 0.5 * [%s]]]", param(probeXParam), p.ProbeOffsetX))
			b.axis("Y", fmt.Sprintf("[%s - [ 0.5 * [%s]]]", param(probeYParam), p.ProbeOffsetY))
			return d.emit(b)
		},
		func() error { return d.forcedFeed(rate/2.0, "") },
		func() error { return d.confirmProbeInput(false, p.ProbeConfirm) },
		probe,
		func() error {
			return d.blockLine("#"+p.IntersectionVariableX, "=",
				fmt.Sprintf("[ [%s] + %s]", p.ProbeOffsetX, param(probeXParam)))
		},
		func() error {
			return d.blockLine("#"+p.IntersectionVariableY, "=",
				fmt.Sprintf("[ [%s] + %s]", p.ProbeOffsetY, param(probeYParam)))
		},
		func() error { return d.Comment("Now move back to the original location") },
		func() error {
			return d.Rapid(Axes{X: p.RetractedPointX, Y: p.RetractedPointY}, false)
		},
		func() error { return d.Rapid(Axes{Z: Num(0.0)}, false) },
		func() error {
			return d.Rapid(Axes{X: p.PointAlongEdgeX, Y: p.PointAlongEdgeY}, false)
		},
		func() error { return d.Rapid(Axes{X: Num(0.0), Y: Num(0.0)}, false) },
		d.RemoveTemporaryOrigin,
	}
	return run(steps)
}

func run(steps []func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// linuxcncProbeDownwardPoint probes down by depth and stores the Z found, in
// temporary coordinates, in the intersection variable. Given TouchOffAsZ and
// RapidDownToHeight, it then moves to that height above the point and makes
// the current coordinate system read TouchOffAsZ there.
func linuxcncProbeDownwardPoint(d *Dialect, p DownwardProbe) error {
	const op = "probe_downward_point"
	err := required(op, "depth", p.Depth, "intersection_variable_z", p.IntersectionVariableZ,
		"feedrate", p.Feedrate)
	if err != nil {
		return err
	}

	probe := func() error {
		b := d.block()
		b.word(d.codes.ProbeTowards)
		b.axis("Z", d.coord(*p.Depth))
		b.note("Probe towards our destination point")
		return d.emit(b)
	}
	setFeed := func(rate float64) func() error {
		return func() error {
			if err := d.Feedrate(rate); err != nil {
				return err
			}
			return d.forcedFeed(rate, "")
		}
	}

	steps := []func() error{
		d.zeroTemporaryOrigin,
		setFeed(*p.Feedrate),
		func() error { return d.confirmProbeInput(false, p.ProbeConfirm) },
		probe,
		func() error { return d.confirmProbeInput(true, p.ProbeConfirm) },
		func() error { return d.Comment("Back off the workpiece and re-probe more slowly") },
		func() error {
			b := d.block()
			b.word(d.codes.ProbeAwayQuiet)
			b.axis("Z", d.coord(0.0))
			b.note("Move back away until the probe untrips")
			return d.emit(b)
		},
		setFeed(*p.Feedrate / 2.0),
		func() error { return d.confirmProbeInput(false, p.ProbeConfirm) },
		probe,
		func() error {
			return d.Comment("Store the probed location somewhere we can get it again later")
		},
		func() error {
			return d.blockLine("#"+p.IntersectionVariableZ, "=", param(probeZParam))
		},
	}
	if p.TouchOffAsZ != nil && p.RapidDownToHeight != nil {
		steps = append(steps,
			func() error {
				return d.blockLine(d.codes.Feed, fmt.Sprintf("Z[ #%s + %s ]",
					p.IntersectionVariableZ, d.coord(*p.RapidDownToHeight)))
			},
			d.RemoveTemporaryOrigin,
			func() error {
				b := d.block()
				b.word(d.codes.WorkOffset, "P"+strconv.Itoa(d.state.Workplane))
				b.axis("Z", d.coord(*p.RapidDownToHeight+*p.TouchOffAsZ))
				return d.emit(b)
			})
	} else {
		steps = append(steps, d.RemoveTemporaryOrigin)
	}
	return run(steps)
}

// linuxcncMeasureAndOffsetTool probes down onto a tool length switch and turns
// on tool length compensation for the length found.
func linuxcncMeasureAndOffsetTool(d *Dialect, m ToolMeasure) error {
	const op = "measure_and_offset_tool"
	err := required(op, "distance", m.Distance,
		"switch_offset_variable_name", m.SwitchOffsetVariable, "feed_rate", m.Feedrate)
	if err != nil {
		return err
	}

	steps := []func() error{
		func() error {
			d.state.TLC = false
			return d.noteLine("Turn OFF tool length compensation", d.codes.TLCOff)
		},
		d.zeroTemporaryOrigin,
		func() error { return d.confirmProbeInput(false, m.ProbeConfirm) },
		func() error {
			return d.noteLine("Probe down to find the tool length switch", d.codes.ProbeTowards,
				"Z"+d.coord(-*m.Distance), "F"+d.coord(*m.Feedrate))
		},
		func() error {
			d.state.TLC = true
			return d.noteLine("Turn ON tool length compensation", d.codes.TLCOn,
				fmt.Sprintf("Z[%s - #%s]", param(probeZParam), m.SwitchOffsetVariable))
		},
		d.RemoveTemporaryOrigin,
	}
	return run(steps)
}

// linuxcncProbeGrid probes a grid of points in a serpentine order, logging
// each to an XML file. The loops run on the controller; only the grid size
// and heights are filled in here.
func linuxcncProbeGrid(d *Dialect, g GridProbe) error {
	if g.XCount <= 0 || g.YCount <= 0 {
		return errors.ContractViolation("probe_grid", "grid must have at least one point")
	}
	if g.Filename == "" {
		return errors.ContractViolation("probe_grid", "missing filename")
	}

	if err := d.blockLine("F" + d.coord(g.Feedrate)); err != nil {
		return err
	}
	if err := d.zeroTemporaryOrigin(); err != nil {
		return err
	}

	grid := []string{
		"#<x_start>=0.0\t(X start)",
		"#<x_increment>=" + d.coord(g.XIncrement) + "\t(X increment)",
		"#<x_count_max>=" + strconv.Itoa(g.XCount) + "\t(X count)",
		"#<y_start>=0.0",
		"#<y_increment>=" + d.coord(g.YIncrement),
		"#<y_count_max>=" + strconv.Itoa(g.YCount) + "\t(Y count)",
		"#<z_safety>=" + d.coord(g.ZSafety) + "\t(Z safety)",
		"#<z_probe>=" + d.coord(g.ZProbe) + "\t(Z probe)",
		"(LOGOPEN," + escape(g.Filename) + ")",
		"(LOG,<POINTS>)",
		"#<x_count>=0",
		"#<y_count>=0",
		"G00 Z#<z_safety>",
		"O1 while [#<y_count> lt #<y_count_max>]",
		"#<x_count>=0",
		"G00 Y[#<y_start>+#<y_increment>*#<y_count>]",
		"O2 while [#<x_count> lt #<x_count_max>]",
		"O3 if [[#<y_count>/2] - fix[#<y_count>/2] eq 0]",
		"#<x_target>=[#<x_start>+#<x_increment>*#<x_count>]",
		"O3 else",
		"#<x_target>=[#<x_start>+#<x_increment>*[#<x_count_max>-#<x_count> - 1]]",
		"O3 endif",
		"#5070=1",
		"O4 while [#5070 NE 0]",
		"G38.5 z#<z_safety>",
		"G38.3 x#<x_target>",
		"O4 endwhile",
		"G00 Z[#5063 + 1.0] (move upwards to really make sure we are ready to probe)",
		"G04 P 0.1 (Pause to allow vibration to stop)",
		"G38.3 Z#<z_probe>",
		"O5 if [ #5071 NE 0 ]",
		"(MSG,Press cycle start when ready to continue)",
		"O5 else",
		"(LOG,<POINT>)",
		"(LOG,<ROW>#<x_count></ROW>)",
		"(LOG,<COL>#<y_count></COL>)",
		"(LOG,<X>#5061</X>)",
		"(LOG,<Y>#5062</Y>)",
		"(LOG,<Z>#5063</Z>)",
		"(LOG,</POINT>)",
		"O5 endif",
		"#<x_count> = [#<x_count> + 1]",
		"O2 endwhile",
		"G0 Z#<z_safety>",
		"#<y_count>=[#<y_count> + 1]",
		"O1 endwhile",
		"(LOG,</POINTS>)",
		"(LOGCLOSE)",
		"G00 Z#<z_safety>",
		"G00 X#<x_start> Y#<y_start>",
	}
	for i := range grid {
		grid[i] = " " + grid[i]
	}
	if err := d.lines(grid...); err != nil {
		return err
	}
	return d.RemoveTemporaryOrigin()
}

package dialect

// The methods below dispatch through the assembled table, so an operation
// missing from every layer reports an unimplemented error naming it.

func (d *Dialect) ProgramBegin(id int, comment string) error {
	if d.ops.ProgramBegin == nil {
		return d.unimplemented("program_begin")
	}
	return d.ops.ProgramBegin(d, id, comment)
}

func (d *Dialect) ProgramStop(optional bool) error {
	if d.ops.ProgramStop == nil {
		return d.unimplemented("program_stop")
	}
	return d.ops.ProgramStop(d, optional)
}

func (d *Dialect) ProgramEnd() error {
	if d.ops.ProgramEnd == nil {
		return d.unimplemented("program_end")
	}
	return d.ops.ProgramEnd(d)
}

func (d *Dialect) SubBegin(id int, name string) error {
	if d.ops.SubBegin == nil {
		return d.unimplemented("sub_begin")
	}
	return d.ops.SubBegin(d, id, name)
}

func (d *Dialect) SubCall(id int) error {
	if d.ops.SubCall == nil {
		return d.unimplemented("sub_call")
	}
	return d.ops.SubCall(d, id)
}

func (d *Dialect) SubEnd() error {
	if d.ops.SubEnd == nil {
		return d.unimplemented("sub_end")
	}
	return d.ops.SubEnd(d)
}

func (d *Dialect) Imperial() error {
	if d.ops.Imperial == nil {
		return d.unimplemented("imperial")
	}
	return d.ops.Imperial(d)
}

func (d *Dialect) Metric() error {
	if d.ops.Metric == nil {
		return d.unimplemented("metric")
	}
	return d.ops.Metric(d)
}

func (d *Dialect) MachineUnitsMetric(metric bool) error {
	if d.ops.MachineUnitsMetric == nil {
		return d.unimplemented("machine_units_metric")
	}
	return d.ops.MachineUnitsMetric(d, metric)
}

func (d *Dialect) Absolute() error {
	if d.ops.Absolute == nil {
		return d.unimplemented("absolute")
	}
	return d.ops.Absolute(d)
}

func (d *Dialect) Incremental() error {
	if d.ops.Incremental == nil {
		return d.unimplemented("incremental")
	}
	return d.ops.Incremental(d)
}

func (d *Dialect) Polar(on bool) error {
	if d.ops.Polar == nil {
		return d.unimplemented("polar")
	}
	return d.ops.Polar(d, on)
}

func (d *Dialect) SetPlane(p Plane) error {
	if d.ops.SetPlane == nil {
		return d.unimplemented("set_plane")
	}
	return d.ops.SetPlane(d, p)
}

func (d *Dialect) SetTemporaryOrigin(a Axes) error {
	if d.ops.SetTemporaryOrigin == nil {
		return d.unimplemented("set_temporary_origin")
	}
	return d.ops.SetTemporaryOrigin(d, a)
}

func (d *Dialect) RemoveTemporaryOrigin() error {
	if d.ops.RemoveTemporaryOrigin == nil {
		return d.unimplemented("remove_temporary_origin")
	}
	return d.ops.RemoveTemporaryOrigin(d)
}

func (d *Dialect) ToolChange(id int, description string) error {
	if d.ops.ToolChange == nil {
		return d.unimplemented("tool_change")
	}
	return d.ops.ToolChange(d, id, description)
}

func (d *Dialect) PredefinedPosition(code string) error {
	if d.ops.PredefinedPosition == nil {
		return d.unimplemented("predefined_position")
	}
	return d.ops.PredefinedPosition(d, code)
}

func (d *Dialect) ToolDefn(t ToolDefn) error {
	if d.ops.ToolDefn == nil {
		return d.unimplemented("tool_defn")
	}
	return d.ops.ToolDefn(d, t)
}

func (d *Dialect) OffsetRadius(id int, radius float64) error {
	if d.ops.OffsetRadius == nil {
		return d.unimplemented("offset_radius")
	}
	return d.ops.OffsetRadius(d, id, radius)
}

func (d *Dialect) OffsetLength(id int, length float64) error {
	if d.ops.OffsetLength == nil {
		return d.unimplemented("offset_length")
	}
	return d.ops.OffsetLength(d, id, length)
}

func (d *Dialect) MeasureAndOffsetTool(m ToolMeasure) error {
	if d.ops.MeasureAndOffsetTool == nil {
		return d.unimplemented("measure_and_offset_tool")
	}
	return d.ops.MeasureAndOffsetTool(d, m)
}

func (d *Dialect) DatumShift(a Axes) error {
	if d.ops.DatumShift == nil {
		return d.unimplemented("datum_shift")
	}
	return d.ops.DatumShift(d, a)
}

func (d *Dialect) DatumSet(a Axes) error {
	if d.ops.DatumSet == nil {
		return d.unimplemented("datum_set")
	}
	return d.ops.DatumSet(d, a)
}

func (d *Dialect) Workplane(id int) error {
	if d.ops.Workplane == nil {
		return d.unimplemented("workplane")
	}
	return d.ops.Workplane(d, id)
}

func (d *Dialect) ClearancePlane(z float64) error {
	if d.ops.ClearancePlane == nil {
		return d.unimplemented("clearance_plane")
	}
	return d.ops.ClearancePlane(d, z)
}

func (d *Dialect) WorkOffset(o WorkOffset) error {
	if d.ops.WorkOffset == nil {
		return d.unimplemented("work_offset")
	}
	return d.ops.WorkOffset(d, o)
}

func (d *Dialect) Feedrate(f float64) error {
	if d.ops.Feedrate == nil {
		return d.unimplemented("feedrate")
	}
	return d.ops.Feedrate(d, f)
}

func (d *Dialect) FeedrateHV(h, v float64) error {
	if d.ops.FeedrateHV == nil {
		return d.unimplemented("feedrate_hv")
	}
	return d.ops.FeedrateHV(d, h, v)
}

func (d *Dialect) Spindle(s float64, clockwise bool) error {
	if d.ops.Spindle == nil {
		return d.unimplemented("spindle")
	}
	return d.ops.Spindle(d, s, clockwise)
}

func (d *Dialect) Coolant(mode Coolant) error {
	if d.ops.Coolant == nil {
		return d.unimplemented("coolant")
	}
	return d.ops.Coolant(d, mode)
}

func (d *Dialect) GearRange(gear int) error {
	if d.ops.GearRange == nil {
		return d.unimplemented("gearrange")
	}
	return d.ops.GearRange(d, gear)
}

func (d *Dialect) Rapid(a Axes, machine bool) error {
	if d.ops.Rapid == nil {
		return d.unimplemented("rapid")
	}
	return d.ops.Rapid(d, a, machine)
}

func (d *Dialect) Feed(a Axes) error {
	if d.ops.Feed == nil {
		return d.unimplemented("feed")
	}
	return d.ops.Feed(d, a)
}

func (d *Dialect) ArcCW(a Arc) error {
	if d.ops.ArcCW == nil {
		return d.unimplemented("arc_cw")
	}
	return d.ops.ArcCW(d, a)
}

func (d *Dialect) ArcCCW(a Arc) error {
	if d.ops.ArcCCW == nil {
		return d.unimplemented("arc_ccw")
	}
	return d.ops.ArcCCW(d, a)
}

func (d *Dialect) Dwell(t float64) error {
	if d.ops.Dwell == nil {
		return d.unimplemented("dwell")
	}
	return d.ops.Dwell(d, t)
}

func (d *Dialect) RapidHome(a Axes) error {
	if d.ops.RapidHome == nil {
		return d.unimplemented("rapid_home")
	}
	return d.ops.RapidHome(d, a)
}

func (d *Dialect) RapidUnhome() error {
	if d.ops.RapidUnhome == nil {
		return d.unimplemented("rapid_unhome")
	}
	return d.ops.RapidUnhome(d)
}

func (d *Dialect) StartCRC(left bool, radius float64) error {
	if d.ops.StartCRC == nil {
		return d.unimplemented("start_CRC")
	}
	return d.ops.StartCRC(d, left, radius)
}

func (d *Dialect) EndCRC() error {
	if d.ops.EndCRC == nil {
		return d.unimplemented("end_CRC")
	}
	return d.ops.EndCRC(d)
}

func (d *Dialect) Drill(c Drill) error {
	if d.ops.Drill == nil {
		return d.unimplemented("drill")
	}
	return d.ops.Drill(d, c)
}

func (d *Dialect) Tap(c Tap) error {
	if d.ops.Tap == nil {
		return d.unimplemented("tap")
	}
	return d.ops.Tap(d, c)
}

func (d *Dialect) Boring(c Boring) error {
	if d.ops.Boring == nil {
		return d.unimplemented("boring")
	}
	return d.ops.Boring(d, c)
}

func (d *Dialect) EndCannedCycle() error {
	if d.ops.EndCannedCycle == nil {
		return d.unimplemented("end_canned_cycle")
	}
	return d.ops.EndCannedCycle(d)
}

func (d *Dialect) Comment(text string) error {
	if d.ops.Comment == nil {
		return d.unimplemented("comment")
	}
	return d.ops.Comment(d, text)
}

func (d *Dialect) Insert(text string) error {
	if d.ops.Insert == nil {
		return d.unimplemented("insert")
	}
	return d.ops.Insert(d, text)
}

func (d *Dialect) BlockDelete(on bool) error {
	if d.ops.BlockDelete == nil {
		return d.unimplemented("block_delete")
	}
	return d.ops.BlockDelete(d, on)
}

func (d *Dialect) Variable(id string) (string, error) {
	if d.ops.Variable == nil {
		return "", d.unimplemented("variable")
	}
	return d.ops.Variable(d, id)
}

func (d *Dialect) VariableSet(id, value string) error {
	if d.ops.VariableSet == nil {
		return d.unimplemented("variable_set")
	}
	return d.ops.VariableSet(d, id, value)
}

func (d *Dialect) Message(text string) error {
	if d.ops.Message == nil {
		return d.unimplemented("message")
	}
	return d.ops.Message(d, text)
}

func (d *Dialect) LogMessage(text string) error {
	if d.ops.LogMessage == nil {
		return d.unimplemented("log_message")
	}
	return d.ops.LogMessage(d, text)
}

func (d *Dialect) DebugMessage(text string) error {
	if d.ops.DebugMessage == nil {
		return d.unimplemented("debug_message")
	}
	return d.ops.DebugMessage(d, text)
}

func (d *Dialect) OpenLogFile(name string) error {
	if d.ops.OpenLogFile == nil {
		return d.unimplemented("open_log_file")
	}
	return d.ops.OpenLogFile(d, name)
}

func (d *Dialect) CloseLogFile() error {
	if d.ops.CloseLogFile == nil {
		return d.unimplemented("close_log_file")
	}
	return d.ops.CloseLogFile(d)
}

func (d *Dialect) LogCoordinate(p ProbePoint) error {
	if d.ops.LogCoordinate == nil {
		return d.unimplemented("log_coordinate")
	}
	return d.ops.LogCoordinate(d, p)
}

func (d *Dialect) ReportProbeResults(points []ProbePoint, xml string) error {
	if d.ops.ReportProbeResults == nil {
		return d.unimplemented("report_probe_results")
	}
	return d.ops.ReportProbeResults(d, points, xml)
}

func (d *Dialect) ProbeSinglePoint(p SinglePointProbe) error {
	if d.ops.ProbeSinglePoint == nil {
		return d.unimplemented("probe_single_point")
	}
	return d.ops.ProbeSinglePoint(d, p)
}

func (d *Dialect) ProbeDownwardPoint(p DownwardProbe) error {
	if d.ops.ProbeDownwardPoint == nil {
		return d.unimplemented("probe_downward_point")
	}
	return d.ops.ProbeDownwardPoint(d, p)
}

func (d *Dialect) ProbeGrid(p GridProbe) error {
	if d.ops.ProbeGrid == nil {
		return d.unimplemented("probe_grid")
	}
	return d.ops.ProbeGrid(d, p)
}

func (d *Dialect) RapidToMidpoint(m Midpoint) error {
	if d.ops.RapidToMidpoint == nil {
		return d.unimplemented("rapid_to_midpoint")
	}
	return d.ops.RapidToMidpoint(d, m)
}

func (d *Dialect) SetPathControlMode(mode PathMode, blend, naive float64) error {
	if d.ops.SetPathControlMode == nil {
		return d.unimplemented("set_path_control_mode")
	}
	return d.ops.SetPathControlMode(d, mode, blend, naive)
}

func (d *Dialect) NurbsBeginDefinition(n NURBS) error {
	if d.ops.NurbsBeginDefinition == nil {
		return d.unimplemented("nurbs_begin_definition")
	}
	return d.ops.NurbsBeginDefinition(d, n)
}

func (d *Dialect) NurbsAddPole(n NURBS) error {
	if d.ops.NurbsAddPole == nil {
		return d.unimplemented("nurbs_add_pole")
	}
	return d.ops.NurbsAddPole(d, n)
}

func (d *Dialect) NurbsEndDefinition(id int) error {
	if d.ops.NurbsEndDefinition == nil {
		return d.unimplemented("nurbs_end_definition")
	}
	return d.ops.NurbsEndDefinition(d, id)
}

func (d *Dialect) Wipe() error {
	if d.ops.Wipe == nil {
		return d.unimplemented("wipe")
	}
	return d.ops.Wipe(d)
}

func (d *Dialect) ExtruderOn() error {
	if d.ops.ExtruderOn == nil {
		return d.unimplemented("extruder_on")
	}
	return d.ops.ExtruderOn(d)
}

func (d *Dialect) ExtruderOff() error {
	if d.ops.ExtruderOff == nil {
		return d.unimplemented("extruder_off")
	}
	return d.ops.ExtruderOff(d)
}

func (d *Dialect) SetExtruderFlowrate(v float64) error {
	if d.ops.SetExtruderFlowrate == nil {
		return d.unimplemented("set_extruder_flowrate")
	}
	return d.ops.SetExtruderFlowrate(d, v)
}

func (d *Dialect) ExtruderTemp(v float64) error {
	if d.ops.ExtruderTemp == nil {
		return d.unimplemented("extruder_temp")
	}
	return d.ops.ExtruderTemp(d, v)
}

func (d *Dialect) FanOn() error {
	if d.ops.FanOn == nil {
		return d.unimplemented("fan_on")
	}
	return d.ops.FanOn(d)
}

func (d *Dialect) FanOff() error {
	if d.ops.FanOff == nil {
		return d.unimplemented("fan_off")
	}
	return d.ops.FanOff(d)
}

func (d *Dialect) BuildBedTemp(v float64) error {
	if d.ops.BuildBedTemp == nil {
		return d.unimplemented("build_bed_temp")
	}
	return d.ops.BuildBedTemp(d, v)
}

func (d *Dialect) ChamberTemp(v float64) error {
	if d.ops.ChamberTemp == nil {
		return d.unimplemented("chamber_temp")
	}
	return d.ops.ChamberTemp(d, v)
}

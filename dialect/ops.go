package dialect

import (
	"reflect"
	"sort"

	"github.com/leftmike/ncpost/errors"
)

// Table holds one function per operation. A nil entry is an operation the
// dialect does not support: calling it fails with an unimplemented error
// naming the operation.
type Table struct {
	ProgramBegin          func(d *Dialect, id int, comment string) error `op:"program_begin"`
	ProgramStop           func(d *Dialect, optional bool) error          `op:"program_stop"`
	ProgramEnd            func(d *Dialect) error                         `op:"program_end"`
	SubBegin              func(d *Dialect, id int, name string) error    `op:"sub_begin"`
	SubCall               func(d *Dialect, id int) error                 `op:"sub_call"`
	SubEnd                func(d *Dialect) error                         `op:"sub_end"`
	Imperial              func(d *Dialect) error                         `op:"imperial"`
	Metric                func(d *Dialect) error                         `op:"metric"`
	MachineUnitsMetric    func(d *Dialect, metric bool) error            `op:"machine_units_metric"`
	Absolute              func(d *Dialect) error                         `op:"absolute"`
	Incremental           func(d *Dialect) error                         `op:"incremental"`
	Polar                 func(d *Dialect, on bool) error                `op:"polar"`
	SetPlane              func(d *Dialect, p Plane) error                `op:"set_plane"`
	SetTemporaryOrigin    func(d *Dialect, a Axes) error                 `op:"set_temporary_origin"`
	RemoveTemporaryOrigin func(d *Dialect) error                         `op:"remove_temporary_origin"`

	ToolChange           func(d *Dialect, id int, description string) error `op:"tool_change"`
	PredefinedPosition   func(d *Dialect, code string) error                `op:"predefined_position"`
	ToolDefn             func(d *Dialect, t ToolDefn) error                 `op:"tool_defn"`
	OffsetRadius         func(d *Dialect, id int, radius float64) error     `op:"offset_radius"`
	OffsetLength         func(d *Dialect, id int, length float64) error     `op:"offset_length"`
	MeasureAndOffsetTool func(d *Dialect, m ToolMeasure) error              `op:"measure_and_offset_tool"`

	DatumShift     func(d *Dialect, a Axes) error       `op:"datum_shift"`
	DatumSet       func(d *Dialect, a Axes) error       `op:"datum_set"`
	Workplane      func(d *Dialect, id int) error       `op:"workplane"`
	ClearancePlane func(d *Dialect, z float64) error    `op:"clearance_plane"`
	WorkOffset     func(d *Dialect, o WorkOffset) error `op:"work_offset"`

	Feedrate   func(d *Dialect, f float64) error                 `op:"feedrate"`
	FeedrateHV func(d *Dialect, h, v float64) error              `op:"feedrate_hv"`
	Spindle    func(d *Dialect, s float64, clockwise bool) error `op:"spindle"`
	Coolant    func(d *Dialect, mode Coolant) error              `op:"coolant"`
	GearRange  func(d *Dialect, gear int) error                  `op:"gearrange"`

	Rapid       func(d *Dialect, a Axes, machine bool) error `op:"rapid"`
	Feed        func(d *Dialect, a Axes) error               `op:"feed"`
	ArcCW       func(d *Dialect, a Arc) error                `op:"arc_cw"`
	ArcCCW      func(d *Dialect, a Arc) error                `op:"arc_ccw"`
	Dwell       func(d *Dialect, t float64) error            `op:"dwell"`
	RapidHome   func(d *Dialect, a Axes) error               `op:"rapid_home"`
	RapidUnhome func(d *Dialect) error                       `op:"rapid_unhome"`

	StartCRC func(d *Dialect, left bool, radius float64) error `op:"start_CRC"`
	EndCRC   func(d *Dialect) error                            `op:"end_CRC"`

	Drill          func(d *Dialect, c Drill) error  `op:"drill"`
	Tap            func(d *Dialect, c Tap) error    `op:"tap"`
	Boring         func(d *Dialect, c Boring) error `op:"boring"`
	EndCannedCycle func(d *Dialect) error           `op:"end_canned_cycle"`

	Comment            func(d *Dialect, text string) error                         `op:"comment"`
	Insert             func(d *Dialect, text string) error                         `op:"insert"`
	BlockDelete        func(d *Dialect, on bool) error                             `op:"block_delete"`
	Variable           func(d *Dialect, id string) (string, error)                 `op:"variable"`
	VariableSet        func(d *Dialect, id, value string) error                    `op:"variable_set"`
	Message            func(d *Dialect, text string) error                         `op:"message"`
	LogMessage         func(d *Dialect, text string) error                         `op:"log_message"`
	DebugMessage       func(d *Dialect, text string) error                         `op:"debug_message"`
	OpenLogFile        func(d *Dialect, name string) error                         `op:"open_log_file"`
	CloseLogFile       func(d *Dialect) error                                      `op:"close_log_file"`
	LogCoordinate      func(d *Dialect, p ProbePoint) error                        `op:"log_coordinate"`
	ReportProbeResults func(d *Dialect, points []ProbePoint, xml string) error     `op:"report_probe_results"`
	ProbeSinglePoint   func(d *Dialect, p SinglePointProbe) error                  `op:"probe_single_point"`
	ProbeDownwardPoint func(d *Dialect, p DownwardProbe) error                     `op:"probe_downward_point"`
	ProbeGrid          func(d *Dialect, p GridProbe) error                         `op:"probe_grid"`
	RapidToMidpoint    func(d *Dialect, m Midpoint) error                          `op:"rapid_to_midpoint"`
	SetPathControlMode func(d *Dialect, mode PathMode, blend, naive float64) error `op:"set_path_control_mode"`

	NurbsBeginDefinition func(d *Dialect, n NURBS) error `op:"nurbs_begin_definition"`
	NurbsAddPole         func(d *Dialect, n NURBS) error `op:"nurbs_add_pole"`
	NurbsEndDefinition   func(d *Dialect, id int) error  `op:"nurbs_end_definition"`

	Wipe                func(d *Dialect) error            `op:"wipe"`
	ExtruderOn          func(d *Dialect) error            `op:"extruder_on"`
	ExtruderOff         func(d *Dialect) error            `op:"extruder_off"`
	SetExtruderFlowrate func(d *Dialect, v float64) error `op:"set_extruder_flowrate"`
	ExtruderTemp        func(d *Dialect, v float64) error `op:"extruder_temp"`
	FanOn               func(d *Dialect) error            `op:"fan_on"`
	FanOff              func(d *Dialect) error            `op:"fan_off"`
	BuildBedTemp        func(d *Dialect, v float64) error `op:"build_bed_temp"`
	ChamberTemp         func(d *Dialect, v float64) error `op:"chamber_temp"`
}

// Layer is one level of a dialect: it overrides entries of the table, the
// codes and the options set by the levels below it.
type Layer func(t *Table, c *Codes, o *Options)

// Ops returns the name of every operation, sorted.
func Ops() []string {
	t := reflect.TypeOf(Table{})
	ops := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i += 1 {
		ops = append(ops, t.Field(i).Tag.Get("op"))
	}
	sort.Strings(ops)
	return ops
}

func (t *Table) field(op string) (reflect.Value, bool) {
	v := reflect.ValueOf(t).Elem()
	for i := 0; i < v.NumField(); i += 1 {
		if v.Type().Field(i).Tag.Get("op") == op {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Supports reports whether op has an implementation.
func (t *Table) Supports(op string) bool {
	f, ok := t.field(op)
	return ok && !f.IsNil()
}

// Disable removes the implementation of op.
func (t *Table) Disable(op string) error {
	f, ok := t.field(op)
	if !ok {
		return errors.Newf("unknown operation: %s", op)
	}
	f.Set(reflect.Zero(f.Type()))
	return nil
}

// Macro produces the text of one block. value is the formatted argument of
// operations that take one, otherwise empty.
type Macro func(d *Dialect, value string) (string, error)

var (
	noArgOp func(d *Dialect) error
	valueOp func(d *Dialect, v float64) error
	noArgTy = reflect.TypeOf(noArgOp)
	valueTy = reflect.TypeOf(valueOp)
)

// SetMacro implements op by writing the block m returns. Only operations
// without arguments or with one number argument can be macros.
func (t *Table) SetMacro(op string, m Macro) error {
	f, ok := t.field(op)
	if !ok {
		return errors.Newf("unknown operation: %s", op)
	}

	switch f.Type() {
	case noArgTy:
		f.Set(reflect.ValueOf(func(d *Dialect) error {
			s, err := m(d, "")
			if err != nil {
				return err
			}
			return d.blockLine(s)
		}))
	case valueTy:
		f.Set(reflect.ValueOf(func(d *Dialect, v float64) error {
			s, err := m(d, d.ffmt.String(v))
			if err != nil {
				return err
			}
			return d.blockLine(s)
		}))
	default:
		return errors.Newf("operation %s takes arguments and cannot be a macro", op)
	}
	return nil
}

var controllers = map[string]struct {
	description string
	layers      []Layer
}{
	"base":     {"every operation unimplemented", nil},
	"iso":      {"generic ISO G-code", []Layer{ISO}},
	"linuxcnc": {"LinuxCNC (EMC2) controller", []Layer{ISO, LinuxCNC}},
	"mach3":    {"Mach3 controller", []Layer{ISO, Mach3}},
}

// Controllers returns the names of the built-in dialects, sorted.
func Controllers() []string {
	names := make([]string, 0, len(controllers))
	for name := range controllers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PostProcessors returns the built-in dialects a program can be written
// with, sorted. The base dialect only exists to be built on.
func PostProcessors() []string {
	var names []string
	for _, name := range Controllers() {
		if controllers[name].layers != nil {
			names = append(names, name)
		}
	}
	return names
}

// Describe returns the one-line description of a built-in dialect.
func Describe(name string) (string, bool) {
	c, ok := controllers[name]
	return c.description, ok
}

// Layers returns the layers of the built-in dialect name, base first.
func Layers(name string) ([]Layer, bool) {
	c, ok := controllers[name]
	if !ok {
		return nil, false
	}
	return append([]Layer(nil), c.layers...), true
}

// Package profile loads machine profiles: HCL files that describe a machine
// as a sparse set of overrides on top of a built-in dialect or another
// profile.
//
//	machine "router" {
//	  base          = "linuxcnc"
//	  description   = "Gantry router"
//	  block_start   = 100
//	  units         = "imperial"
//	  disable       = ["tap"]
//	  codes         = { rapid = "G0" }
//	  macro "extruder_temp" { text = "M104 S${value}" }
//	}
package profile

import (
	"github.com/google/uuid"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
)

// namespace is the UUID namespace of profile identifiers.
var namespace = uuid.MustParse("5d7e4bd4-9c4f-5a7e-8a4b-6e1f0c2d3b9a")

// Macro gives an operation without arguments, or with one number, the text
// of a single block. The text may refer to value, the formatted argument, and
// to units.
type Macro struct {
	Op   string         `hcl:"op,label"`
	Text hcl.Expression `hcl:"text"`
}

type Machine struct {
	Name           string            `hcl:"name,label"`
	Base           string            `hcl:"base"`
	Description    string            `hcl:"description,optional"`
	BlockNumbers   *bool             `hcl:"block_numbers,optional"`
	BlockStart     *int              `hcl:"block_start,optional"`
	BlockStep      *int              `hcl:"block_step,optional"`
	Units          string            `hcl:"units,optional"`
	MetricPlaces   *int              `hcl:"metric_places,optional"`
	ImperialPlaces *int              `hcl:"imperial_places,optional"`
	Banner         string            `hcl:"banner,optional"`
	Disable        []string          `hcl:"disable,optional"`
	Codes          map[string]string `hcl:"codes,optional"`
	Macros         []*Macro          `hcl:"macro,block"`

	Filename string
}

// ID is derived from the name, so it stays the same across runs.
func (m *Machine) ID() uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(m.Name))
}

func (m *Machine) units() (dialect.UnitsMode, bool, error) {
	switch m.Units {
	case "":
		return dialect.Metric, false, nil
	case "metric", "mm":
		return dialect.Metric, true, nil
	case "imperial", "inch":
		return dialect.Imperial, true, nil
	}
	return dialect.Metric, false, errors.Newf("machine %s: unknown units: %s", m.Name, m.Units)
}

func (m *Machine) macro(mac *Macro) dialect.Macro {
	return func(d *dialect.Dialect, value string) (string, error) {
		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"value": cty.StringVal(value),
				"units": cty.StringVal(d.Options().Units.String()),
			},
		}
		v, diags := mac.Text.Value(ctx)
		if diags.HasErrors() {
			return "", errors.Wrapf(diags, "machine %s: macro %s", m.Name, mac.Op)
		}
		v, err := convert.Convert(v, cty.String)
		if err != nil || v.IsNull() || !v.IsKnown() {
			return "", errors.Newf("machine %s: macro %s: text must be a string", m.Name, mac.Op)
		}
		return v.AsString(), nil
	}
}

func (m *Machine) apply(t *dialect.Table, c *dialect.Codes, o *dialect.Options) error {
	o.Name = m.Name
	if m.BlockNumbers != nil {
		o.NoBlockNumbers = !*m.BlockNumbers
	}
	if m.BlockStart != nil {
		o.BlockStart = *m.BlockStart
	}
	if m.BlockStep != nil {
		o.BlockStep = *m.BlockStep
	}
	if m.MetricPlaces != nil {
		o.MetricPlaces = *m.MetricPlaces
	}
	if m.ImperialPlaces != nil {
		o.ImperialPlaces = *m.ImperialPlaces
	}
	if m.Banner != "" {
		o.Banner = m.Banner
	}
	units, ok, err := m.units()
	if err != nil {
		return err
	} else if ok {
		o.Units = units
	}

	for name, value := range m.Codes {
		if err := c.Set(name, value); err != nil {
			return errors.Wrapf(err, "machine %s", m.Name)
		}
	}
	for _, mac := range m.Macros {
		if err := t.SetMacro(mac.Op, m.macro(mac)); err != nil {
			return errors.Wrapf(err, "machine %s", m.Name)
		}
	}
	for _, op := range m.Disable {
		if err := t.Disable(op); err != nil {
			return errors.Wrapf(err, "machine %s", m.Name)
		}
	}
	return nil
}

// Validate checks that every override names a real operation or code.
func (m *Machine) Validate() error {
	if m.Base == "" {
		return errors.Newf("machine %s: missing base", m.Name)
	}
	var t dialect.Table
	var c dialect.Codes
	var o dialect.Options
	return m.apply(&t, &c, &o)
}

// Layer returns the overrides of m as a dialect layer. m must be valid.
func (m *Machine) Layer() dialect.Layer {
	return func(t *dialect.Table, c *dialect.Codes, o *dialect.Options) {
		m.apply(t, c, o)
	}
}

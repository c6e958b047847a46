package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/ncpost/dialect"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/profile"
	"github.com/leftmike/ncpost/sink"
)

const machines = `
machine "router" {
  base          = "linuxcnc"
  description   = "Gantry router"
  block_start   = 100
  block_step    = 5
  units         = "imperial"
  disable       = ["tap"]
  codes         = { rapid = "G0", feed = "G1" }

  macro "fan_on" {
    text = "M106"
  }
  macro "extruder_temp" {
    text = "M104 S${value}"
  }
}

machine "printer" {
  base          = "router"
  block_numbers = false

  macro "fan_off" {
    text = "M107 (${units})"
  }
}
`

func newSet(t *testing.T, src string) *profile.Set {
	t.Helper()

	ms, err := profile.Parse([]byte(src), "test.hcl")
	require.NoError(t, err)
	s := profile.NewSet()
	for _, m := range ms {
		require.NoError(t, s.Add(m))
	}
	return s
}

func TestParse(t *testing.T) {
	ms, err := profile.Parse([]byte(machines), "machines.hcl")
	require.NoError(t, err)
	require.Len(t, ms, 2)

	m := ms[0]
	assert.Equal(t, "router", m.Name)
	assert.Equal(t, "linuxcnc", m.Base)
	assert.Equal(t, "Gantry router", m.Description)
	assert.Equal(t, "machines.hcl", m.Filename)
	assert.Equal(t, []string{"tap"}, m.Disable)
	assert.Equal(t, map[string]string{"rapid": "G0", "feed": "G1"}, m.Codes)
	require.Len(t, m.Macros, 2)
	assert.Equal(t, "extruder_temp", m.Macros[1].Op)

	assert.Equal(t, m.ID(), m.ID())
	assert.NotEqual(t, m.ID(), ms[1].ID())
	assert.EqualValues(t, 5, m.ID().Version())
}

func TestMachine(t *testing.T) {
	s := newSet(t, machines)

	var p sink.Program
	d, err := s.New("router", &p, dialect.Options{})
	require.NoError(t, err)
	assert.Equal(t, "router", d.Name())
	assert.Equal(t, dialect.Imperial, d.Options().Units)

	require.NoError(t, d.Rapid(dialect.Axes{X: dialect.Num(1.23456)}, false))
	require.NoError(t, d.FanOn())
	require.NoError(t, d.ExtruderTemp(215))
	require.NoError(t, d.Message("hello"))
	err = d.Tap(dialect.Tap{})
	assert.True(t, errors.Is(err, errors.ErrUnimplemented), "%v", err)
	assert.Equal(t, []string{
		"N100 G0 X1.2346",
		"N105 M106",
		"N110 M104 S215",
		"N115 (MSG,hello)",
	}, p.Lines())

	p.Reset()
	d, err = s.New("printer", &p, dialect.Options{})
	require.NoError(t, err)
	assert.Equal(t, "printer", d.Name())
	require.NoError(t, d.FanOn())
	require.NoError(t, d.FanOff())
	require.NoError(t, d.Feedrate(50))
	require.NoError(t, d.Feed(dialect.Axes{X: dialect.Num(2)}))
	assert.False(t, d.Supports("tap"))
	assert.Equal(t, []string{
		"M106",
		"M107 (imperial)",
		"G1 X2 F50",
	}, p.Lines())
}

func TestMachineErrors(t *testing.T) {
	cases := []string{
		`machine "m" {
  base    = "iso"
  disable = ["no_such_op"]
}`,
		`machine "m" {
  base  = "iso"
  codes = { no_such_code = "G0" }
}`,
		`machine "m" {
  base  = "iso"
  units = "furlongs"
}`,
		`machine "m" {
  base = "iso"
  macro "rapid" {
    text = "G0"
  }
}`,
		`machine "iso" {
  base = "iso"
}`,
		`machine "m" {
  base = "iso"
}
machine "m" {
  base = "mach3"
}`,
	}

	for _, c := range cases {
		ms, err := profile.Parse([]byte(c), "bad.hcl")
		require.NoError(t, err, c)
		s := profile.NewSet()
		for _, m := range ms {
			if err = s.Add(m); err != nil {
				break
			}
		}
		assert.Error(t, err, c)
	}

	for _, c := range []string{
		`machine "m" {`,
		`machine "m" {
  description = "no base"
}`,
		`machine "m" {
  base    = "iso"
  unknown = 1
}`,
	} {
		_, err := profile.Parse([]byte(c), "bad.hcl")
		assert.Error(t, err, c)
	}
}

func TestLayers(t *testing.T) {
	s := newSet(t, `
machine "a" {
  base = "b"
}
machine "b" {
  base = "a"
}
machine "c" {
  base = "nowhere"
}
`)

	var p sink.Program
	for _, name := range []string{"a", "c", "missing"} {
		_, err := s.New(name, &p, dialect.Options{})
		assert.Error(t, err, name)
	}

	layers, err := s.Layers("mach3")
	require.NoError(t, err)
	assert.Len(t, layers, 2)
}

func TestMacroErrors(t *testing.T) {
	s := newSet(t, `
machine "m" {
  base = "iso"
  macro "fan_on" {
    text = "M106 ${nothing}"
  }
  macro "fan_off" {
    text = ["M107"]
  }
}
`)

	var p sink.Program
	d, err := s.New("m", &p, dialect.Options{})
	require.NoError(t, err)
	assert.Error(t, d.FanOn())
	assert.Error(t, d.FanOff())
	assert.Empty(t, p.Lines())
}

func TestLoadDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "machines.hcl"), []byte(machines), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not hcl"), 0644))

	s := profile.NewSet()
	require.NoError(t, s.LoadDirs(dir, filepath.Join(dir, "missing")))

	var names []string
	for _, m := range s.Machines() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"printer", "router"}, names)

	m, ok := s.Lookup("router")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "machines.hcl"), m.Filename)

	assert.Error(t, s.LoadDirs(dir))
}

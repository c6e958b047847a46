package ncpost_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/ncpost"
	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/gcode"
	"github.com/leftmike/ncpost/profile"
)

func squarePass() *ncpost.Toolpath {
	var tp ncpost.Toolpath
	for _, cmd := range []string{
		"feedrate(100)",
		"rapid(0, 0, 0.1)",
		"feed(0, 0, -0.5)",
		"feed(x=1, y=0, z=-0.5)",
		"comment('done')",
		"end_canned_cycle()",
	} {
		tp.AddCommand(cmd)
	}
	return &tp
}

var squarePassLines = []string{
	"N10 G00 X0 Y0 Z0.1",
	"N20 G01 X0 Y0 Z-0.5 F100",
	"N30 G01 X1 Y0 Z-0.5",
	"N40 (done)",
	"N50 G80",
}

func TestToolpath(t *testing.T) {
	tp := squarePass()
	assert.Equal(t, 6, tp.Len())
	assert.Equal(t, "feedrate(100)", tp.Commands()[0])
	assert.True(t, strings.HasSuffix(tp.String(), "comment('done')\nend_canned_cycle()"))
}

func TestList(t *testing.T) {
	pps := ncpost.List()
	var names []string
	for _, pp := range pps {
		names = append(names, pp.Name)
		assert.NotEmpty(t, pp.Description, pp.Name)
	}
	assert.Equal(t, []string{"iso", "linuxcnc", "mach3"}, names)
	assert.Equal(t, uuid.MustParse("01056c2c-824b-11e2-b45b-902b343fd17b"), pps[0].ID)
	assert.NotEqual(t, pps[1].ID, pps[2].ID)

	var p ncpost.Processor
	pp, ok := p.Lookup(pps[2].ID.String())
	require.True(t, ok)
	assert.Equal(t, "mach3", pp.Name)
	_, ok = p.Lookup("fanuc")
	assert.False(t, ok)

	// the base dialect is only something to build profiles on
	_, ok = p.Lookup("base")
	assert.False(t, ok)
	_, err := p.New("base", io.Discard)
	assert.Error(t, err)
}

func TestPostProcess(t *testing.T) {
	prog, err := ncpost.PostProcess(squarePass(), "iso")
	require.NoError(t, err)
	if diff := cmp.Diff(squarePassLines, prog.Lines()); diff != "" {
		t.Errorf("PostProcess(iso) mismatch (-want +got):\n%s", diff)
	}

	iso := ncpost.List()[0].ID.String()
	prog, err = ncpost.PostProcess(squarePass(), iso)
	require.NoError(t, err)
	if diff := cmp.Diff(squarePassLines, prog.Lines()); diff != "" {
		t.Errorf("PostProcess(%s) mismatch (-want +got):\n%s", iso, diff)
	}

	_, err = ncpost.PostProcess(squarePass(), "fanuc")
	assert.Error(t, err)
}

func TestPostProcessFrame(t *testing.T) {
	p := ncpost.Processor{Frame: &ncpost.Frame{ID: 1, Comment: "part"}}
	prog, err := p.PostProcess(context.Background(), squarePass(), "mach3")
	require.NoError(t, err)

	want := []string{
		"(G-code created using the ncpost Mach3 post processor)",
		"(part)",
	}
	want = append(want, squarePassLines...)
	for n := 1; n <= 9; n += 1 {
		want = append(want, fmt.Sprintf("N%d G10 L2 P%d R 0 (set the XY plane rotation)",
			50+n*10, n))
	}
	want = append(want, "N150 M02")
	if diff := cmp.Diff(want, prog.Lines()); diff != "" {
		t.Errorf("PostProcess(mach3) mismatch (-want +got):\n%s", diff)
	}
}

func TestPostProcessFailure(t *testing.T) {
	tp := squarePass()
	tp.AddCommand("wipe()")
	tp.AddCommand("rapid(z=1)")

	prog, err := ncpost.PostProcess(tp, "iso")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnimplemented), "%v", err)
	if diff := cmp.Diff(squarePassLines, prog.Lines()); diff != "" {
		t.Errorf("partial program mismatch (-want +got):\n%s", diff)
	}

	tp = &ncpost.Toolpath{}
	tp.AddCommand("rapid(")
	_, err = ncpost.PostProcess(tp, "iso")
	assert.Error(t, err)
}

const routerProfile = `
machine "router" {
  base          = "linuxcnc"
  description   = "Gantry router"
  block_numbers = false
  macro "fan_on" {
    text = "M106"
  }
}
`

func TestProfiles(t *testing.T) {
	machines, err := profile.Parse([]byte(routerProfile), "router.hcl")
	require.NoError(t, err)
	set := profile.NewSet()
	for _, m := range machines {
		require.NoError(t, set.Add(m))
	}

	p := ncpost.Processor{Profiles: set}
	var names []string
	for _, pp := range p.List() {
		names = append(names, pp.Name)
	}
	assert.Equal(t, []string{"iso", "linuxcnc", "mach3", "router"}, names)

	pp, ok := p.Lookup("router")
	require.True(t, ok)
	assert.Equal(t, "Gantry router", pp.Description)
	assert.Equal(t, machines[0].ID(), pp.ID)

	tp := squarePass()
	tp.AddCommand("fan_on()")
	prog, err := p.PostProcess(context.Background(), tp, "router")
	require.NoError(t, err)

	var want []string
	for _, l := range squarePassLines {
		want = append(want, l[strings.IndexByte(l, ' ')+1:])
	}
	want = append(want, "M106")
	if diff := cmp.Diff(want, prog.Lines()); diff != "" {
		t.Errorf("PostProcess(router) mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay(t *testing.T) {
	p := ncpost.Processor{Frame: &ncpost.Frame{ID: 1, Comment: "part"}}
	for _, pp := range p.List() {
		prog, err := p.PostProcess(context.Background(), squarePass(), pp.Name)
		require.NoError(t, err, pp.Name)

		tr, err := gcode.Replay(context.Background(), strings.NewReader(prog.String()))
		require.NoError(t, err, pp.Name)
		assert.Equal(t, gcode.Position{X: 1, Z: -0.5}, tr.Position(), pp.Name)
		assert.Len(t, tr.Moves, 3, pp.Name)
		assert.Contains(t, tr.Comments, "done", pp.Name)
	}
}

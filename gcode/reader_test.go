package gcode_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leftmike/ncpost/gcode"
)

func readAll(s string) ([]gcode.Block, error) {
	r := gcode.Reader{Scanner: strings.NewReader(s)}
	var blks []gcode.Block
	for {
		b, err := r.Read()
		if err == io.EOF {
			return blks, nil
		} else if err != nil {
			return blks, err
		}
		blks = append(blks, *b)
	}
}

func word(l byte, n float64) gcode.Word {
	return gcode.Word{Letter: l, Num: n}
}

func TestReader(t *testing.T) {
	cases := []struct {
		s    string
		blks []gcode.Block
	}{
		{s: "N10 G00 X0 Y0 Z0.1\n",
			blks: []gcode.Block{
				{Line: 1, Number: 10, HasNumber: true,
					Words: []gcode.Word{word('G', 0), word('X', 0), word('Y', 0), word('Z', 0.1)}},
			},
		},
		{s: "\n%\nN20 G10 L2 P2 X 1.5 Z -2\t(set offsets)\n\n%\n",
			blks: []gcode.Block{
				{Line: 3, Number: 20, HasNumber: true,
					Words: []gcode.Word{word('G', 10), word('L', 2), word('P', 2), word('X', 1.5),
						word('Z', -2)},
					Comments: []string{"set offsets"}},
			},
		},
		{s: "g1 x-.5 f100\r\n(MSG,hello)",
			blks: []gcode.Block{
				{Line: 1, Words: []gcode.Word{word('G', 1), word('X', -0.5), word('F', 100)}},
				{Line: 2, Comments: []string{"MSG,hello"}},
			},
		},
		{s: "G38.2 z#<z_probe> F[#1 * [2 + 1]]\nG0 X#12\n",
			blks: []gcode.Block{
				{Line: 1, Words: []gcode.Word{word('G', 38.2),
					{Letter: 'Z', Expr: "#<z_probe>"}, {Letter: 'F', Expr: "[#1 * [2 + 1]]"}}},
				{Line: 2, Words: []gcode.Word{word('G', 0), {Letter: 'X', Expr: "#12"}}},
			},
		},
		{s: "N30 #<_value>=[#5061 + 1] (probe)\nM104 S215 ; heat up\n",
			blks: []gcode.Block{
				{Line: 1, Number: 30, HasNumber: true, Assign: "#<_value>=[#5061 + 1]",
					Comments: []string{"probe"}},
				{Line: 2, Words: []gcode.Word{word('M', 104), word('S', 215)},
					Comments: []string{"heat up"}},
			},
		},
	}

	for _, c := range cases {
		blks, err := readAll(c.s)
		require.NoError(t, err, c.s)
		assert.Equal(t, c.blks, blks, c.s)
	}
}

func TestReaderFail(t *testing.T) {
	cases := []struct {
		s   string
		msg string
	}{
		{"G0 X1 N10", "line 1: block number must start the line: N10"},
		{"G0\n(open", "line 2: unterminated comment"},
		{"G0 X[1 + 2\n", "line 1: unterminated expression"},
		{"G0 @", "line 1: unexpected character: '@'"},
		{"G0 X", "line 1: expected a number after X"},
		{"G0 X#<name", "line 1: unterminated parameter name"},
	}

	for _, c := range cases {
		_, err := readAll(c.s)
		if assert.Error(t, err, c.s) {
			assert.Equal(t, c.msg, err.Error(), c.s)
		}
	}
}

func TestBlock(t *testing.T) {
	blks, err := readAll("N5 G0 X#1 Z2.5 (go)\n#3 =2\nG1 X1\n")
	require.NoError(t, err)
	require.Len(t, blks, 3)

	assert.Equal(t, "N5 G0 X#1 Z2.5 (go)", blks[0].String())
	assert.False(t, blks[0].Literal())
	assert.Equal(t, "#3 =2", blks[1].String())
	assert.False(t, blks[1].Literal())
	assert.True(t, blks[2].Literal())
}

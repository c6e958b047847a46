package toolpath

import (
	"io"
	"strings"
	"testing"
)

func TestParser(t *testing.T) {
	cases := []struct {
		s    string
		fail bool
		cmds []string
	}{
		{s: "rapid()\n", cmds: []string{"rapid()"}},
		{s: "rapid( )\n", cmds: []string{"rapid()"}},
		{s: "rapid(x=1, y=2)\n", cmds: []string{"rapid(x=1, y=2)"}},
		{s: "feed(1, 2, -0.5)", cmds: []string{"feed(1, 2, -0.5)"}},
		{s: "feed (1,2 , z = 3)\n", cmds: []string{"feed(1, 2, z=3)"}},
		{s: "  comment('hello (world)')  # trailing\n",
			cmds: []string{"comment('hello (world)')"}},
		{s: "# header\n\nrapid(z=0.1)\n", cmds: []string{"rapid(z=0.1)"}},
		{s: "rapid(x=1)\r\nfeed(x=2)\r\n", cmds: []string{"rapid(x=1)", "feed(x=2)"}},
		{s: "rapid(x=1,\n    y=2)\nfeed(z=0)\n", cmds: []string{"rapid(x=1, y=2)", "feed(z=0)"}},
		{s: "rapid(x=1+2*3)\n", cmds: []string{"rapid(x=7)"}},
		{s: "rapid(x=(1+2)*3)\n", cmds: []string{"rapid(x=9)"}},
		{s: "rapid(x=-2*3)\n", cmds: []string{"rapid(x=-6)"}},
		{s: "rapid(x=-(2+3))\n", cmds: []string{"rapid(x=-5)"}},
		{s: "rapid(x=10-4-3)\n", cmds: []string{"rapid(x=3)"}},
		{s: "rapid(x=12/4/3)\n", cmds: []string{"rapid(x=1)"}},
		{s: "rapid(x=+4)\n", cmds: []string{"rapid(x=4)"}},
		{s: "rapid(x=1e-3, y=.5, z=2.)\n", cmds: []string{"rapid(x=0.001, y=0.5, z=2)"}},
		{s: "rapid(x=abs(-2), y=max(1, 3), z=sqrt(16))\n",
			cmds: []string{"rapid(x=2, y=3, z=4)"}},
		{s: "rapid(abs(-2) * 2)\n", cmds: []string{"rapid(4)"}},
		{s: "tool_change(3, description=\"6mm end mill\")\n",
			cmds: []string{"tool_change(3, description='6mm end mill')"}},
		{s: "op(a=True, b=None, c=False)\n", cmds: []string{"op(a=True, b=None, c=False)"}},
		{s: "message('it' + 's')\n", cmds: []string{"message('its')"}},
		{s: `comment("say \"hi\"")` + "\n", cmds: []string{`comment('say "hi"')`}},
		{s: "comment('it\\'s')\n", cmds: []string{`comment('it\'s')`}},

		{s: "rapid(x=1\n", fail: true},
		{s: "rapid x=1)\n", fail: true},
		{s: "rapid(x=1) feed()\n", fail: true},
		{s: "rapid(x=1, x=2)\n", fail: true},
		{s: "rapid(x=1, 2)\n", fail: true},
		{s: "rapid(x=)\n", fail: true},
		{s: "rapid(x=1/0)\n", fail: true},
		{s: "rapid(x=foo)\n", fail: true},
		{s: "rapid(x='a'*2)\n", fail: true},
		{s: "rapid(x=-True)\n", fail: true},
		{s: "rapid(x=abs(1, 2))\n", fail: true},
		{s: "rapid(x=nope(1))\n", fail: true},
		{s: "rapid(x=1.2.3)\n", fail: true},
		{s: "rapid(x=1e)\n", fail: true},
		{s: "123()\n", fail: true},
		{s: "comment('abc\n')\n", fail: true},
		{s: "rapid(x=1 y=2)\n", fail: true},
	}

	for _, c := range cases {
		cmds, err := ParseString(c.s)
		if c.fail {
			if err == nil {
				t.Errorf("Parse(%q) did not fail", c.s)
			}
			continue
		} else if err != nil {
			t.Errorf("Parse(%q) failed with %s", c.s, err)
			continue
		}

		var got []string
		for _, cmd := range cmds {
			got = append(got, cmd.String())
		}
		if strings.Join(got, "\n") != strings.Join(c.cmds, "\n") {
			t.Errorf("Parse(%q) got %v want %v", c.s, got, c.cmds)
		}
	}
}

func TestParserLines(t *testing.T) {
	s := "# one\nrapid(x=1)\n\nfeed(x=2,\ny=3)\nfeed(z=1)\n"
	cmds, err := ParseString(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed with %s", s, err)
	}
	want := []int{2, 4, 6}
	if len(cmds) != len(want) {
		t.Fatalf("Parse(%q) got %d commands want %d", s, len(cmds), len(want))
	}
	for i, cmd := range cmds {
		if cmd.Line != want[i] {
			t.Errorf("Parse(%q)[%d].Line got %d want %d", s, i, cmd.Line, want[i])
		}
	}

	s = "rapid(x=1)\nrapid(x=foo)\n"
	_, err = ParseString(s)
	if err == nil || !strings.Contains(err.Error(), "line 2: undefined name: foo") {
		t.Errorf("Parse(%q) got %v", s, err)
	}

	s = "rapid(x=1)\nrapid(x=2,\n"
	_, err = ParseString(s)
	if err == nil || !strings.Contains(err.Error(), "unexpected end of input") {
		t.Errorf("Parse(%q) got %v", s, err)
	}
}

func TestParserConstants(t *testing.T) {
	p := Parser{
		Scanner:   strings.NewReader("drill(z=-depth, standoff=depth/2)\n"),
		Constants: map[string]Value{"depth": Number(5)},
	}

	cmd, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse() failed with %s", err)
	}
	if s := cmd.String(); s != "drill(z=-5, standoff=2.5)" {
		t.Errorf("Parse() got %s", s)
	}
	if _, err = p.Parse(); err != io.EOF {
		t.Errorf("Parse() got %v want io.EOF", err)
	}
}

func TestValueText(t *testing.T) {
	cases := []struct {
		v    Value
		text string
		src  string
	}{
		{v: None, text: "None", src: "None"},
		{v: Number(0.25), text: "0.25", src: "0.25"},
		{v: Number(-3), text: "-3", src: "-3"},
		{v: Bool(true), text: "True", src: "True"},
		{v: String("#<_x>"), text: "#<_x>", src: "'#<_x>'"},
		{v: String("a'b"), text: "a'b", src: `'a\'b'`},
	}

	for _, c := range cases {
		if s := c.v.Text(); s != c.text {
			t.Errorf("%v.Text() got %q want %q", c.v, s, c.text)
		}
		if s := c.v.Source(); s != c.src {
			t.Errorf("%v.Source() got %q want %q", c.v, s, c.src)
		}
	}
}

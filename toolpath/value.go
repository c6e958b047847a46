package toolpath

import (
	"strconv"
	"strings"
)

type Kind byte

const (
	NoneKind Kind = iota
	NumberKind
	StringKind
	BoolKind
)

func (k Kind) String() string {
	switch k {
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case BoolKind:
		return "boolean"
	}
	return "None"
}

// Value is the value of an argument.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
}

var None = Value{}

func Number(n float64) Value {
	return Value{Kind: NumberKind, Num: n}
}

func String(s string) Value {
	return Value{Kind: StringKind, Str: s}
}

func Bool(b bool) Value {
	return Value{Kind: BoolKind, Bool: b}
}

// Text is the value as an operation expecting text sees it: numbers are
// written in their shortest form.
func (v Value) Text() string {
	switch v.Kind {
	case NumberKind:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case StringKind:
		return v.Str
	case BoolKind:
		if v.Bool {
			return "True"
		}
		return "False"
	}
	return "None"
}

// Source is the value written the way a tool path program would write it.
func (v Value) Source() string {
	if v.Kind == StringKind {
		return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`, "\n", `\n`).Replace(v.Str) + "'"
	}
	return v.Text()
}

func (v Value) String() string {
	return v.Source()
}

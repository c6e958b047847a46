package dialect

import (
	"strconv"
)

// Numbered parameters read by the generated probing code.
const (
	probeXParam    = 5061 // probed point, current coordinate system
	probeYParam    = 5062
	probeZParam    = 5063
	m66ResultParam = 5399 // value read by the last M66

	probeConfirmRetries = 10
)

func param(num int) string {
	return "#" + strconv.Itoa(num)
}

// namedParam returns the LinuxCNC form of a named parameter.
func namedParam(name string) string {
	return "#<" + name + ">"
}

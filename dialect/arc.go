package dialect

import (
	"math"

	"github.com/leftmike/ncpost/errors"
)

const minimumDelta = 0.0001

// Quadrant returns which quadrant, 0 to 3 counter-clockwise from +X, the
// vector from an arc centre falls in.
func Quadrant(dx, dy float64) int {
	if dx < 0.0 {
		if dy < 0.0 {
			return 2
		}
		return 1
	}
	if dy < 0.0 {
		return 3
	}
	return 0
}

// QuadrantStart returns the point where quadrant q of the circle around
// (i, j) begins.
func QuadrantStart(q int, i, j, radius float64) (float64, float64) {
	switch q % 4 {
	case 0:
		return i + radius, j
	case 1:
		return i, j + radius
	case 2:
		return i - radius, j
	}
	return i, j - radius
}

// QuadrantEnd returns the point where quadrant q ends, which is where q+1
// begins.
func QuadrantEnd(q int, i, j, radius float64) (float64, float64) {
	return QuadrantStart(q+1, i, j, radius)
}

// radiusCenter finds the centre of an arc given by its radius. A negative
// radius selects the arc longer than half a circle.
func radiusCenter(curPos, endPos Position, radius float64, clockwise bool) (Position, error) {
	if curPos.X == endPos.X && curPos.Y == endPos.Y {
		return Position{}, errors.New("expected endpoint different than current with radius")
	}

	dist := hypot(curPos, endPos)
	delta := dist - math.Abs(radius)*2
	if delta > minimumDelta {
		return Position{}, errors.New("radius too small")
	} else if delta > 0.0 {
		dist = math.Abs(radius) * 2
	}

	theta := math.Atan2(endPos.Y-curPos.Y, endPos.X-curPos.X)
	if (clockwise && radius > 0.0) || (!clockwise && radius < 0.0) {
		theta -= math.Pi / 2.0
	} else {
		theta += math.Pi / 2.0
	}

	offset := math.Abs(radius) * math.Cos(math.Asin(dist/(math.Abs(radius)*2)))
	return Position{
		X: ((curPos.X + endPos.X) / 2) + offset*math.Cos(theta),
		Y: ((curPos.Y + endPos.Y) / 2) + offset*math.Sin(theta),
	}, nil
}

// toArcPlane maps pos so that the arc lies in XY whatever plane is selected.
func toArcPlane(p Plane, pos Position) Position {
	switch p {
	case ZXPlane:
		return Position{X: pos.Z, Y: pos.X, Z: pos.Y}
	case YZPlane:
		return Position{X: pos.Y, Y: pos.Z, Z: pos.X}
	}
	return pos
}

// checkRadiusArc rejects a radius arc the controller could not draw.
func (d *Dialect) checkRadiusArc(op string, a Arc, clockwise bool) error {
	if a.R == nil {
		return nil
	}

	end := d.state.Pos
	if a.X != nil {
		end.X = *a.X
	}
	if a.Y != nil {
		end.Y = *a.Y
	}
	if a.Z != nil {
		end.Z = *a.Z
	}
	_, err := radiusCenter(toArcPlane(d.state.Plane, d.state.Pos), toArcPlane(d.state.Plane, end),
		*a.R, clockwise)
	if err != nil {
		return errors.ContractViolation(op, "%s", err)
	}
	return nil
}

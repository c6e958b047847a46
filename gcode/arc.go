package gcode

import (
	"math"

	"github.com/leftmike/ncpost/errors"
)

// arcTolerance is how far, in mm, the end point may be off the circle
// through the start point.
const arcTolerance = 0.05

// arcCenter finds the center of the arc of radius r from start to end in the
// XY plane. A negative radius picks the arc longer than half a circle.
func arcCenter(start, end Position, r float64, clockwise bool) (Position, error) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	chord := math.Hypot(dx, dy)
	if chord == 0.0 {
		return Position{}, errors.New("arc with a radius needs an end point away from the start")
	}
	half := chord / 2
	if half > math.Abs(r)+arcTolerance {
		return Position{}, errors.Newf("radius %g too small to reach the end point", r)
	}

	h := math.Sqrt(math.Max(r*r-half*half, 0.0))
	if clockwise == (r > 0.0) {
		h = -h
	}
	return Position{
		X: start.X + dx/2 - dy/chord*h,
		Y: start.Y + dy/2 + dx/chord*h,
		Z: start.Z,
	}, nil
}

// arcPoints breaks the arc around center from start to end into straight
// moves of about step, calling to for each point. The arc is in the XY plane
// and rises along Z.
func arcPoints(start, end, center Position, turns int, clockwise bool, step float64,
	to func(pos Position) error) error {

	radius := math.Hypot(start.X-center.X, start.Y-center.Y)
	if radius == 0.0 {
		return errors.New("arc center is the start point")
	}
	if math.Abs(math.Hypot(end.X-center.X, end.Y-center.Y)-radius) > arcTolerance {
		return errors.New("arc end point is not on the arc")
	}

	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	a1 := math.Atan2(end.Y-center.Y, end.X-center.X)
	dir := 1.0
	sweep := a1 - a0
	if clockwise {
		dir = -1.0
		sweep = a0 - a1
	}
	if sweep <= 1e-9 {
		sweep += math.Pi * 2
	}
	sweep += float64(turns-1) * math.Pi * 2

	rise := end.Z - start.Z
	n := math.Floor(math.Hypot(sweep*radius, rise) / step)
	for i := 1.0; i < n; i += 1.0 {
		a := a0 + dir*sweep*i/n
		err := to(Position{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
			Z: start.Z + rise*i/n,
		})
		if err != nil {
			return err
		}
	}
	return to(end)
}

// toPlane maps pos so that the arc plane is XY and its normal is Z.
func (p Plane) toPlane(pos Position) Position {
	switch p {
	case ZXPlane:
		return Position{X: pos.Z, Y: pos.X, Z: pos.Y}
	case YZPlane:
		return Position{X: pos.Y, Y: pos.Z, Z: pos.X}
	}
	return pos
}

func (p Plane) fromPlane(pos Position) Position {
	switch p {
	case ZXPlane:
		return Position{X: pos.Y, Y: pos.Z, Z: pos.X}
	case YZPlane:
		return Position{X: pos.Z, Y: pos.X, Z: pos.Y}
	}
	return pos
}

package dialect

import (
	"strings"

	"github.com/leftmike/ncpost/errors"
	"github.com/leftmike/ncpost/logger"
)

// The canned cycles take Z as the top of the hole, not the bottom: the cycle
// line gets Z-Depth as its Z word and Z+Standoff as its retract plane.

func value(p *float64) float64 {
	if p == nil {
		return 0.0
	}
	return *p
}

// isZero reports whether a mode was given as zero; a missing mode is not zero.
func isZero(p *int) bool {
	return p != nil && *p == 0
}

// cycleReady checks for the parameters every canned cycle needs. An
// incomplete cycle is an error unless the dialect was told to skip them.
func (d *Dialect) cycleReady(op string, z, standoff *float64) (bool, error) {
	var missing []string
	if standoff == nil {
		missing = append(missing, "standoff")
	}
	if z == nil {
		missing = append(missing, "z")
	}
	if len(missing) == 0 {
		return true, nil
	}

	if d.opts.SkipIncompleteCycles {
		logger.Logger.Warnw("skipping incomplete canned cycle", "op", op, "missing", missing)
		return false, nil
	}
	return false, errors.ContractViolation(op, "missing %s", strings.Join(missing, " and "))
}

// cycleApproach rapids over the hole and then down to the retract plane.
func (d *Dialect) cycleApproach(x, y *float64, retract float64) error {
	if x != nil || y != nil {
		if err := d.Rapid(Axes{X: x, Y: y}, false); err != nil {
			return err
		}
	}
	return d.Rapid(Axes{Z: Num(retract)}, false)
}

// cycleLine finishes a cycle block with its position, depth, retract plane
// and feed rate, then rapids to the clearance height.
func (d *Dialect) cycleLine(b *block, x, y *float64, bottom, retract float64,
	clearance *float64) error {

	d.axes(b, Axes{X: x, Y: y, Z: Num(bottom)})
	b.word("R" + d.coord(retract))
	if err := d.feedWord(b, d.state.Feed); err != nil {
		return err
	}
	d.moveTo(Axes{X: x, Y: y, Z: Num(retract)})
	if err := d.emit(b); err != nil {
		return err
	}

	if clearance == nil {
		clearance = Num(retract)
	}
	return d.Rapid(Axes{Z: clearance}, false)
}

// isoDrill writes G81, G82 when there is a dwell, or G83 when there is a peck
// depth.
func isoDrill(d *Dialect, c Drill) error {
	if ok, err := d.cycleReady("drill", c.Z, c.Standoff); !ok {
		return err
	}

	retract := *c.Z + *c.Standoff
	if err := d.cycleApproach(c.X, c.Y, retract); err != nil {
		return err
	}

	b := d.block()
	switch {
	case value(c.PeckDepth) != 0.0:
		b.word(d.codes.PeckDrill, "Q"+d.coord(*c.PeckDepth))
	case value(c.Dwell) != 0.0:
		b.word(d.codes.DrillDwell, "P"+d.ffmt.String(*c.Dwell))
	default:
		b.word(d.codes.Drill)
	}
	return d.cycleLine(b, c.X, c.Y, *c.Z-value(c.Depth), retract, c.ClearanceHeight)
}

// boringCode picks the boring cycle: G85 feeds out, G86 stops the spindle and
// rapids out, G89 dwells and feeds out.
func (d *Dialect) boringCode(c Boring) string {
	dwell := value(c.Dwell) != 0.0
	rapidOut := isZero(c.RetractMode)

	if isZero(c.SpindleMode) {
		switch {
		case rapidOut:
			return d.codes.BoreSpindleStop
		case dwell:
			return d.codes.BoreDwellFeedOut
		}
		return d.codes.BoreFeedOut
	}
	if dwell && !rapidOut {
		return d.codes.BoreDwellFeedOut
	}
	return d.codes.BoreFeedOut
}

func isoBoring(d *Dialect, c Boring) error {
	if ok, err := d.cycleReady("boring", c.Z, c.Standoff); !ok {
		return err
	}

	retract := *c.Z + *c.Standoff
	if err := d.cycleApproach(c.X, c.Y, retract); err != nil {
		return err
	}

	b := d.block()
	b.word(d.boringCode(c))
	if value(c.Dwell) != 0.0 {
		b.word("P" + d.ffmt.String(*c.Dwell))
	}
	return d.cycleLine(b, c.X, c.Y, *c.Z-value(c.Depth), retract, c.ClearanceHeight)
}

// isoTap writes a rigid tapping cycle; the spindle direction comes from the
// machine, so Direction is only checked for presence.
func isoTap(d *Dialect, c Tap) error {
	if ok, err := d.cycleReady("tap", c.Z, c.Standoff); !ok {
		return err
	}
	if c.Pitch == nil {
		return errors.ContractViolation("tap", "missing pitch")
	}
	if c.Direction == nil {
		return errors.ContractViolation("tap", "missing direction")
	}
	if c.TapMode != nil && *c.TapMode != 0 {
		return errors.Unimplementedf("tap", "non-rigid tapping")
	}

	retract := *c.Z + *c.Standoff
	clearance := retract
	if c.ClearanceHeight != nil {
		clearance = *c.ClearanceHeight
	}

	if err := d.Rapid(Axes{Z: Num(clearance)}, false); err != nil {
		return err
	}
	if err := d.cycleApproach(c.X, c.Y, retract); err != nil {
		return err
	}

	b := d.block()
	b.word(d.codes.Tap, "K"+d.ffmt.String(*c.Pitch), "Z"+d.coord(*c.Z-value(c.Depth)),
		"R"+d.ffmt.String(retract))
	d.state.Pos.Z = retract
	if err := d.emit(b); err != nil {
		return err
	}
	return d.Rapid(Axes{Z: Num(clearance)}, false)
}

func isoEndCannedCycle(d *Dialect) error {
	d.f.Reset()
	return d.blockLine(d.codes.EndCannedCycle)
}

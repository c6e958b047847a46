package gcode

import (
	"context"
	"io"
	"math"
	"time"
)

type Move struct {
	Rapid bool
	Pos   Position
	Feed  float64 // mm per minute; zero for rapids
}

// Trace is a Machine that records what a program does.
type Trace struct {
	Moves     []Move
	Feed      float64
	Spindle   float64
	Clockwise bool
	SpindleOn bool
	Tools     []int
	Comments  []string
	Skipped   []string
}

func (t *Trace) SetFeed(feed float64) error {
	t.Feed = feed
	return nil
}

func (t *Trace) SetSpindle(speed float64, clockwise bool) error {
	t.Spindle = speed
	t.Clockwise = clockwise
	t.SpindleOn = true
	return nil
}

func (t *Trace) SpindleOff() error {
	t.SpindleOn = false
	return nil
}

func (t *Trace) SelectTool(tool int) error {
	t.Tools = append(t.Tools, tool)
	return nil
}

func (t *Trace) RapidTo(pos Position) error {
	t.Moves = append(t.Moves, Move{Rapid: true, Pos: pos})
	return nil
}

func (t *Trace) LinearTo(pos Position) error {
	t.Moves = append(t.Moves, Move{Pos: pos, Feed: t.Feed})
	return nil
}

func (t *Trace) Comment(text string) error {
	t.Comments = append(t.Comments, text)
	return nil
}

func (t *Trace) Skip(blk *Block, reason string) error {
	t.Skipped = append(t.Skipped, blk.String()+": "+reason)
	return nil
}

// Position returns where the last move ended.
func (t *Trace) Position() Position {
	if len(t.Moves) == 0 {
		return zeroPosition
	}
	return t.Moves[len(t.Moves)-1].Pos
}

// Bounds returns the smallest box holding every move, the start included.
func (t *Trace) Bounds() (min, max Position) {
	for _, m := range t.Moves {
		min.X = math.Min(min.X, m.Pos.X)
		min.Y = math.Min(min.Y, m.Pos.Y)
		min.Z = math.Min(min.Z, m.Pos.Z)
		max.X = math.Max(max.X, m.Pos.X)
		max.Y = math.Max(max.Y, m.Pos.Y)
		max.Z = math.Max(max.Z, m.Pos.Z)
	}
	return min, max
}

func distance(p1, p2 Position) float64 {
	return math.Sqrt((p1.X-p2.X)*(p1.X-p2.X) + (p1.Y-p2.Y)*(p1.Y-p2.Y) +
		(p1.Z-p2.Z)*(p1.Z-p2.Z))
}

// Distance returns how far the program moves at rapid and at feed rate.
func (t *Trace) Distance() (rapid, feed float64) {
	var prev Position
	for _, m := range t.Moves {
		if m.Rapid {
			rapid += distance(prev, m.Pos)
		} else {
			feed += distance(prev, m.Pos)
		}
		prev = m.Pos
	}
	return rapid, feed
}

// CutTime estimates the time spent moving at feed rate. Moves without a feed
// rate are not counted.
func (t *Trace) CutTime() time.Duration {
	var prev Position
	var minutes float64
	for _, m := range t.Moves {
		if !m.Rapid && m.Feed > 0.0 {
			minutes += distance(prev, m.Pos) / m.Feed
		}
		prev = m.Pos
	}
	return time.Duration(minutes * float64(time.Minute))
}

// Replay runs the program read from r and returns what it did.
func Replay(ctx context.Context, r io.Reader) (*Trace, error) {
	var t Trace
	err := NewEngine(&t).Evaluate(ctx, r)
	return &t, err
}

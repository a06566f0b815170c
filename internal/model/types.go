// Package model holds the plain data types shared by the loadeq public
// API and its internal tree/history packages. Splitting them out here
// (instead of defining them in the root package) avoids an import cycle:
// the root package imports internal/tree and internal/history, and both
// of those need Viewport/Range/Compound/Channel, so those types cannot
// live in the root package. The root package re-exports everything here
// under type aliases so callers never see the internal/model import path.
package model

import "math"

// SplitEpsilon is the floating-point epsilon used throughout the split
// computation, matching the C++ reference's use of
// std::numeric_limits<float>::epsilon() as both a loop-termination
// tolerance and the default DB boundary quantum.
const SplitEpsilon = 1.1920929e-7

// LeftoverEpsilon is the tolerance below which a leftover time is treated
// as floating-point dust rather than a genuine remainder.
const LeftoverEpsilon = 1e-4

// Viewport is a 2D rectangle in normalized coordinates, x, y, w, h ∈ [0,1].
type Viewport struct {
	X, Y, W, H float64
}

// FullViewport is the sentinel viewport covering the entire destination
// surface.
var FullViewport = Viewport{X: 0, Y: 0, W: 1, H: 1}

// XEnd returns X+W.
func (v Viewport) XEnd() float64 { return v.X + v.W }

// YEnd returns Y+H.
func (v Viewport) YEnd() float64 { return v.Y + v.H }

// Area returns W*H.
func (v Viewport) Area() float64 { return v.W * v.H }

// HasArea reports whether both W and H are strictly positive.
func (v Viewport) HasArea() bool { return v.W > 0 && v.H > 0 }

// Equal reports whether two viewports are identical.
func (v Viewport) Equal(o Viewport) bool {
	return v.X == o.X && v.Y == o.Y && v.W == o.W && v.H == o.H
}

// Range is a 1D interval [Start,End] over the depth database, normalized
// to [0,1].
type Range struct {
	Start, End float64
}

// FullRange is the sentinel range covering the entire depth axis.
var FullRange = Range{Start: 0, End: 1}

// HasData reports whether the range is non-empty.
func (r Range) HasData() bool { return r.End > r.Start }

// Equal reports whether two ranges are identical.
func (r Range) Equal(o Range) bool { return r.Start == o.Start && r.End == o.End }

// Mode selects how the equalizer splits work between children.
type Mode int

const (
	// Mode2D alternates VERTICAL/HORIZONTAL splits level by level,
	// producing a tiling of the destination viewport.
	Mode2D Mode = iota
	// ModeVertical always splits along X.
	ModeVertical
	// ModeHorizontal always splits along Y.
	ModeHorizontal
	// ModeDB splits the depth Range instead of the viewport.
	ModeDB
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Mode2D:
		return "2D"
	case ModeVertical:
		return "VERTICAL"
	case ModeHorizontal:
		return "HORIZONTAL"
	case ModeDB:
		return "DB"
	default:
		return "ERROR"
	}
}

// StatKind identifies the kind of timing a Statistic records.
type StatKind int

const (
	StatClear StatKind = iota
	StatDraw
	StatReadback
	StatAssemble
	StatFrameTransmit
	// StatOther covers any statistic kind the equalizer does not
	// specifically reduce; it is ignored during load-data ingestion.
	StatOther
)

// Statistic is a single timing record for one task, in integer
// microseconds.
type Statistic struct {
	TaskID    uint32
	Kind      StatKind
	StartTime int64
	EndTime   int64
}

// ClampFloat restricts v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

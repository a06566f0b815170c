package loadeq

import "github.com/PeterZhouSZ/Equalizer/internal/model"

// splitEpsilon is the floating-point epsilon used throughout the split
// computation, matching the C++ reference's use of
// std::numeric_limits<float>::epsilon() as both a loop-termination
// tolerance and the default DB boundary quantum.
const splitEpsilon = model.SplitEpsilon

// Viewport is a 2D rectangle in normalized coordinates, x, y, w, h ∈ [0,1].
type Viewport = model.Viewport

// FullViewport is the sentinel viewport covering the entire destination
// surface.
var FullViewport = model.FullViewport

// Range is a 1D interval [Start,End] over the depth database, normalized
// to [0,1].
type Range = model.Range

// FullRange is the sentinel range covering the entire depth axis.
var FullRange = model.FullRange

// Mode selects how the equalizer splits work between children.
type Mode = model.Mode

const (
	// Mode2D alternates VERTICAL/HORIZONTAL splits level by level,
	// producing a tiling of the destination viewport.
	Mode2D = model.Mode2D
	// ModeVertical always splits along X.
	ModeVertical = model.ModeVertical
	// ModeHorizontal always splits along Y.
	ModeHorizontal = model.ModeHorizontal
	// ModeDB splits the depth Range instead of the viewport.
	ModeDB = model.ModeDB
)

// StatKind identifies the kind of timing a Statistic records.
type StatKind = model.StatKind

const (
	StatClear         = model.StatClear
	StatDraw          = model.StatDraw
	StatReadback      = model.StatReadback
	StatAssemble      = model.StatAssemble
	StatFrameTransmit = model.StatFrameTransmit
	// StatOther covers any statistic kind the equalizer does not
	// specifically reduce; it is ignored by NotifyLoadData.
	StatOther = model.StatOther
)

// Statistic is a single timing record for one task, in integer
// microseconds.
type Statistic = model.Statistic

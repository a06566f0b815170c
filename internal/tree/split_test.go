package tree_test

import (
	"math"
	"testing"

	"github.com/PeterZhouSZ/Equalizer/internal/history"
	"github.com/PeterZhouSZ/Equalizer/internal/model"
	"github.com/PeterZhouSZ/Equalizer/internal/sim"
	"github.com/PeterZhouSZ/Equalizer/internal/tree"
)

const eps = 1e-6

func approxEqual(a, b float64) bool { return math.Abs(a-b) < eps }

// syntheticFront returns the single-item seed front history.New would
// produce, mirroring spec.md §3's synthetic record.
func syntheticFront() []history.Data {
	return []history.Data{{TaskID: 0, VP: model.FullViewport, Range: model.FullRange, Time: 1, Load: 1}}
}

// TestSplit_S1_UniformTwoWayVertical reproduces spec.md §8 scenario S1: two
// equal-usage leaves, mode=VERTICAL, damping=0, synthetic seed history.
// Expect a 0.5/0.5 split.
func TestSplit_S1_UniformTwoWayVertical(t *testing.T) {
	_, children := leaves(2)
	tr := build(t, model.ModeVertical, children)

	front := syntheticFront()
	tr.AssignTargetTimes(front, 0)

	rec := &history.Record{FrameNumber: 1}
	tr.ComputeSplit(rec, front, 100, 100)

	if len(rec.Items) != 2 {
		t.Fatalf("len(rec.Items) = %d, want 2", len(rec.Items))
	}
	if got := rec.Items[0].VP; !approxEqual(got.X, 0) || !approxEqual(got.W, 0.5) {
		t.Fatalf("left vp = %+v, want x=0 w=0.5", got)
	}
	if got := rec.Items[1].VP; !approxEqual(got.X, 0.5) || !approxEqual(got.W, 0.5) {
		t.Fatalf("right vp = %+v, want x=0.5 w=0.5", got)
	}
}

// TestSplit_S4_UsageZero reproduces spec.md §8 scenario S4: a leaf with
// usage=0 gets an empty viewport; its sibling gets the full region.
func TestSplit_S4_UsageZero(t *testing.T) {
	leftCh := sim.NewChannel("left", 100, 100)
	rightCh := sim.NewChannel("right", 100, 100)
	left := sim.NewLeaf(leftCh, 1, 1.0)
	right := sim.NewLeaf(rightCh, 2, 0.0)
	children := []model.Compound{left, right}

	tr := build(t, model.ModeVertical, children)

	front := syntheticFront()
	tr.AssignTargetTimes(front, 0)

	rec := &history.Record{FrameNumber: 1}
	tr.ComputeSplit(rec, front, 100, 100)

	if got := rec.Items[0].VP; !got.Equal(model.FullViewport) {
		t.Fatalf("left (usage=1) vp = %+v, want FullViewport", got)
	}
	if got := rec.Items[1].VP; got.HasArea() {
		t.Fatalf("right (usage=0) vp = %+v, want empty", got)
	}
	if got := rec.Items[1].Time; got != 0 {
		t.Fatalf("right (usage=0) Time = %v, want 0", got)
	}
}

// TestSplit_DampingLimit covers spec.md §8 property 6: with damping=1,
// frame N's target equals frame N-1's measured time.
func TestSplit_DampingLimit(t *testing.T) {
	leftCh := sim.NewChannel("left", 100, 100)
	rightCh := sim.NewChannel("right", 100, 100)
	children := []model.Compound{
		sim.NewLeaf(leftCh, 1, 1.0),
		sim.NewLeaf(rightCh, 2, 1.0),
	}
	tr := build(t, model.ModeVertical, children)

	front := []history.Data{
		{TaskID: 1, VP: model.Viewport{X: 0, Y: 0, W: 0.5, H: 1}, Range: model.FullRange, Time: 20, Load: 40},
		{TaskID: 2, VP: model.Viewport{X: 0.5, Y: 0, W: 0.5, H: 1}, Range: model.FullRange, Time: 10, Load: 20},
	}
	tr.AssignTargetTimes(front, 1)

	left, right := tr.Children(tr.Root())
	if !approxEqual(tr.Time(left), 20) {
		t.Fatalf("left target time = %v, want 20 (damping=1)", tr.Time(left))
	}
	if !approxEqual(tr.Time(right), 10) {
		t.Fatalf("right target time = %v, want 10 (damping=1)", tr.Time(right))
	}
}

// TestSplit_MinTileClamp reproduces spec.md §8 scenario S5: a large
// boundary forces the split away from the raw sweep position.
func TestSplit_MinTileClamp(t *testing.T) {
	leftCh := sim.NewChannel("left", 100, 100)
	rightCh := sim.NewChannel("right", 100, 100)
	children := []model.Compound{
		sim.NewLeaf(leftCh, 1, 1.0),
		sim.NewLeaf(rightCh, 2, 1.0),
	}
	tr, err := tree.Build(children, tree.Params{Mode: model.ModeVertical, Boundary2i: [2]int{30, 1}, Boundaryf: model.SplitEpsilon}, struct{}{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// A front record with almost all load concentrated in [0, 0.1): the
	// left target of 50 is reached inside that strip (90 time units), so
	// the raw sweep position is 0.1*50/90 ≈ 0.056.
	front := []history.Data{
		{TaskID: 1, VP: model.Viewport{X: 0, Y: 0, W: 0.1, H: 1}, Range: model.FullRange, Time: 90, Load: 900},
		{TaskID: 2, VP: model.Viewport{X: 0.1, Y: 0, W: 0.9, H: 1}, Range: model.FullRange, Time: 10, Load: 11.11},
	}
	tr.AssignTargetTimes(front, 0)

	rec := &history.Record{FrameNumber: 1}
	tr.ComputeSplit(rec, front, 100, 100)

	leftVP := rec.Items[0].VP
	if leftVP.W*100 < 30-eps {
		t.Fatalf("left width in pixels = %v, want >= 30", leftVP.W*100)
	}
	rightVP := rec.Items[1].VP
	if rightVP.W*100 < 30-eps {
		t.Fatalf("right width in pixels = %v, want >= 30", rightVP.W*100)
	}
}

// TestSplit_MinTileClamp_NonRootSplit reproduces S5 one recursion level
// below the root: a zero-usage first leaf collapses the root split to
// width 0, handing the remaining two leaves' split the full [0,1]
// region — the same load skew as TestSplit_MinTileClamp, but computed by
// a non-root splitAxis call. pvpExtent must reach this depth unchanged
// from the root's pixel viewport (spec.md §4.5) for the boundary clamp
// to fire here too.
func TestSplit_MinTileClamp_NonRootSplit(t *testing.T) {
	idleCh := sim.NewChannel("idle", 100, 100)
	leftCh := sim.NewChannel("left", 100, 100)
	rightCh := sim.NewChannel("right", 100, 100)
	children := []model.Compound{
		sim.NewLeaf(idleCh, 1, 0.0),
		sim.NewLeaf(leftCh, 2, 1.0),
		sim.NewLeaf(rightCh, 3, 1.0),
	}
	tr, err := tree.Build(children, tree.Params{Mode: model.ModeVertical, Boundary2i: [2]int{30, 1}, Boundaryf: model.SplitEpsilon}, struct{}{}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	front := []history.Data{
		{TaskID: 1, VP: model.Viewport{}, Range: model.FullRange, Time: 0, Load: 0},
		{TaskID: 2, VP: model.Viewport{X: 0, Y: 0, W: 0.1, H: 1}, Range: model.FullRange, Time: 90, Load: 900},
		{TaskID: 3, VP: model.Viewport{X: 0.1, Y: 0, W: 0.9, H: 1}, Range: model.FullRange, Time: 10, Load: 11.11},
	}
	tr.AssignTargetTimes(front, 0)

	rec := &history.Record{FrameNumber: 1}
	tr.ComputeSplit(rec, front, 100, 100)

	if got := rec.Items[0].VP; got.HasArea() {
		t.Fatalf("idle leaf vp = %+v, want empty", got)
	}
	leftVP := rec.Items[1].VP
	if leftVP.W*100 < 30-eps {
		t.Fatalf("left width in pixels = %v, want >= 30 (pvpExtent must reach non-root splits)", leftVP.W*100)
	}
	rightVP := rec.Items[2].VP
	if rightVP.W*100 < 30-eps {
		t.Fatalf("right width in pixels = %v, want >= 30 (pvpExtent must reach non-root splits)", rightVP.W*100)
	}
}

// TestSplit_Coverage covers spec.md §8 property 1: leaf viewports union
// to the full parent viewport with no gap or overlap, for a 4-way 2D
// tiling (S2).
func TestSplit_Coverage(t *testing.T) {
	_, children := leaves(4)
	tr := build(t, model.Mode2D, children)

	front := syntheticFront()
	tr.AssignTargetTimes(front, 0)

	rec := &history.Record{FrameNumber: 1}
	tr.ComputeSplit(rec, front, 100, 100)

	if len(rec.Items) != 4 {
		t.Fatalf("len(rec.Items) = %d, want 4", len(rec.Items))
	}
	totalArea := 0.0
	for _, item := range rec.Items {
		totalArea += item.VP.Area()
	}
	if !approxEqual(totalArea, 1.0) {
		t.Fatalf("total covered area = %v, want 1.0", totalArea)
	}
}

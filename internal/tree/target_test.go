package tree_test

import (
	"testing"

	"github.com/PeterZhouSZ/Equalizer/internal/history"
	"github.com/PeterZhouSZ/Equalizer/internal/model"
	"github.com/PeterZhouSZ/Equalizer/internal/sim"
)

// TestAssignTargetTimes_LeftoverRedistribution covers the §4.4 leftover
// pass with unequal usages: a 3:1 usage split should see the leftover
// time divided in the same 3:1 proportion.
func TestAssignTargetTimes_LeftoverRedistribution(t *testing.T) {
	leftCh := sim.NewChannel("left", 100, 100)
	rightCh := sim.NewChannel("right", 100, 100)
	left := sim.NewLeaf(leftCh, 1, 3.0)
	right := sim.NewLeaf(rightCh, 2, 1.0)
	children := []model.Compound{left, right}
	tr := build(t, model.ModeVertical, children)

	// One unmatched item (taskID 0) plus one item per leaf. With damping=1
	// each leaf's target is its own measured time, so the unmatched item's
	// time is left over for the leftover pass to distribute.
	front := []history.Data{
		{TaskID: 0, VP: model.FullViewport, Range: model.FullRange, Time: 6, Load: 6},
		{TaskID: 1, VP: model.Viewport{X: 0, Y: 0, W: 0.5, H: 1}, Range: model.FullRange, Time: 3, Load: 6},
		{TaskID: 2, VP: model.Viewport{X: 0.5, Y: 0, W: 0.5, H: 1}, Range: model.FullRange, Time: 1, Load: 2},
	}
	tr.AssignTargetTimes(front, 1)

	l, r := tr.Children(tr.Root())
	// totalTime = 10; damped targets are left 3, right 1, so leftover = 6.
	// Split 3:1 by usage: left gets 4.5 (3+4.5 = 7.5), right 1.5 (1+1.5 = 2.5).
	if !approxEqual(tr.Time(l), 7.5) {
		t.Fatalf("left time = %v, want 7.5", tr.Time(l))
	}
	if !approxEqual(tr.Time(r), 2.5) {
		t.Fatalf("right time = %v, want 2.5", tr.Time(r))
	}
}

// TestAssignTargetTimes_ZeroUsageLeftoverInvariant covers spec.md §7's
// invariant: a zero-usage subtree receiving non-negligible leftover time
// is a logic error and panics.
func TestAssignTargetTimes_ZeroUsageLeftoverInvariant(t *testing.T) {
	// A single zero-usage leaf with a non-trivial totalTime forces the
	// whole budget into the leftover pass with nowhere valid to put it.
	ch := sim.NewChannel("ch", 100, 100)
	leaf := sim.NewLeaf(ch, 1, 0.0)
	leaf.Running = false
	children := []model.Compound{leaf}
	tr := build(t, model.ModeVertical, children)

	front := []history.Data{{TaskID: 0, VP: model.FullViewport, Range: model.FullRange, Time: 10, Load: 10}}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: zero-usage subtree with non-negligible leftover")
		}
	}()
	// nResources is 0 here (no running leaves), so perResource is 0 and
	// totalTime (10) is never consumed by the bottom-up pass; the entire
	// 10 falls into the leftover pass against a zero-usage root.
	tr.AssignTargetTimes(front, 0)
}

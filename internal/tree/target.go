package tree

import (
	"github.com/PeterZhouSZ/Equalizer/internal/history"
	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// AssignTargetTimes runs the bottom-up damped target-time pass of
// spec.md §4.4. front is the most recent Frame History Record's items,
// unfiltered: a leaf that had an empty viewport/range last frame (and so
// contributed no time) can still be this frame's damping match for a
// leaf that is running now, so the empty-item filter that ComputeSplit's
// sweep needs must not be applied here (loadEqualizer.cpp's
// _assignTargetTimes searches the raw front record, not a filtered
// copy). Empty items carry Time=0, so they don't perturb totalTime
// either way. damping is the configured exponential-smoothing factor.
//
// It computes totalTime/perResource from front and the tree's running
// leaves, assigns each leaf a damped, budget-clamped target time, rolls
// the sums up through internal nodes, and finally redistributes the
// leftover time top-down (spec.md §4.4 final paragraph).
func (t *Tree) AssignTargetTimes(front []history.Data, damping float64) {
	totalTime := 0.0
	for i := range front {
		totalTime += front[i].Time
	}

	nResources := t.sumRunningUsage(t.Root())
	perResource := 0.0
	if nResources > 0 {
		perResource = totalTime / nResources
	}

	remaining := totalTime
	remaining = t.assignBottomUp(t.Root(), perResource, damping, front, remaining)

	leftover := totalTime - t.nodes[t.root].time
	if leftover < 0 {
		leftover = 0
	}
	t.assignLeftoverTime(t.Root(), leftover)
}

// sumRunningUsage computes nResources = Σ usage over running leaves
// (spec.md §4.4), independent of the assignment pass below so it can be
// computed before any node's time/usage fields are touched.
func (t *Tree) sumRunningUsage(h Handle) float64 {
	n := &t.nodes[h]
	if n.isLeaf() {
		if n.compound.IsRunning() {
			return n.compound.Usage()
		}
		return 0
	}
	return t.sumRunningUsage(Handle(n.left)) + t.sumRunningUsage(Handle(n.right))
}

// assignBottomUp assigns leaf times left-to-right, threading the
// shrinking remainingBudget through the recursion, and rolls time/usage
// sums up through internal nodes. Returns the budget remaining after
// this subtree's leaves have drawn from it.
func (t *Tree) assignBottomUp(h Handle, perResource, damping float64, front []history.Data, remaining float64) float64 {
	n := &t.nodes[h]
	if n.isLeaf() {
		usage := 0.0
		if n.compound.IsRunning() {
			usage = n.compound.Usage()
		}
		target := perResource * usage
		if usage > 0 {
			if item := findByTaskID(front, n.taskID); item != nil {
				target = (1-damping)*target + damping*item.Time
			}
		}
		if target > remaining {
			target = remaining
		}
		if target < 0 {
			target = 0
		}
		n.time = target
		n.usage = usage
		// Refresh maxSize/boundary from the channel and the current
		// configuration every frame (spec.md §4.4's "Store into leaf:
		// ... maxSize=(channel.pvp.w, channel.pvp.h), boundary2i,
		// boundaryf") — a channel's pixel viewport can change between
		// frames, so this is not just a construction-time snapshot.
		w, h := n.channel.PixelViewport()
		n.maxSize = [2]float64{float64(w), float64(h)}
		n.boundary2i = t.params.Boundary2i
		n.boundaryf = t.params.Boundaryf
		return remaining - target
	}

	remaining = t.assignBottomUp(Handle(n.left), perResource, damping, front, remaining)
	remaining = t.assignBottomUp(Handle(n.right), perResource, damping, front, remaining)
	left, right := &t.nodes[n.left], &t.nodes[n.right]
	n.time = left.time + right.time
	n.usage = left.usage + right.usage
	aggregate(n, left, right)
	return remaining
}

// findByTaskID returns the first item in front matching taskID, or nil.
func findByTaskID(front []history.Data, taskID uint32) *history.Data {
	for i := range front {
		if front[i].TaskID == taskID {
			return &front[i]
		}
	}
	return nil
}

// assignLeftoverTime distributes timeLeft top-down in proportion to
// subtree usage, per spec.md §4.4's final paragraph. A zero-usage
// subtree receiving non-negligible leftover is an invariant violation —
// it would silently inflate a resource nothing is using.
func (t *Tree) assignLeftoverTime(h Handle, timeLeft float64) {
	n := &t.nodes[h]
	if n.isLeaf() {
		if n.usage == 0 {
			if timeLeft > model.LeftoverEpsilon {
				model.ThrowInvariant("assignLeftoverTime", "leaf with zero usage received leftover time %v", timeLeft)
			}
			return
		}
		n.time += timeLeft
		return
	}

	if n.usage == 0 {
		if timeLeft > model.LeftoverEpsilon {
			model.ThrowInvariant("assignLeftoverTime", "subtree with zero usage received leftover time %v", timeLeft)
		}
		t.assignLeftoverTime(Handle(n.left), 0)
		t.assignLeftoverTime(Handle(n.right), 0)
		return
	}

	left := &t.nodes[n.left]
	leftTime := timeLeft * left.usage / n.usage
	rightTime := timeLeft - leftTime

	if within(leftTime, timeLeft, model.LeftoverEpsilon) {
		// rightTime is fp dust; give the whole remainder to left.
		leftTime, rightTime = timeLeft, 0
	} else if within(rightTime, timeLeft, model.LeftoverEpsilon) {
		// leftTime is fp dust; give the whole remainder to right.
		leftTime, rightTime = 0, timeLeft
	}

	t.assignLeftoverTime(Handle(n.left), leftTime)
	t.assignLeftoverTime(Handle(n.right), rightTime)
	n.time += timeLeft
}

func within(v, target, eps float64) bool {
	d := v - target
	if d < 0 {
		d = -d
	}
	return d <= eps
}

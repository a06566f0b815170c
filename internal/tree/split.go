package tree

import (
	"sort"

	"github.com/PeterZhouSZ/Equalizer/internal/history"
	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// splitSets holds three copies of the same filtered front-record items,
// sorted by a different key each, per spec.md §9's "three index vectors
// over a single item table" note. They are read-only once built; each
// recursive step below takes its own slice copy before mutating it (the
// sweep drops leading elements as it advances).
type splitSets struct {
	byX     []history.Data
	byY     []history.Data
	byRange []history.Data
}

func newSplitSets(front []history.Data) splitSets {
	byX := append([]history.Data(nil), front...)
	sort.Slice(byX, func(i, j int) bool { return byX[i].VP.X < byX[j].VP.X })

	byY := append([]history.Data(nil), front...)
	sort.Slice(byY, func(i, j int) bool { return byY[i].VP.Y < byY[j].VP.Y })

	byRange := append([]history.Data(nil), front...)
	sort.Slice(byRange, func(i, j int) bool { return byRange[i].Range.Start < byRange[j].Range.Start })

	return splitSets{byX: byX, byY: byY, byRange: byRange}
}

// ComputeSplit runs the recursive split-position computation of spec.md
// §4.5, starting at the tree root with vp=FullViewport, range=FullRange.
// front is the front record's items with empty ones filtered out
// (AssignTargetTimes receives the unfiltered items); pvpW/pvpH is the
// governed (root) compound's inherited pixel
// viewport. spec.md §4.5 defines pvpExtent as this root viewport, read at
// every recursion depth (not just the root split), so it is stashed on
// the Tree rather than threaded through every recursive call.
//
// Each visited leaf calls Compound.SetViewport/SetRange and appends a new
// history.Data placeholder (time=-1, or 0 for an empty region) to dst.
func (t *Tree) ComputeSplit(dst *history.Record, front []history.Data, pvpW, pvpH int) {
	t.pvpW, t.pvpH = pvpW, pvpH
	sets := newSplitSets(front)
	t.computeSplit(t.Root(), dst, &sets, model.FullViewport, model.FullRange)
}

func (t *Tree) computeSplit(h Handle, dst *history.Record, sets *splitSets, vp model.Viewport, rng model.Range) {
	n := &t.nodes[h]
	// Only one axis is ever divided on a path to this node: Viewport for
	// 2D/VERTICAL/HORIZONTAL, Range for DB (mixing is rejected below). The
	// other axis keeps its Full default the whole way down, so checking it
	// too would flag every legitimately empty leaf under the live axis.
	assigned := vp.HasArea()
	if t.mode == model.ModeDB {
		assigned = rng.HasData()
	}
	if n.usage == 0 && assigned {
		model.ThrowInvariant("computeSplit", "assigning work to unused compound: vp=%+v range=%+v", vp, rng)
	}

	if n.isLeaf() {
		t.computeSplitLeaf(n, dst, vp, rng)
		return
	}

	switch n.splitMode {
	case model.ModeVertical:
		if rng != model.FullRange {
			model.ThrowInvariant("computeSplit", "mixed 2D/DB load-balancing not supported: range=%+v", rng)
		}
		t.splitAxis(h, dst, sets, vp, rng, t.pvpW, true)
	case model.ModeHorizontal:
		if rng != model.FullRange {
			model.ThrowInvariant("computeSplit", "mixed 2D/DB load-balancing not supported: range=%+v", rng)
		}
		t.splitAxis(h, dst, sets, vp, rng, t.pvpH, false)
	case model.ModeDB:
		if vp != model.FullViewport {
			model.ThrowInvariant("computeSplit", "mixed 2D/DB load-balancing not supported: vp=%+v", vp)
		}
		t.splitRange(h, dst, sets, vp, rng)
	}
}

func (t *Tree) computeSplitLeaf(n *node, dst *history.Record, vp model.Viewport, rng model.Range) {
	n.compound.SetViewport(vp)
	n.compound.SetRange(rng)

	d := history.Data{
		TaskID:  n.taskID,
		Channel: n.channel,
		VP:      vp,
		Range:   rng,
		Time:    -1,
	}
	if !vp.HasArea() || !rng.HasData() {
		d.Time = 0
	}
	dst.Items = append(dst.Items, d)
}

// splitAxis implements spec.md §4.5's VERTICAL/HORIZONTAL sweep. vertical
// selects the X axis (VP.X/VP.W/byX) over the Y axis (VP.Y/VP.H/byY);
// pvpExtent is the root's inherited pixel width (vertical) or height
// (horizontal), used to convert the integer pixel boundary to normalized
// units.
func (t *Tree) splitAxis(h Handle, dst *history.Record, sets *splitSets, vp model.Viewport, rng model.Range, pvpExtent int, vertical bool) {
	n := &t.nodes[h]
	left, right := &t.nodes[n.left], &t.nodes[n.right]

	var start, end float64
	var working []history.Data
	if vertical {
		start, end = vp.X, vp.XEnd()
		working = append([]history.Data(nil), sets.byX...)
	} else {
		start, end = vp.Y, vp.YEnd()
		working = append([]history.Data(nil), sets.byY...)
	}

	timeLeft := left.time
	splitPos := start

	for timeLeft > model.SplitEpsilon && splitPos < end && len(working) > 0 {
		working = dropBefore(working, splitPos, vertical)
		if len(working) == 0 {
			break
		}

		currentPos := 1.0
		for i := range working {
			e := axisEnd(working[i], vertical)
			if e < currentPos {
				currentPos = e
			}
		}

		currentLoad := 0.0
		for i := range working {
			if axisStart(working[i], vertical) >= currentPos {
				break
			}
			yContrib := crossExtent(working[i], vertical) -
				max(0, crossStart(vp, vertical)-crossStart(working[i].VP, vertical)) -
				max(0, crossEnd(working[i].VP, vertical)-crossEnd(vp, vertical))
			if yContrib > 0 {
				currentLoad += working[i].Load * (yContrib / crossExtent2(vp, vertical))
			}
		}

		width := currentPos - splitPos
		currentTime := width * crossExtent2(vp, vertical) * currentLoad

		if currentTime >= timeLeft {
			splitPos += width * timeLeft / currentTime
			timeLeft = 0
		} else {
			timeLeft -= currentTime
			splitPos = currentPos
		}
	}

	boundary := 0.0
	if pvpExtent > 0 {
		boundary = float64(boundaryComponent(n.boundary2i, vertical)) / float64(pvpExtent)
	}

	switch {
	case left.usage == 0:
		splitPos = start
	case right.usage == 0:
		splitPos = end
	case boundary > 0:
		lenLeft := splitPos - start
		lenRight := end - splitPos
		maxLeft := axisMaxSize(left, vertical) / float64(pvpExtent)
		maxRight := axisMaxSize(right, vertical) / float64(pvpExtent)

		if lenRight > maxRight {
			splitPos = end - maxRight
		} else if lenLeft > maxLeft {
			splitPos = start + maxLeft
		}

		if (splitPos - start) < boundary {
			splitPos = start + boundary
		}
		if (end - splitPos) < boundary {
			splitPos = end - boundary
		}

		ratio := float64(int(splitPos/boundary + 0.5))
		splitPos = ratio * boundary
	}

	splitPos = model.ClampFloat(splitPos, start, end)

	if vertical {
		leftVP := vp
		leftVP.W = splitPos - vp.X
		t.computeSplit(Handle(n.left), dst, sets, leftVP, rng)

		rightVP := vp
		rightVP.X = leftVP.XEnd()
		rightVP.W = end - rightVP.X
		for rightVP.XEnd() < end {
			rightVP.W += model.SplitEpsilon
		}
		t.computeSplit(Handle(n.right), dst, sets, rightVP, rng)
	} else {
		leftVP := vp
		leftVP.H = splitPos - vp.Y
		t.computeSplit(Handle(n.left), dst, sets, leftVP, rng)

		rightVP := vp
		rightVP.Y = leftVP.YEnd()
		rightVP.H = end - rightVP.Y
		for rightVP.YEnd() < end {
			rightVP.H += model.SplitEpsilon
		}
		t.computeSplit(Handle(n.right), dst, sets, rightVP, rng)
	}
}

// splitRange implements spec.md §4.5's DB mode sweep over Range instead
// of Viewport: load density is the plain sum of item.load (no
// projection), and the boundary is the float boundaryf quantum.
func (t *Tree) splitRange(h Handle, dst *history.Record, sets *splitSets, vp model.Viewport, rng model.Range) {
	n := &t.nodes[h]
	left, right := &t.nodes[n.left], &t.nodes[n.right]

	start, end := rng.Start, rng.End
	working := append([]history.Data(nil), sets.byRange...)

	timeLeft := left.time
	splitPos := start

	for timeLeft > model.SplitEpsilon && splitPos < end && len(working) > 0 {
		kept := working[:0:0]
		for _, d := range working {
			if d.Range.End > splitPos {
				kept = append(kept, d)
			}
		}
		working = kept
		if len(working) == 0 {
			break
		}

		currentPos := 1.0
		for _, d := range working {
			if d.Range.End < currentPos {
				currentPos = d.Range.End
			}
		}

		currentLoad := 0.0
		for _, d := range working {
			if d.Range.Start >= currentPos {
				break
			}
			currentLoad += d.Load
		}

		if currentLoad >= timeLeft {
			width := currentPos - splitPos
			splitPos += width * timeLeft / currentLoad
			timeLeft = 0
		} else {
			timeLeft -= currentLoad
			splitPos = currentPos
		}
	}

	boundary := n.boundaryf
	switch {
	case left.usage == 0:
		splitPos = start
	case right.usage == 0:
		splitPos = end
	}

	ratio := float64(int(splitPos/boundary + 0.5))
	splitPos = ratio * boundary
	if (splitPos - start) < boundary {
		splitPos = start
	}
	if (end - splitPos) < boundary {
		splitPos = end
	}

	leftRange := model.Range{Start: rng.Start, End: splitPos}
	t.computeSplit(Handle(n.left), dst, sets, vp, leftRange)

	rightRange := model.Range{Start: splitPos, End: rng.End}
	t.computeSplit(Handle(n.right), dst, sets, vp, rightRange)
}

// --- axis helpers: abstract the VERTICAL (X/W) vs HORIZONTAL (Y/H) pair
// of fields so splitAxis has one implementation instead of two near
// copies, mirroring the C++ reference's near-duplicated VERTICAL and
// HORIZONTAL branches as a single parametrized sweep. ---

func dropBefore(ws []history.Data, pos float64, vertical bool) []history.Data {
	out := ws[:0:0]
	for _, d := range ws {
		if axisEnd(d, vertical) > pos {
			out = append(out, d)
		}
	}
	return out
}

func axisStart(d history.Data, vertical bool) float64 {
	if vertical {
		return d.VP.X
	}
	return d.VP.Y
}

func axisEnd(d history.Data, vertical bool) float64 {
	if vertical {
		return d.VP.XEnd()
	}
	return d.VP.YEnd()
}

// crossExtent is the cross-axis (perpendicular to the split axis) extent
// of an item: H for a vertical (X) split, W for a horizontal (Y) split.
func crossExtent(d history.Data, vertical bool) float64 {
	if vertical {
		return d.VP.H
	}
	return d.VP.W
}

func crossExtent2(vp model.Viewport, vertical bool) float64 {
	if vertical {
		return vp.H
	}
	return vp.W
}

func crossStart(vp model.Viewport, vertical bool) float64 {
	if vertical {
		return vp.Y
	}
	return vp.X
}

func crossEnd(vp model.Viewport, vertical bool) float64 {
	if vertical {
		return vp.YEnd()
	}
	return vp.XEnd()
}

func axisMaxSize(n *node, vertical bool) float64 {
	if vertical {
		return n.maxSize[0]
	}
	return n.maxSize[1]
}

func boundaryComponent(b [2]int, vertical bool) int {
	if vertical {
		return b[0]
	}
	return b[1]
}

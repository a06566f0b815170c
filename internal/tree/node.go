// Package tree implements the load equalizer's Split Tree: a balanced
// binary tree mirroring the governed compound's immediate children, used
// to compute per-frame target render times (spec.md §4.4) and split
// positions (spec.md §4.5).
//
// Nodes live in a flat arena ([]node) and reference their children by
// integer handle rather than by pointer, per spec.md §9's note that a
// "recursive tree with raw owning pointers" should become either a
// value-recursive tree or "an arena of nodes indexed by integer handles ...
// simpler for destruction and ... cache-friendly [for] aggregation
// sweeps". A handle of -1 means "no child" (the node is a leaf).
package tree

import (
	"log/slog"

	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// noChild is the handle value meaning "this node has no such child".
const noChild = -1

// node is one arena slot: either a leaf (compound != nil, left==right==noChild)
// or an internal split node (compound == nil, left and right valid handles).
type node struct {
	left, right int32
	splitMode   model.Mode

	// Leaf-only fields.
	compound model.Compound
	channel  model.Channel
	taskID   uint32

	// Populated by AssignTargetTimes/assignLeftoverTime (spec.md §4.4) and
	// consumed by ComputeSplit (spec.md §4.5). maxSize is in pixels;
	// boundaryf is the DB boundary quantum.
	maxSize    [2]float64
	boundary2i [2]int
	boundaryf  float64
	time       float64
	usage      float64
}

func (n *node) isLeaf() bool { return n.left == noChild && n.right == noChild }

// Tree is the arena-backed Split Tree for one LoadEqualizer.
type Tree struct {
	nodes  []node
	root   int32
	mode   model.Mode
	params Params
	logger *slog.Logger

	// pvpW/pvpH are the governed (root) compound's inherited pixel
	// viewport, set fresh by ComputeSplit at the start of every frame's
	// split pass. splitAxis reads these at every recursion depth (spec.md
	// §4.5: "pvpExtent = root governed compound's inherited pixel
	// viewport"), not just at the root split.
	pvpW, pvpH int
}

// Handle addresses one node in a Tree: it is the node's index in the
// arena. Tree.Root returns the root's handle.
type Handle int32

// Root returns the tree's root handle.
func (t *Tree) Root() Handle { return Handle(t.root) }

// IsLeaf reports whether h addresses a leaf node.
func (t *Tree) IsLeaf(h Handle) bool { return t.nodes[h].isLeaf() }

// Children returns h's children. Both are noChild (-1) for a leaf.
func (t *Tree) Children(h Handle) (left, right Handle) {
	n := &t.nodes[h]
	return Handle(n.left), Handle(n.right)
}

// Compound returns the leaf's governed Compound, or nil for an internal
// node.
func (t *Tree) Compound(h Handle) model.Compound { return t.nodes[h].compound }

// Channel returns the leaf's Channel, or nil for an internal node.
func (t *Tree) Channel(h Handle) model.Channel { return t.nodes[h].channel }

// TaskID returns the leaf's task ID, or 0 for an internal node.
func (t *Tree) TaskID(h Handle) uint32 { return t.nodes[h].taskID }

// Time returns h's current target render time in milliseconds.
func (t *Tree) Time(h Handle) float64 { return t.nodes[h].time }

// Usage returns h's aggregated usage.
func (t *Tree) Usage(h Handle) float64 { return t.nodes[h].usage }

// NodeCount returns the number of nodes in the arena (leaves + internal).
func (t *Tree) NodeCount() int { return len(t.nodes) }

// LeafCount returns the number of leaf nodes, i.e. the number of items a
// fresh Frame History Record must hold (spec.md §3 invariant).
func (t *Tree) LeafCount() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].isLeaf() {
			n++
		}
	}
	return n
}

// ForEachLeaf calls fn once per leaf, in left-to-right order.
func (t *Tree) ForEachLeaf(fn func(h Handle)) {
	for i := range t.nodes {
		if t.nodes[i].isLeaf() {
			fn(Handle(i))
		}
	}
}

// Close deregisters every leaf's channel listener, mirroring
// LoadEqualizer's destructor-equivalent lifecycle (spec.md §3 "Each leaf
// registers itself as a listener on its Channel at construction and
// deregisters at destruction").
func (t *Tree) Close(listener any) {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.isLeaf() && n.channel != nil {
			n.channel.RemoveListener(listener)
		}
	}
}

package tree

import (
	"context"
	"log/slog"

	"github.com/PeterZhouSZ/Equalizer/internal/model"
)

// Params carries the configuration values Build and the split computation
// need but that don't belong on the tree's persistent node data —
// mirroring the root package's Config without importing it (that would
// reintroduce the cycle internal/model exists to avoid).
type Params struct {
	Mode       model.Mode
	Boundary2i [2]int
	Boundaryf  float64
}

// builder holds the transient state for one Build call.
type builder struct {
	nodes    []node
	mode     model.Mode
	params   Params
	listener any
	logger   *slog.Logger
	seen     map[model.Channel]model.Compound
}

// Build constructs a balanced binary Split Tree over children, per
// spec.md §4.1. listener is registered on every leaf's Channel
// (Channel.AddListener) so the equalizer receives that channel's
// load-data notifications; it is typically the *LoadEqualizer itself.
//
// Build panics with a *model.InvariantError if two leaves share a
// Channel (spec.md §9 Open Question: leaves must have distinct channels)
// or if a leaf's taskID is zero, and returns model.ErrNoChannel if a leaf
// compound has no Channel.
func Build(children []model.Compound, params Params, listener any, logger *slog.Logger) (*Tree, error) {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	b := &builder{
		mode:     params.Mode,
		params:   params,
		listener: listener,
		logger:   logger,
		seen:     make(map[model.Channel]model.Compound, len(children)),
	}
	root, err := b.build(children)
	if err != nil {
		return nil, err
	}
	logger.Debug("split tree built", "leaves", len(children), "nodes", len(b.nodes))
	return &Tree{nodes: b.nodes, root: root, mode: params.Mode, params: params, logger: logger}, nil
}

// build recurses per spec.md §4.1 and returns the handle of the subtree
// root it allocated.
func (b *builder) build(c []model.Compound) (int32, error) {
	if len(c) == 1 {
		return b.buildLeaf(c[0])
	}

	mid := len(c) / 2
	leftChildren, rightChildren := c[:mid], c[mid:]

	// Left first, so leaves land in the arena in left-to-right order
	// (ForEachLeaf relies on this). Both subtrees exist before the 2D
	// alternation rule below reads the right subtree's splitMode.
	left, err := b.build(leftChildren)
	if err != nil {
		return noChild, err
	}
	right, err := b.build(rightChildren)
	if err != nil {
		return noChild, err
	}

	var splitMode model.Mode
	if b.mode == model.Mode2D {
		if b.nodes[right].splitMode == model.ModeHorizontal {
			splitMode = model.ModeVertical
		} else {
			splitMode = model.ModeHorizontal
		}
	} else {
		splitMode = b.mode
	}

	n := node{left: left, right: right, splitMode: splitMode}
	aggregate(&n, &b.nodes[left], &b.nodes[right])
	b.nodes = append(b.nodes, n)
	return int32(len(b.nodes) - 1), nil
}

func (b *builder) buildLeaf(c model.Compound) (int32, error) {
	ch := c.Channel()
	if ch == nil {
		return noChild, model.ErrNoChannel
	}
	if prev, dup := b.seen[ch]; dup {
		model.ThrowInvariant("buildTree", "channel %q is shared by two leaves (%v and %v); leaves must have distinct channels", ch.Name(), prev, c)
	}
	b.seen[ch] = c

	taskID := c.TaskID()
	if taskID == 0 {
		model.ThrowInvariant("buildTree", "leaf with channel %q has taskID 0", ch.Name())
	}

	splitMode := b.mode
	if b.mode == model.Mode2D {
		splitMode = model.ModeVertical
	}

	ch.AddListener(b.listener)

	w, h := ch.PixelViewport()
	n := node{
		left:       noChild,
		right:      noChild,
		splitMode:  splitMode,
		compound:   c,
		channel:    ch,
		taskID:     taskID,
		maxSize:    [2]float64{float64(w), float64(h)},
		boundary2i: b.params.Boundary2i,
		boundaryf:  b.params.Boundaryf,
	}
	b.nodes = append(b.nodes, n)
	return int32(len(b.nodes) - 1), nil
}

// aggregate fills in an internal node's maxSize/boundary2i/boundaryf from
// its two children, per the spec.md §3 aggregation table. time/usage
// aggregation happens later, in AssignTargetTimes.
func aggregate(n *node, left, right *node) {
	switch n.splitMode {
	case model.ModeVertical:
		n.maxSize = [2]float64{left.maxSize[0] + right.maxSize[0], min(left.maxSize[1], right.maxSize[1])}
		n.boundary2i = [2]int{left.boundary2i[0] + right.boundary2i[0], max(left.boundary2i[1], right.boundary2i[1])}
		n.boundaryf = max(left.boundaryf, right.boundaryf)
	case model.ModeHorizontal:
		n.maxSize = [2]float64{min(left.maxSize[0], right.maxSize[0]), left.maxSize[1] + right.maxSize[1]}
		n.boundary2i = [2]int{max(left.boundary2i[0], right.boundary2i[0]), left.boundary2i[1] + right.boundary2i[1]}
		n.boundaryf = max(left.boundaryf, right.boundaryf)
	case model.ModeDB:
		n.boundary2i = [2]int{max(left.boundary2i[0], right.boundary2i[0]), max(left.boundary2i[1], right.boundary2i[1])}
		n.boundaryf = left.boundaryf + right.boundaryf
	}
}

// discardHandler is a slog.Handler that drops everything; used when Build
// is called without a logger so internal/tree never nil-derefs. Mirrors
// the root package's unexported nopHandler (logger.go) — duplicated
// rather than imported to avoid a dependency from internal/tree back to
// the root package.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

package loadeq

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/PeterZhouSZ/Equalizer/internal/history"
	"github.com/PeterZhouSZ/Equalizer/internal/metrics"
	"github.com/PeterZhouSZ/Equalizer/internal/model"
	"github.com/PeterZhouSZ/Equalizer/internal/tree"
)

// LoadEqualizer attaches to one internal node of a compound configuration
// tree (the "governed compound") and repartitions its children's
// viewports and/or depth ranges every frame so each finishes at
// approximately the same wall-clock time. See the package doc for usage.
type LoadEqualizer struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Recorder

	tree *tree.Tree
	hist *history.History
}

// Option customizes a LoadEqualizer at construction.
type Option func(*LoadEqualizer)

// WithLogger sets the logging sink. Per spec.md §9's note against
// global-singleton logging, LoadEqualizer never reaches for a package
// logger; without this option it logs nowhere.
func WithLogger(logger *slog.Logger) Option {
	return func(le *LoadEqualizer) { le.logger = logger }
}

// WithRecorder attaches a Prometheus recorder. Supplemental observability
// only (spec.md's Non-goals exclude the statistics transport, not the
// equalizer's own derived metrics); a LoadEqualizer built without this
// option records nothing.
func WithRecorder(r *metrics.Recorder) Option {
	return func(le *LoadEqualizer) { le.metrics = r }
}

// New creates a LoadEqualizer with the given configuration. cfg is
// validated; an invalid Config makes New panic with an *InvariantError,
// since a hardcoded bad configuration is a caller bug, not a runtime
// condition to recover from — validate beforehand with Config.Validate
// if the values come from outside the program.
//
// The Split Tree is not built yet; it is built lazily on the first call
// to FrameStart that finds the governed compound has children (spec.md
// §3 "Lifecycle").
func New(cfg Config, opts ...Option) *LoadEqualizer {
	if err := cfg.Validate(); err != nil {
		model.ThrowInvariant("New", "%s", err)
	}
	le := &LoadEqualizer{cfg: cfg, logger: newNopLogger()}
	for _, opt := range opts {
		opt(le)
	}
	le.hist = history.New(le.logger)
	return le
}

// Close tears down the Split Tree, deregistering every leaf's channel
// listener (spec.md §3 "deregisters at destruction"). Close is a no-op
// if the tree was never built. The LoadEqualizer must not be used again
// afterwards.
func (le *LoadEqualizer) Close() {
	if le.tree != nil {
		le.tree.Close(le)
		le.tree = nil
	}
}

// FrameStart runs the frame-start hook of spec.md §4.2 for compound's
// upcoming frameNumber.
func (le *LoadEqualizer) FrameStart(compound Compound, frameNumber uint32) {
	if le.tree == nil {
		children := compound.Children()
		if len(children) == 0 {
			// Leaf compound, or an internal one with nothing attached yet;
			// nothing to balance (spec.md §4.2 step 1).
			return
		}
		le.buildTree(children)
	}

	le.hist.Maintain()
	le.metrics.SetHistorySize(le.hist.Len())

	if le.cfg.Frozen || !compound.IsRunning() {
		return
	}

	rawFront := le.hist.Front().Items
	le.tree.AssignTargetTimes(rawFront, le.cfg.Damping)

	le.tree.ForEachLeaf(func(h tree.Handle) {
		le.metrics.ObserveTarget(le.tree.Channel(h).Name(), le.tree.Time(h))
	})

	rec := le.hist.Push(frameNumber, le.tree.LeafCount())
	pvpW, pvpH := compound.InheritedPixelViewport()
	front := history.FilterNonEmpty(rawFront)
	le.tree.ComputeSplit(rec, front, pvpW, pvpH)
	le.metrics.IncSplits()

	le.logger.Debug("frame split computed", "frame", frameNumber, "items", len(rec.Items))
}

func (le *LoadEqualizer) buildTree(children []model.Compound) {
	params := tree.Params{
		Mode:       le.cfg.Mode,
		Boundary2i: le.cfg.Boundary2i,
		Boundaryf:  le.cfg.Boundaryf,
	}
	t, err := tree.Build(children, params, le, le.logger)
	if err != nil {
		model.ThrowInvariant("FrameStart", "building split tree: %s", err)
	}
	le.tree = t
	le.logger.Info("split tree built", "leaves", len(children))
}

// NotifyLoadData is the load-data sink of spec.md §4.6, invoked once per
// channel as that channel's statistics for some past frameNumber arrive.
func (le *LoadEqualizer) NotifyLoadData(channel Channel, frameNumber uint32, statistics []Statistic) {
	rec := le.hist.RecordAt(frameNumber)
	if rec == nil {
		return
	}
	if t, ok := history.Ingest(rec, channel, statistics); ok {
		le.metrics.ObserveMeasured(channel.Name(), t)
	}
}

// Describe writes the equalizer's configuration in the spec.md §6 text
// grammar, e.g. "load_equalizer { mode 2D }". This replaces the teacher
// pattern's operator-overloaded pretty-printing (spec.md §9) with an
// explicit sink method.
func (le *LoadEqualizer) Describe(w io.Writer) error {
	_, err := fmt.Fprint(w, le.cfg.String())
	return err
}

// Config returns the equalizer's configuration, which is read-only after
// construction.
func (le *LoadEqualizer) Config() Config { return le.cfg }

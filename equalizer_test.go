package loadeq

import (
	"testing"

	"github.com/PeterZhouSZ/Equalizer/internal/model"
	"github.com/PeterZhouSZ/Equalizer/internal/sim"
	"github.com/PeterZhouSZ/Equalizer/internal/tree"
)

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}

func leafTime(tr *tree.Tree, ch *sim.Channel) (float64, bool) {
	var t float64
	var found bool
	tr.ForEachLeaf(func(h tree.Handle) {
		if tr.Channel(h) == model.Channel(ch) {
			t = tr.Time(h)
			found = true
		}
	})
	return t, found
}

// TestEqualizer_S3_DB3WayUnequal reproduces spec.md §8 scenario S3: three
// equal-usage leaves under mode=DB, damping=0.5. After one frame measures
// times 10/20/30, the next frame's damped targets should be 15/20/25.
func TestEqualizer_S3_DB3WayUnequal(t *testing.T) {
	ch1 := sim.NewChannel("c1", 100, 100)
	ch2 := sim.NewChannel("c2", 100, 100)
	ch3 := sim.NewChannel("c3", 100, 100)
	l1 := sim.NewLeaf(ch1, 1, 1.0)
	l2 := sim.NewLeaf(ch2, 2, 1.0)
	l3 := sim.NewLeaf(ch3, 3, 1.0)
	root := sim.NewInternal(l1, l2, l3)
	root.PVPW, root.PVPH = 100, 100

	le := New(NewConfig(
		WithMode(ModeDB),
		WithDamping(0.5),
		WithBoundaryf(0.1),
	))

	le.FrameStart(root, 1)

	le.NotifyLoadData(ch1, 1, []Statistic{{TaskID: 1, Kind: StatDraw, StartTime: 0, EndTime: 10}})
	le.NotifyLoadData(ch2, 1, []Statistic{{TaskID: 2, Kind: StatDraw, StartTime: 0, EndTime: 20}})
	le.NotifyLoadData(ch3, 1, []Statistic{{TaskID: 3, Kind: StatDraw, StartTime: 0, EndTime: 30}})

	le.FrameStart(root, 2)

	t1, ok1 := leafTime(le.tree, ch1)
	t2, ok2 := leafTime(le.tree, ch2)
	t3, ok3 := leafTime(le.tree, ch3)
	if !ok1 || !ok2 || !ok3 {
		t.Fatalf("could not find all three leaves: %v %v %v", ok1, ok2, ok3)
	}
	if !approxEqual(t1, 15) {
		t.Fatalf("leaf1 target time = %v, want 15", t1)
	}
	if !approxEqual(t2, 20) {
		t.Fatalf("leaf2 target time = %v, want 20", t2)
	}
	if !approxEqual(t3, 25) {
		t.Fatalf("leaf3 target time = %v, want 25", t3)
	}

	// Ranges assigned by the split must partition [0,1] with no gap/overlap.
	total := l1.Rng.End - l1.Rng.Start
	total += l2.Rng.End - l2.Rng.Start
	total += l3.Rng.End - l3.Rng.Start
	if !approxEqual(total, 1.0) {
		t.Fatalf("total assigned range = %v, want 1.0", total)
	}
}

// TestEqualizer_S6_Freeze covers spec.md §8 scenario S6: once frozen, the
// equalizer must not call SetViewport/SetRange on any leaf, and must not
// grow the Frame History (no new record is pushed), even though the
// Split Tree is still built and history maintenance still runs.
func TestEqualizer_S6_Freeze(t *testing.T) {
	ch1 := sim.NewChannel("c1", 100, 100)
	ch2 := sim.NewChannel("c2", 100, 100)
	l1 := sim.NewLeaf(ch1, 1, 1.0)
	l2 := sim.NewLeaf(ch2, 2, 1.0)
	root := sim.NewInternal(l1, l2)
	root.PVPW, root.PVPH = 100, 100

	le := New(NewConfig(WithMode(ModeVertical), WithFrozen(true)))

	le.FrameStart(root, 1)
	le.FrameStart(root, 2)
	le.FrameStart(root, 3)

	zero := model.Viewport{}
	if l1.VP != zero || l2.VP != zero {
		t.Fatalf("frozen equalizer must never call SetViewport: l1.VP=%v l2.VP=%v", l1.VP, l2.VP)
	}
	if got := le.hist.Len(); got != 1 {
		t.Fatalf("hist.Len() = %d, want 1 (synthetic seed only, no records pushed while frozen)", got)
	}
}

// TestEqualizer_Unfrozen_AssignsViewports checks that an equalizer built
// without Frozen assigns viewports and pushes a history record on its
// first frame, contrasting with TestEqualizer_S6_Freeze.
func TestEqualizer_Unfrozen_AssignsViewports(t *testing.T) {
	ch1 := sim.NewChannel("c1", 100, 100)
	ch2 := sim.NewChannel("c2", 100, 100)
	l1 := sim.NewLeaf(ch1, 1, 1.0)
	l2 := sim.NewLeaf(ch2, 2, 1.0)
	root := sim.NewInternal(l1, l2)
	root.PVPW, root.PVPH = 100, 100

	le := New(NewConfig(WithMode(ModeVertical)))
	le.FrameStart(root, 1)

	zero := model.Viewport{}
	if l1.VP == zero && l2.VP == zero {
		t.Fatal("unfrozen equalizer should have assigned non-zero viewports")
	}
	if le.hist.Len() != 2 {
		t.Fatalf("hist.Len() = %d, want 2 (synthetic seed plus frame 1's pushed record)", le.hist.Len())
	}
}

func TestEqualizer_NoChildrenIsNoop(t *testing.T) {
	ch := sim.NewChannel("solo", 100, 100)
	leaf := sim.NewLeaf(ch, 1, 1.0)

	le := New(DefaultConfig())
	le.FrameStart(leaf, 1)

	if le.tree != nil {
		t.Fatal("FrameStart on a childless compound must not build a tree")
	}
}

func TestEqualizer_Describe(t *testing.T) {
	le := New(NewConfig(WithMode(ModeDB), WithDamping(0.25)))
	var b []byte
	buf := writerFunc(func(p []byte) (int, error) {
		b = append(b, p...)
		return len(p), nil
	})
	if err := le.Describe(buf); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	got := string(b)
	want := "load_equalizer { mode DB; damping 0.25 }"
	if got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

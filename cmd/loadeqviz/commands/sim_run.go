package commands

import (
	"math/rand"

	"github.com/PeterZhouSZ/Equalizer"
	"github.com/PeterZhouSZ/Equalizer/internal/sim"
)

// LeafResult is one leaf's assignment for one simulated frame.
type LeafResult struct {
	Channel  string
	TaskID   uint32
	VP       loadeq.Viewport
	Range    loadeq.Range
	Measured float64
}

// FrameResult is one simulated frame's outcome across every leaf.
type FrameResult struct {
	Frame  uint32
	Leaves []LeafResult
}

// SimulationParams configures a synthetic run of the equalizer.
type SimulationParams struct {
	Leaves int
	Frames int
	Seed   int64
	Config loadeq.Config
	// PixelWidth/PixelHeight is the simulated destination surface size,
	// inherited by the root compound and by every leaf's channel.
	PixelWidth  int
	PixelHeight int
}

// SimulationResult is the full record of a simulated run: one FrameResult
// per frame, plus each channel's measured-time series in frame order for
// the "report" subcommand's chart.
type SimulationResult struct {
	Frames         []FrameResult
	MeasuredSeries map[string][]float64
}

// runSimulation builds an internal/sim compound tree with p.Leaves leaves,
// then drives FrameStart/NotifyLoadData for p.Frames synthetic frames with
// seeded-random per-leaf render costs, recording each frame's leaf
// assignments and measured times. This is the shared engine behind
// simulate/render/report: each subcommand runs its own simulation from
// the same flags rather than reading another command's output, since
// there is no persisted split-tree state between process invocations.
func runSimulation(p SimulationParams) *SimulationResult {
	rng := rand.New(rand.NewSource(p.Seed))

	channels := make([]*sim.Channel, p.Leaves)
	leaves := make([]*sim.Compound, p.Leaves)
	for i := range leaves {
		ch := sim.NewChannel(leafName(i), p.PixelWidth, p.PixelHeight)
		channels[i] = ch
		// Usage weights vary leaf to leaf so the tiling isn't trivially
		// uniform; biased toward 1.0 so most runs still look balanced.
		usage := 0.5 + rng.Float64()
		leaves[i] = sim.NewLeaf(ch, uint32(i+1), usage)
	}
	root := sim.NewInternal(leaves...)
	root.PVPW, root.PVPH = p.PixelWidth, p.PixelHeight

	le := loadeq.New(p.Config)
	defer le.Close()

	result := &SimulationResult{MeasuredSeries: make(map[string][]float64, p.Leaves)}

	for frame := uint32(1); frame <= uint32(p.Frames); frame++ {
		le.FrameStart(root, frame)

		fr := FrameResult{Frame: frame, Leaves: make([]LeafResult, 0, p.Leaves)}
		for i, leaf := range leaves {
			ch := channels[i]
			// Render cost scales with the assigned region's size (viewport
			// area for 2D modes, range span for DB) plus jitter, so the
			// next frame's measurements actually drive rebalancing.
			area := leaf.VP.W * leaf.VP.H
			if p.Config.Mode == loadeq.ModeDB {
				area = leaf.Rng.End - leaf.Rng.Start
			}
			if area <= 0 {
				area = 0
			}
			costUs := int64(1 + area*20000 + rng.Float64()*2000)

			le.NotifyLoadData(ch, frame, []loadeq.Statistic{
				{TaskID: leaf.TaskIDVal, Kind: loadeq.StatDraw, StartTime: 0, EndTime: costUs},
			})

			measured := float64(costUs)
			result.MeasuredSeries[ch.Name()] = append(result.MeasuredSeries[ch.Name()], measured)

			fr.Leaves = append(fr.Leaves, LeafResult{
				Channel:  ch.Name(),
				TaskID:   leaf.TaskIDVal,
				VP:       leaf.VP,
				Range:    leaf.Rng,
				Measured: measured,
			})
		}
		result.Frames = append(result.Frames, fr)
	}

	return result
}

func leafName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return "channel-" + string(letters[i])
	}
	return "channel-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}

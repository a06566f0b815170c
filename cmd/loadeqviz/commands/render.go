package commands

import (
	"fmt"

	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
)

// NewRenderCommand builds the "render" subcommand: it runs the same kind
// of simulation "simulate" does, then paints the final frame's leaf
// viewports as colored rectangles — a visual sanity check for the
// coverage/no-overlap properties the equalizer is supposed to maintain.
func NewRenderCommand() *cobra.Command {
	f := &simulateFlags{}
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the final simulated frame's leaf tiling to a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.dampingSet = cmd.Flags().Changed("damping")
			f.boundarySet = cmd.Flags().Changed("boundary-w") || cmd.Flags().Changed("boundary-h")
			f.boundaryFSet = cmd.Flags().Changed("boundary-f")
			f.frozenSet = cmd.Flags().Changed("frozen")
			return runRender(f, out)
		},
	}

	registerSimulationFlags(cmd, f)
	cmd.Flags().StringVar(&out, "out", "tiling.png", "output PNG path")
	return cmd
}

func runRender(f *simulateFlags, out string) error {
	params, err := buildSimulationParams(f)
	if err != nil {
		return err
	}
	result := runSimulation(params)
	if len(result.Frames) == 0 {
		return fmt.Errorf("loadeqviz: no frames simulated")
	}
	last := result.Frames[len(result.Frames)-1]

	const (
		imgW = 640
		imgH = 360
	)
	dc := gg.NewContext(imgW, imgH)
	dc.SetRGB(0.1, 0.1, 0.12)
	dc.DrawRectangle(0, 0, imgW, imgH)
	_ = dc.Fill()

	for i, leaf := range last.Leaves {
		hue := float64(i) * (360.0 / float64(len(last.Leaves)))
		dc.SetColor(gg.HSL(hue, 0.6, 0.5))
		x := leaf.VP.X * imgW
		y := leaf.VP.Y * imgH
		w := leaf.VP.W * imgW
		h := leaf.VP.H * imgH
		if w <= 0 || h <= 0 {
			continue
		}
		dc.DrawRectangle(x, y, w, h)
		_ = dc.Fill()

		dc.SetRGB(1, 1, 1)
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, w, h)
		_ = dc.Stroke()
	}

	return dc.SavePNG(out)
}

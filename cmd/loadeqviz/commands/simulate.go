package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// simulateFlags holds the simulate subcommand's flag values.
type simulateFlags struct {
	leaves     int
	mode       string
	frames     int
	configPath string
	seed       int64
	damping    float64
	boundaryW  int
	boundaryH  int
	boundaryF  float64
	frozen     bool

	dampingSet   bool
	boundarySet  bool
	boundaryFSet bool
	frozenSet    bool
}

// NewSimulateCommand builds the "simulate" subcommand.
func NewSimulateCommand() *cobra.Command {
	f := &simulateFlags{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a synthetic compound tree through F frames and print the resulting tiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.dampingSet = cmd.Flags().Changed("damping")
			f.boundarySet = cmd.Flags().Changed("boundary-w") || cmd.Flags().Changed("boundary-h")
			f.boundaryFSet = cmd.Flags().Changed("boundary-f")
			f.frozenSet = cmd.Flags().Changed("frozen")
			return runSimulate(cmd.OutOrStdout(), f)
		},
	}

	registerSimulationFlags(cmd, f)
	return cmd
}

func registerSimulationFlags(cmd *cobra.Command, f *simulateFlags) {
	cmd.Flags().IntVar(&f.leaves, "leaves", 4, "number of leaves in the synthetic compound tree")
	cmd.Flags().StringVar(&f.mode, "mode", "", "split mode: 2d, vertical, horizontal, or db (default from config)")
	cmd.Flags().IntVar(&f.frames, "frames", 10, "number of synthetic frames to simulate")
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a loadeq.yaml configuration file")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "random seed for reproducible synthetic render costs")
	cmd.Flags().Float64Var(&f.damping, "damping", 0.5, "damping factor in [0,1]")
	cmd.Flags().IntVar(&f.boundaryW, "boundary-w", 1, "minimum leaf width in pixels")
	cmd.Flags().IntVar(&f.boundaryH, "boundary-h", 1, "minimum leaf height in pixels")
	cmd.Flags().Float64Var(&f.boundaryF, "boundary-f", 0, "minimum DB-range granularity")
	cmd.Flags().BoolVar(&f.frozen, "frozen", false, "freeze split assignment while still maintaining history")
}

func buildSimulationParams(f *simulateFlags) (SimulationParams, error) {
	cfg, err := loadConfig(f.configPath, f.mode, f.damping, f.dampingSet, f.boundaryW, f.boundaryH, f.boundarySet, f.boundaryF, f.boundaryFSet, f.frozen, f.frozenSet)
	if err != nil {
		return SimulationParams{}, err
	}
	return SimulationParams{
		Leaves:      f.leaves,
		Frames:      f.frames,
		Seed:        f.seed,
		Config:      cfg,
		PixelWidth:  1920,
		PixelHeight: 1080,
	}, nil
}

func runSimulate(w io.Writer, f *simulateFlags) error {
	params, err := buildSimulationParams(f)
	if err != nil {
		return err
	}
	result := runSimulation(params)

	for _, fr := range result.Frames {
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.SetTitle(fmt.Sprintf("Frame %d", fr.Frame))
		tbl.AppendHeader(table.Row{"Channel", "Task", "Viewport", "Range", "Measured"})
		for _, leaf := range fr.Leaves {
			tbl.AppendRow(table.Row{
				leaf.Channel,
				leaf.TaskID,
				fmt.Sprintf("x=%.3f y=%.3f w=%.3f h=%.3f", leaf.VP.X, leaf.VP.Y, leaf.VP.W, leaf.VP.H),
				fmt.Sprintf("[%.3f, %.3f)", leaf.Range.Start, leaf.Range.End),
				humanize.FtoaWithDigits(leaf.Measured, 1) + " us",
			})
		}
		tbl.Render()
	}
	return nil
}

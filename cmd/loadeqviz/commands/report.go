package commands

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"
)

// NewReportCommand builds the "report" subcommand: it runs a simulation
// across all frames and charts each channel's measured render time per
// frame, for spotting load imbalance across a run.
func NewReportCommand() *cobra.Command {
	f := &simulateFlags{}
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Chart each channel's measured render time across the simulated run",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.dampingSet = cmd.Flags().Changed("damping")
			f.boundarySet = cmd.Flags().Changed("boundary-w") || cmd.Flags().Changed("boundary-h")
			f.boundaryFSet = cmd.Flags().Changed("boundary-f")
			f.frozenSet = cmd.Flags().Changed("frozen")
			return runReport(f, out)
		},
	}

	registerSimulationFlags(cmd, f)
	cmd.Flags().StringVar(&out, "out", "report.html", "output HTML path")
	return cmd
}

func runReport(f *simulateFlags, out string) error {
	params, err := buildSimulationParams(f)
	if err != nil {
		return err
	}
	result := runSimulation(params)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Per-channel render time",
			Subtitle: fmt.Sprintf("%d leaves, %d frames", params.Leaves, params.Frames),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Render time (us)"}),
	)

	labels := make([]string, params.Frames)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(labels)

	channels := make([]string, 0, len(result.MeasuredSeries))
	for ch := range result.MeasuredSeries {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	for _, ch := range channels {
		series := result.MeasuredSeries[ch]
		data := make([]opts.LineData, len(series))
		for i, v := range series {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(ch, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}

	f2, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("loadeqviz: create %s: %w", out, err)
	}
	defer f2.Close()

	return line.Render(f2)
}

// Command loadeqviz is a demo/debug CLI around the loadeq package: it
// drives a synthetic compound tree through the equalizer and prints,
// renders, or charts the resulting tiling. It has no bearing on loadeq's
// own invariants — see the loadeq package doc comment for the library
// itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PeterZhouSZ/Equalizer/cmd/loadeqviz/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "loadeqviz",
		Short: "Demo/debug CLI for the loadeq adaptive load equalizer",
		Long: `loadeqviz drives a synthetic compound tree through loadeq.LoadEqualizer
and inspects the results.

Commands:
  simulate   print the per-frame tiling as a table
  render     paint the final frame's tiling to a PNG
  report     chart per-channel render time across the run`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewSimulateCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewReportCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

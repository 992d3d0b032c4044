package main

import (
	"fmt"

	"edgebench/internal/logger"
	"edgebench/internal/report"

	"github.com/spf13/cobra"
)

var (
	plotFlags struct {
		Manual bool
	}
)

var plotCmd = &cobra.Command{
	Use:   "plot <metrics.csv> [out_dir]",
	Short: "Plot mean PSNR per operator for every noise type",
	Long: `Groups a metrics CSV by noise type and level, averages the PSNR of every
operator and writes one psnr_<type>.png chart per noise type. The output directory
defaults to a plots folder next to the CSV.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.New(logger.InfoLevel, "")

		outDir := ""
		if len(args) == 2 {
			outDir = args[1]
		}

		agg := report.DefaultAggregator()
		if plotFlags.Manual {
			agg = report.ManualAggregator{}
		}

		paths, err := report.PlotMetrics(args[0], outDir, agg)
		if err != nil {
			fatal(log, "plotting failed", err)
		}

		log.Info("Plot", "charts written", map[string]interface{}{
			"aggregator": agg.Name(),
			"charts":     len(paths),
		})
		for _, p := range paths {
			fmt.Println(p)
		}
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().BoolVar(&plotFlags.Manual, "manual", false, "aggregate without the dataframe backend")
}

package main

import (
	"fmt"

	"edgebench/internal/config"
	"edgebench/internal/logger"

	"github.com/spf13/cobra"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default experiment file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "edgebench.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if err := config.Default().Save(path); err != nil {
			fatal(logger.New(logger.InfoLevel, ""), "writing config failed", err)
		}
		fmt.Printf("Default configuration written to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}

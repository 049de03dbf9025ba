package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamed0406/slotwatch/internal/config"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "slotwatch",
		Short:         "Polls an appointment backend and alerts when a slot opens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file (defaults to $SLOTWATCH_CONFIG)")

	load := func() (config.Config, error) { return config.Load(cfgPath) }

	runCmd := newRunCmd(load)
	root.AddCommand(runCmd)
	root.AddCommand(newPreflightCmd(load))
	root.AddCommand(newDatesCmd(load))
	root.AddCommand(newVersionCmd())

	// bare "slotwatch" behaves like "slotwatch run"
	root.RunE = runCmd.RunE

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

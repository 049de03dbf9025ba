package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDatesCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "Print the dates the next round would probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			sel, err := newSelector(cfg)
			if err != nil {
				return err
			}
			list, err := sel.Select(cfg.Dates)
			if err != nil {
				return err
			}
			for _, d := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d, d.WeekdayCode())
			}
			return nil
		},
	}
}

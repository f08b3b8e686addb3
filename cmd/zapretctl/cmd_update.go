package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagUpdateApply bool

var commandUpdate = &cobra.Command{
	Use:   "update",
	Short: "Check published updates",
}

var commandUpdateBinary = &cobra.Command{
	Use:   "binary",
	Short: "Download winws.exe when missing or outdated",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		updated, err := ac.UpdateBinary(context.Background())
		if err != nil {
			return err
		}
		if updated {
			fmt.Fprintln(cmd.OutOrStdout(), "winws.exe updated")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "winws.exe is up to date")
		}
		return nil
	},
}

var commandUpdateStrategies = &cobra.Command{
	Use:   "strategies",
	Short: "List published strategies that differ from local ones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()
		scripts, err := ac.CheckStrategyUpdates(ctx)
		if err != nil {
			return err
		}
		for _, s := range scripts {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		if !flagUpdateApply || len(scripts) == 0 {
			return nil
		}
		return ac.ApplyStrategyUpdates(ctx, scripts)
	},
}

func init() {
	commandUpdateStrategies.Flags().BoolVar(&flagUpdateApply, "apply", false, "download and convert the changed scripts")
	commandUpdate.AddCommand(commandUpdateBinary, commandUpdateStrategies)
	mainCommand.AddCommand(commandUpdate)
}

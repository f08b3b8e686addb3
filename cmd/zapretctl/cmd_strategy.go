package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"zapret-launcher/core/strategy"
)

var (
	flagStartName  string
	flagStartIpset string
)

var commandList = &cobra.Command{
	Use:   "list",
	Short: "List strategies with their start indices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		current := ac.CurrentStrategy()
		for i, name := range ac.ListStrategies() {
			mark := " "
			if name == current {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d. %s\n", mark, i+1, name)
		}
		return nil
	},
}

var commandCurrent = &cobra.Command{
	Use:   "current",
	Short: "Print the active strategy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ac.CurrentStrategy())
		return nil
	},
}

var commandStart = &cobra.Command{
	Use:   "start [index]",
	Short: "Install and start the bypass service with a strategy",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := strategy.IpsetSelector(flagStartIpset)
		if flagStartName == "" && len(args) == 0 {
			return errors.New("strategy index or --name is required")
		}
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		if flagStartName != "" {
			return ac.StartStrategyByName(flagStartName, sel)
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid strategy index %q", args[0])
		}
		return ac.StartStrategy(index, sel)
	},
}

var commandStop = &cobra.Command{
	Use:   "stop",
	Short: "Stop the bypass and remove its services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		return ac.StopStrategy()
	},
}

var commandGameFilter = &cobra.Command{
	Use:       "game-filter on|off",
	Short:     "Switch the game port profile",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		return ac.SetGameFilter(args[0] == "on")
	},
}

var commandConvert = &cobra.Command{
	Use:   "convert file.bat...",
	Short: "Import batch scripts as strategies",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		created, err := ac.ConvertScripts(args)
		for _, name := range created {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return err
	},
}

func init() {
	commandStart.Flags().StringVarP(&flagStartName, "name", "n", "", "strategy name instead of index")
	commandStart.Flags().StringVar(&flagStartIpset, "ipset", "", "ipset: none, any or a custom ipset file (default ipset-all)")
	mainCommand.AddCommand(commandList, commandCurrent, commandStart, commandStop, commandGameFilter, commandConvert)
}

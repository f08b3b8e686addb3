package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var commandHosts = &cobra.Command{
	Use:   "hosts",
	Short: "Manage the hosts override block",
}

var commandHostsShow = &cobra.Command{
	Use:   "show",
	Short: "Print the published categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		doc, err := ac.FetchHosts(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "updated: %s\n", doc.Date)
		for _, c := range doc.Categories {
			fmt.Fprintf(out, "%s (%d)\n", c.Name, len(c.Lines))
		}
		return nil
	},
}

var commandHostsApply = &cobra.Command{
	Use:   "apply [category...]",
	Short: "Write the published entries, optionally only the named categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return ac.ApplyHosts(context.Background())
		}
		doc, err := ac.FetchHosts(context.Background())
		if err != nil {
			return err
		}
		var lines []string
		for _, name := range args {
			entries, ok := doc.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown hosts category %q", name)
			}
			lines = append(lines, entries...)
		}
		return ac.SaveHostsSelection(lines)
	},
}

var commandHostsRemove = &cobra.Command{
	Use:   "remove",
	Short: "Remove the managed block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		return ac.RemoveHosts()
	},
}

func init() {
	commandHosts.AddCommand(commandHostsShow, commandHostsApply, commandHostsRemove)
	mainCommand.AddCommand(commandHosts)
}

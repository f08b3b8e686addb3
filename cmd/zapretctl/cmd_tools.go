package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagResolveAddTo string
	flagMigrateCopy  bool
)

var commandLists = &cobra.Command{
	Use:   "lists",
	Short: "List the editable list files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		for _, name := range ac.ListFiles() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var commandIpset = &cobra.Command{
	Use:   "ipset",
	Short: "Manage custom ipsets",
}

var commandIpsetList = &cobra.Command{
	Use:   "list",
	Short: "List custom ipsets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		for _, name := range ac.CustomIpsets() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var commandIpsetAdd = &cobra.Command{
	Use:   "add file ip",
	Short: "Append the /24 of an IPv4 address to an ipset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		return ac.AddIP(args[0], args[1])
	},
}

var commandResolve = &cobra.Command{
	Use:   "resolve host",
	Short: "Resolve a host (SRV aware) to an ipset entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		entry, err := ac.ResolveToIpset(context.Background(), args[0], flagResolveAddTo)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), entry)
		return nil
	},
}

var commandSTUN = &cobra.Command{
	Use:   "stun [server]",
	Short: "Print the external address reported by a STUN server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		server := ""
		if len(args) == 1 {
			server = args[0]
		}
		addr, err := ac.CheckSTUN(server)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), addr)
		return nil
	},
}

var commandSync = &cobra.Command{
	Use:   "sync",
	Short: "Restore the bundled files into the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		return ac.SyncBundle()
	},
}

var commandMigrate = &cobra.Command{
	Use:   "migrate",
	Short: "Remove the legacy installation folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ac, err := newController(cmd)
		if err != nil {
			return err
		}
		if !ac.HasLegacyFolder() {
			fmt.Fprintln(cmd.OutOrStdout(), "no legacy folder")
			return nil
		}
		return ac.MigrateLegacy(flagMigrateCopy)
	},
}

func init() {
	commandResolve.Flags().StringVar(&flagResolveAddTo, "add-to", "", "ipset file to append the entry to")
	commandMigrate.Flags().BoolVar(&flagMigrateCopy, "copy", true, "import legacy strategies first")
	commandIpset.AddCommand(commandIpsetList, commandIpsetAdd)
	mainCommand.AddCommand(commandLists, commandIpset, commandResolve, commandSTUN, commandSync, commandMigrate)
}

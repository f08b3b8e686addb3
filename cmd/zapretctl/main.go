// Command zapretctl drives the launcher from a terminal without the tray UI.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"zapret-launcher/core"
	"zapret-launcher/internal/debuglog"
)

var (
	flagRoot    string
	flagExecDir string
	flagVerbose bool
)

var mainCommand = &cobra.Command{
	Use:           "zapretctl",
	Short:         "Manage zapret strategies, lists and the hosts block",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// User lines already reach stderr through the sink.
		if flagVerbose {
			debuglog.GlobalLevel = debuglog.LevelVerbose
		} else {
			log.SetOutput(io.Discard)
		}
	},
}

func init() {
	mainCommand.PersistentFlags().StringVarP(&flagRoot, "root", "D", "", "data directory (default: per-user config dir)")
	mainCommand.PersistentFlags().StringVar(&flagExecDir, "exec-dir", "", "directory with the bundled resources and settings")
	mainCommand.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose diagnostic logging")
}

// newController builds the controller for one command; user log lines go to stderr.
func newController(cmd *cobra.Command) (*core.AppController, error) {
	errOut := cmd.ErrOrStderr()
	return core.NewAppController(core.Options{
		Root:    flagRoot,
		ExecDir: flagExecDir,
		Sink: debuglog.SinkFunc(func(line string) {
			fmt.Fprintln(errOut, line)
		}),
	})
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

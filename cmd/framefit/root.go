package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/logging"
)

// globals holds the persistent flags.
type globals struct {
	verbose    bool
	configPath string
}

// loadConfig reads --config when given, otherwise the default path.
func (g *globals) loadConfig() (*config.Config, error) {
	res, err := g.loadConfigWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func (g *globals) loadConfigWithSources() (*config.LoadResult, error) {
	if g.configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(g.configPath)
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "framefit",
		Short:         "framefit places X11 windows with gravity, packing, pushing and grid snapping",
		Long:          "framefit is a placement daemon for X11. Windows dragged or nudged by framefit snap to a grid, abut or shove their neighbours, and stay inside the screen or the box they are assigned to.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if g.verbose {
				level = log.DebugLevel
			}
			ctx := logging.WithLogger(cmd.Context(), logging.New(cmd.ErrOrStderr(), level))
			cmd.SetContext(ctx)
		},
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file path (default: ~/.config/framefit/config.yaml)")

	root.AddCommand(newDaemonCmd(g))
	root.AddCommand(newStatusCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newWindowsCmd())
	root.AddCommand(newPlaceCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newConfigCmd(g))
	root.AddCommand(newMCPCmd())

	return root
}

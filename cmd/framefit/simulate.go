package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/framefit/internal/logging"
	"github.com/1broseidon/framefit/internal/render"
	"github.com/1broseidon/framefit/internal/scenario"
)

func newSimulateCmd() *cobra.Command {
	var (
		asJSON  bool
		showMap bool
		columns int
	)
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml|scenario.toml>",
		Short: "Replay moves from a scenario file without a display",
		Long: `Replay the moves of a scenario file against its windows and print what
each move resolved to and the order geometries were committed in.

Files ending in .toml are read as TOML, anything else as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			report, err := scenario.Run(s, logger.WithPrefix("simulate"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, report)
			}
			opts := render.Options{Columns: columns, Renderer: render.NewRenderer(out)}
			st := newStyles(out)
			if report.Name != "" {
				fmt.Fprintln(out, st.title.Render(report.Name))
			}
			fmt.Fprintln(out, render.Steps(report.Steps, opts))
			fmt.Fprintln(out, render.Commits(report.Commits, opts))
			if showMap {
				fmt.Fprint(out, render.Map(render.FromReport(report), opts))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&showMap, "map", false, "draw the final arrangement")
	cmd.Flags().IntVar(&columns, "columns", 80, "map width in characters")
	return cmd
}
